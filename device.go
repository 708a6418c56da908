package atecc508a

import (
	"github.com/celltrace/go-atecc508a/conf"
)

// Config is the configuration object for a device.
type Config struct {
	// Debug is used for debug output.
	Debug Logger
}

// opKind names the active multi-step exchange and its current phase.
type opKind uint8

const (
	opIdle opKind = iota
	opReadConfigZeroCmd
	opReadConfigZeroResult
	opReadConfigTwoCmd
	opReadConfigTwoResult
	opGenerateEntropyCmd
	opGenerateEntropyResult
	opSetupSlotConfig
	opSetupKeyConfig
	opLockZoneConfig
	opLockDataOTP
	opLockSlot0
	opLockResult
	opCreateKeyPair
	opReadKeyPair
)

// operation is the single in-flight exchange: its phase, the retry count of
// that phase and, for key generation, the target slot.
type operation struct {
	kind opKind
	run  int
	slot uint16
}

// Retry ceilings per phase. The device answers NAK while it is still
// processing; these bound how often the identical request is re-issued
// before the operation is abandoned. Random number generation and ECC key
// generation are by far the slowest operations.
const (
	retriesConfigRead    = 10
	retriesSetup         = 10
	retriesLockConfig    = 30
	retriesLock          = 100
	retriesLockResult    = 100
	retriesEntropyCmd    = 10
	retriesEntropyResult = 1000
	retriesGenKey        = 10
	retriesGenKeyResult  = 5000
)

// Dev is an ATECC508A device driven over a non-blocking Transport.
//
// Dev holds no locks: public entry points and transfer completions must be
// serialized by the caller or the transport, the way a cooperative kernel
// serializes syscalls and interrupts.
type Dev struct {
	transport Transport
	wake      func()
	log       Logger

	// buf is the working buffer for both directions. It is nil while on
	// loan to the transport for the one in-flight transfer and is
	// reclaimed on every exit path.
	buf []byte

	op operation
	// opLen is the data length of the access set up by readZone/writeZone.
	opLen int

	entropyPool   [entropyPoolSize]byte
	entropyOffset int
	entropyClient EntropyClient

	configRead bool
	serial     [9]byte
	revision   [3]byte
	configLock bool
	dataLock   bool
	slotLocked conf.SlotLocked

	publicKey [publicKeySize]byte
}

// New returns a device on the given transport.
//
// wake must generate the device wake condition (SDA low for at least 60µs)
// and is invoked before the first command of every operation; it may be nil
// when the transport wakes the device itself.
func New(t Transport, wake func(), cfg Config) *Dev {
	d := &Dev{
		wake: wake,
		log:  getLogger(cfg),
		buf:  make([]byte, workingBufferSize),
	}
	d.transport = &transportDebug{"ecc", d.log, t, nil}
	d.transport.SetClient(d)
	return d
}

// Ready reports whether the driver is idle and can start a new operation.
func (d *Dev) Ready() bool {
	return d.op.kind == opIdle
}

// begin claims the state machine for a new operation chain.
func (d *Dev) begin(op operation) {
	if d.op.kind != opIdle {
		// At most one exchange may be in flight. This is a programming
		// defect in the caller, not a runtime condition.
		panic("atecc508a: operation already in progress")
	}
	d.op = op
}

// reset returns the state machine to idle.
func (d *Dev) reset() {
	d.op = operation{}
}

func (d *Dev) wakeup() {
	if d.wake != nil {
		d.wake()
	}
}

// reclaim takes the working buffer back from a completed transfer.
func (d *Dev) reclaim(buf []byte) {
	d.buf = buf[:cap(buf)]
}

// stagePayload copies p into the payload field of the working buffer. It
// reports false while the buffer is on loan.
func (d *Dev) stagePayload(p []byte) bool {
	if d.buf == nil {
		return false
	}
	copy(d.buf[fieldData:], p)
	return true
}

// sendCommand assembles a command frame around the staged payload and hands
// the working buffer to the transport for a single write of payloadLen+8
// bytes. The completion arrives via TransferComplete.
func (d *Dev) sendCommand(opcode uint8, param1 uint8, param2 uint16, payloadLen int) error {
	if d.buf == nil {
		return errBufferLoaned
	}
	frame := buildCommand(d.buf, opcode, param1, param2, payloadLen)
	buf := d.buf
	d.buf = nil
	if err := d.transport.Write(frame); err != nil {
		d.reclaim(buf)
		return err
	}
	return nil
}

// readZone issues a Read command. length selects the access size: 32 sets
// the block bit in the zone byte, 4 clears it, anything else is ErrSize and
// the transport is not touched.
func (d *Dev) readZone(zone Zone, address uint16, length int) error {
	z := uint8(zone)
	switch length {
	case atcaBlockSize:
		z |= atcaZoneReadWrite32
	case atcaWordSize:
		z &^= atcaZoneReadWrite32
	default:
		return ErrSize
	}

	d.opLen = length
	return d.sendCommand(atcaRead, z, address, 0)
}

// writeZone issues a Write command for a payload already staged in the
// working buffer. Size handling is symmetric with readZone.
func (d *Dev) writeZone(zone Zone, address uint16, length int) error {
	z := uint8(zone)
	switch length {
	case atcaBlockSize:
		z |= atcaZoneReadWrite32
	case atcaWordSize:
		z &^= atcaZoneReadWrite32
	default:
		return ErrSize
	}

	d.opLen = length
	return d.sendCommand(atcaWrite, z, address, length)
}

// Slots 0 and 1 are set up as secret P-256 private key slots whose public
// half can always be recomputed: SlotConfig 0x2083, KeyConfig 0x3300.
var (
	setupSlotConfig = repeatEntry(conf.SlotConfig{Bits1: 0x83, Bits2: 0x20}.Bytes())
	setupKeyConfig  = repeatEntry(conf.KeyConfig{Bits1: 0x33, Bits2: 0x00}.Bytes())
)

// repeatEntry doubles a per-slot config entry into one 4-byte write word
// covering two adjacent slots.
func repeatEntry(b [2]byte) []byte {
	return []byte{b[0], b[1], b[0], b[1]}
}

// ReadConfigZone reads the two configuration blocks holding the serial
// number, revision and lock bytes.
//
// This works whether the device is locked or unlocked. The results are
// retained on the device handle; see SerialNumber, Revision, DeviceLocked.
func (d *Dev) ReadConfigZone() error {
	d.begin(operation{kind: opReadConfigZeroCmd})
	d.wakeup()

	if err := d.readZone(ZoneConfig, addrConfigBlock0, atcaBlockSize); err != nil {
		d.reset()
		return err
	}
	return nil
}

// Setup writes the slot and key configuration for slots 0 and 1 as one
// chained two-write sequence.
//
// This only works on an unlocked device. The writes configure slots 0 and 1
// to hold secret, individually lockable P-256 private keys.
func (d *Dev) Setup() error {
	d.begin(operation{kind: opSetupSlotConfig})
	d.wakeup()

	if !d.stagePayload(setupSlotConfig) {
		d.reset()
		return errBufferLoaned
	}
	if err := d.writeZone(ZoneConfig, confSlotConfigWord, atcaWordSize); err != nil {
		d.reset()
		return err
	}
	return nil
}

// LockConfigZone permanently locks the configuration zone.
//
// Warning: this is irreversible on real hardware.
func (d *Dev) LockConfigZone() error {
	return d.lock(opLockZoneConfig, lockModeZoneConfig)
}

// LockDataAndOTP permanently locks the data and OTP zones.
//
// Warning: this is irreversible on real hardware.
func (d *Dev) LockDataAndOTP() error {
	return d.lock(opLockDataOTP, lockModeZoneDataAndOTP)
}

// LockSlot0 permanently locks slot 0.
//
// Warning: this is irreversible on real hardware.
func (d *Dev) LockSlot0() error {
	return d.lock(opLockSlot0, lockModeSlot0)
}

func (d *Dev) lock(kind opKind, mode uint8) error {
	d.begin(operation{kind: kind})
	d.wakeup()

	if err := d.sendCommand(atcaLock, mode, 0x0000, 0); err != nil {
		d.reset()
		return err
	}
	return nil
}

// CreateKeyPair generates a new private key in slot and reads back the
// public key.
//
// There is no completion notification: poll PublicKey for the result. Key
// generation is the slowest device operation and is retried accordingly.
func (d *Dev) CreateKeyPair(slot uint16) error {
	d.begin(operation{kind: opCreateKeyPair, slot: slot})
	d.wakeup()

	if err := d.sendCommand(atcaGenKey, genKeyModeNewPrivate, slot, 0); err != nil {
		d.reset()
		return err
	}
	return nil
}

// PublicKey returns the most recently generated public key.
//
// It returns ErrKeyNotReady until a CreateKeyPair exchange has completed.
func (d *Dev) PublicKey() ([]byte, error) {
	if d.publicKey == ([publicKeySize]byte{}) {
		return nil, ErrKeyNotReady
	}
	pk := make([]byte, publicKeySize)
	copy(pk, d.publicKey[:])
	return pk, nil
}

// SerialNumber returns the 9-byte device serial number.
//
// ReadConfigZone must have completed first.
func (d *Dev) SerialNumber() ([]byte, error) {
	if !d.configRead {
		return nil, ErrConfigNotRead
	}
	sn := make([]byte, len(d.serial))
	copy(sn, d.serial[:])
	return sn, nil
}

// Revision returns the 3-byte device revision.
//
// ReadConfigZone must have completed first.
func (d *Dev) Revision() ([]byte, error) {
	if !d.configRead {
		return nil, ErrConfigNotRead
	}
	rev := make([]byte, len(d.revision))
	copy(rev, d.revision[:])
	return rev, nil
}

// ConfigZoneLocked reports whether the configuration zone was locked at the
// last ReadConfigZone.
func (d *Dev) ConfigZoneLocked() bool {
	return d.configLock
}

// DataZoneLocked reports whether the data and OTP zones were locked at the
// last ReadConfigZone.
func (d *Dev) DataZoneLocked() bool {
	return d.dataLock
}

// SlotLocked returns the per-slot lock bits from the last ReadConfigZone.
func (d *Dev) SlotLocked() conf.SlotLocked {
	return d.slotLocked
}

// DeviceLocked reports whether both the configuration and the data zones are
// locked. Only a fully locked device is usable for key operations.
func (d *Dev) DeviceLocked() bool {
	return d.configLock && d.dataLock
}

// issueRead hands the buffer back to the transport for the expected-size
// response read of the next phase.
func (d *Dev) issueRead(buf []byte, n int, next opKind) {
	d.op = operation{kind: next, slot: d.op.slot}
	if err := d.transport.Read(buf[:n]); err != nil {
		d.reclaim(buf)
		d.reset()
		d.log.Printf("response read failed: %v", err)
	}
}

// readAgain re-issues the identical response read after a NAK.
func (d *Dev) readAgain(buf []byte, n int) {
	if err := d.transport.Read(buf[:n]); err != nil {
		d.reclaim(buf)
		d.reset()
		d.log.Printf("response read failed: %v", err)
	}
}

// abandon logs a retry-exhausted phase and returns to idle. The buffer must
// already be reclaimed. Configuration helpers fail silently: the initiating
// call has already returned and only the entropy path has a client to notify.
func (d *Dev) abandon(what string) {
	d.reset()
	d.log.Printf("%s: device did not acknowledge, giving up", what)
}

// TransferComplete advances the operation state machine. The transport
// invokes it exactly once per transfer, handing back the working buffer.
func (d *Dev) TransferComplete(buf []byte, err error) {
	if d.op.kind == opIdle {
		panic("atecc508a: transfer completed while idle")
	}

	// Only a NAK is retryable. Any other transport fault drops the
	// operation on the spot.
	if err != nil && !isNak(err) {
		kind := d.op.kind
		d.reclaim(buf)
		d.reset()
		if kind == opGenerateEntropyCmd || kind == opGenerateEntropyResult {
			d.entropyFailed(err)
			return
		}
		d.log.Printf("transfer failed: %v", err)
		return
	}

	switch d.op.kind {
	case opReadConfigZeroCmd:
		if isNak(err) {
			d.reclaim(buf)
			if d.op.run == retriesConfigRead {
				d.abandon("config zone read")
				return
			}
			d.op.run++
			if e := d.readZone(ZoneConfig, addrConfigBlock0, atcaBlockSize); e != nil {
				d.abandon("config zone read")
			}
			return
		}
		d.issueRead(buf, d.opLen+respCountSize+crcSize, opReadConfigZeroResult)

	case opReadConfigZeroResult:
		if isNak(err) {
			if d.op.run == retriesConfigRead {
				d.reclaim(buf)
				d.abandon("config zone read")
				return
			}
			d.op.run++
			d.readAgain(buf, d.opLen+respCountSize+crcSize)
			return
		}

		copy(d.serial[0:3], buf[0:3])
		copy(d.serial[4:8], buf[8:12])
		copy(d.revision[:], buf[4:7])
		d.log.Printf("serial number: % x", d.serial)
		d.log.Printf("revision: % x", d.revision)

		d.reclaim(buf)
		d.op = operation{kind: opReadConfigTwoCmd}
		if e := d.readZone(ZoneConfig, addrConfigBlock2, atcaBlockSize); e != nil {
			d.abandon("config zone read")
		}

	case opReadConfigTwoCmd:
		if isNak(err) {
			d.reclaim(buf)
			if d.op.run == retriesConfigRead {
				d.abandon("config zone read")
				return
			}
			d.op.run++
			if e := d.readZone(ZoneConfig, addrConfigBlock2, atcaBlockSize); e != nil {
				d.abandon("config zone read")
			}
			return
		}
		d.issueRead(buf, d.opLen+respCountSize+crcSize, opReadConfigTwoResult)

	case opReadConfigTwoResult:
		if isNak(err) {
			if d.op.run == retriesConfigRead {
				d.reclaim(buf)
				d.abandon("config zone read")
				return
			}
			d.op.run++
			d.readAgain(buf, d.opLen+respCountSize+crcSize)
			return
		}

		d.reset()

		// The block covers configuration bytes 64..95; the response is
		// offset one further by the count byte.
		const base = 2*atcaBlockSize - respCountSize
		switch otp := conf.LockState(buf[confOTPLock-base]); otp {
		case conf.LockStateUnlocked:
			d.log.Printf("data and OTP zone unlocked")
		case conf.LockStateLocked:
			d.log.Printf("data and OTP zone locked")
			d.dataLock = true
		default:
			d.log.Printf("data and OTP lock byte invalid: %#02x", uint8(otp))
		}
		switch cl := conf.LockState(buf[confLockStatus-base]); cl {
		case conf.LockStateUnlocked:
			d.log.Printf("config zone unlocked")
		case conf.LockStateLocked:
			d.log.Printf("config zone locked")
			d.configLock = true
		default:
			d.log.Printf("config zone lock byte invalid: %#02x", uint8(cl))
		}
		d.slotLocked = conf.SlotLocked(
			uint16(buf[confSlotsLock0-base]) | uint16(buf[confSlotsLock1-base])<<8,
		)
		d.log.Printf("slot lock status: %#04x", uint16(d.slotLocked))

		d.configRead = true
		d.reclaim(buf)

	case opGenerateEntropyCmd:
		if isNak(err) {
			d.reclaim(buf)
			if d.op.run == retriesEntropyCmd {
				d.reset()
				d.entropyFailed(ErrNoAck)
				return
			}
			d.op.run++
			if e := d.sendCommand(atcaRandom, 0x00, 0x0000, 0); e != nil {
				d.reset()
				d.entropyFailed(e)
			}
			return
		}
		d.issueRead(buf, respCountSize+respRandomSize+crcSize, opGenerateEntropyResult)

	case opGenerateEntropyResult:
		if isNak(err) {
			if d.op.run == retriesEntropyResult {
				d.reclaim(buf)
				d.reset()
				d.entropyFailed(ErrNoAck)
				return
			}
			d.op.run++
			d.readAgain(buf, respCountSize+respRandomSize+crcSize)
			return
		}

		d.reset()
		copy(d.entropyPool[:], buf[respCountSize:respCountSize+respRandomSize])
		d.reclaim(buf)
		d.entropyReady()

	case opSetupSlotConfig:
		if isNak(err) {
			d.reclaim(buf)
			if d.op.run == retriesSetup {
				d.abandon("setup slot config")
				return
			}
			d.op.run++
			d.setupWrite(setupSlotConfig, confSlotConfigWord)
			return
		}

		d.reclaim(buf)
		d.op = operation{kind: opSetupKeyConfig}
		d.setupWrite(setupKeyConfig, confKeyConfigWord)

	case opSetupKeyConfig:
		if isNak(err) {
			d.reclaim(buf)
			if d.op.run == retriesSetup {
				d.abandon("setup key config")
				return
			}
			d.op.run++
			d.setupWrite(setupKeyConfig, confKeyConfigWord)
			return
		}

		d.reclaim(buf)
		d.reset()

	case opLockZoneConfig:
		if isNak(err) {
			d.reclaim(buf)
			if d.op.run == retriesLockConfig {
				d.abandon("lock config zone")
				return
			}
			d.op.run++
			if e := d.sendCommand(atcaLock, lockModeZoneConfig, 0x0000, 0); e != nil {
				d.abandon("lock config zone")
			}
			return
		}
		d.issueRead(buf, respCountSize+respSignalSize+crcSize, opLockResult)

	case opLockDataOTP:
		if isNak(err) {
			d.reclaim(buf)
			if d.op.run == retriesLock {
				d.abandon("lock data and OTP")
				return
			}
			d.op.run++
			if e := d.sendCommand(atcaLock, lockModeZoneDataAndOTP, 0x0000, 0); e != nil {
				d.abandon("lock data and OTP")
			}
			return
		}
		d.issueRead(buf, respCountSize+respSignalSize+crcSize, opLockResult)

	case opLockSlot0:
		if isNak(err) {
			d.reclaim(buf)
			if d.op.run == retriesLock {
				d.abandon("lock slot 0")
				return
			}
			d.op.run++
			if e := d.sendCommand(atcaLock, lockModeSlot0, 0x0000, 0); e != nil {
				d.abandon("lock slot 0")
			}
			return
		}
		d.issueRead(buf, respCountSize+respSignalSize+crcSize, opLockResult)

	case opLockResult:
		if isNak(err) {
			if d.op.run == retriesLockResult {
				d.reclaim(buf)
				d.abandon("lock response")
				return
			}
			d.op.run++
			d.readAgain(buf, respCountSize+respSignalSize+crcSize)
			return
		}

		d.reset()
		if buf[respSignalIndex] != lockSuccess {
			d.log.Printf("failed to lock the device: status %#02x", buf[respSignalIndex])
		}
		d.reclaim(buf)

	case opCreateKeyPair:
		if isNak(err) {
			d.reclaim(buf)
			if d.op.run == retriesGenKey {
				d.abandon("create key pair")
				return
			}
			d.op.run++
			if e := d.sendCommand(atcaGenKey, genKeyModeNewPrivate, d.op.slot, 0); e != nil {
				d.abandon("create key pair")
			}
			return
		}
		d.issueRead(buf, respCountSize+publicKeySize+crcSize, opReadKeyPair)

	case opReadKeyPair:
		if isNak(err) {
			// ECC key generation can take a while.
			if d.op.run == retriesGenKeyResult {
				d.reclaim(buf)
				d.abandon("read key pair")
				return
			}
			d.op.run++
			d.readAgain(buf, respCountSize+publicKeySize+crcSize)
			return
		}

		copy(d.publicKey[:], buf[respCountSize:respCountSize+publicKeySize])
		d.reset()
		d.reclaim(buf)
	}
}

// setupWrite stages a setup word and issues the configuration write.
func (d *Dev) setupWrite(data []byte, word uint16) {
	if !d.stagePayload(data) {
		d.abandon("setup write")
		return
	}
	if err := d.writeZone(ZoneConfig, word, atcaWordSize); err != nil {
		d.abandon("setup write")
	}
}
