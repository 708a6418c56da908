package atecc508a

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errNoDevice marks an empty slot in the kit device scan.
var errNoDevice = errors.New("atecc508a: no device found")

// kitID is the kit protocol target for the ATECC508A; the first letter
// addresses it in commands.
const kitID = "ECC508"

const (
	kitMaxScanCount = 8
	kitMsgSize      = 32
	kitRxWrapSize   = kitMsgSize + 6
)

// KitTransport drives the device through a CryptoAuth kit protocol bridge,
// an ASCII command protocol spoken by Microchip demo boards.
//
// The bridge does its own bus-level polling, so transfers never NAK here:
// like I2CTransport, every transfer completes synchronously on the caller's
// goroutine. A command status other than success is a transport fault.
type KitTransport struct {
	phy    io.ReadWriter
	buf    []byte
	pkt    int
	log    Logger
	client TransportClient

	// pending is the expected response size of the command in flight,
	// zero when nothing is pending.
	pending int
}

var _ Transport = (*KitTransport)(nil)

// NewKitTransport returns a transport speaking the kit protocol over phy
// with the given physical packet size. Call Init before use.
func NewKitTransport(phy io.ReadWriter, packetSize int, log Logger) *KitTransport {
	if log == nil {
		log = nullLogger
	}
	return &KitTransport{
		phy: phy,
		buf: make([]byte, packetSize),
		pkt: packetSize,
		log: log,
	}
}

func (t *KitTransport) SetClient(c TransportClient) {
	t.client = c
}

// Write sends a command frame. The bridge addresses the device itself, so
// the word-address marker is stripped before encoding.
func (t *KitTransport) Write(p []byte) error {
	payload := strings.ToUpper(hex.EncodeToString(p[1:]))
	command := fmt.Sprintf("%c:t(%s)\n", kitID[0], payload)
	_, err := t.phySend([]byte(command))
	if err == nil {
		t.pending = 1
	}
	t.client.TransferComplete(p, err)
	return nil
}

// Read collects the response of the last command into p.
func (t *KitTransport) Read(p []byte) error {
	var err error
	if t.pending == 0 {
		err = errors.New("atecc508a: no kit response pending")
	} else {
		t.pending = 0
		msg := hex.EncodedLen(len(p)) + kitRxWrapSize
		buf := make([]byte, (msg/t.pkt+1)*t.pkt)

		var n int
		n, err = t.phyRecv(buf)
		if err == nil {
			_, err = kitParseRsp(buf[:n], p)
		}
	}
	t.client.TransferComplete(p, err)
	return nil
}

// Wake wakes the device through the bridge and verifies the wake token.
func (t *KitTransport) Wake() error {
	command := fmt.Sprintf("%c:w()\n", kitID[0])

	var data [10]byte
	n, err := t.executeResponse([]byte(command), data[:])
	if err != nil {
		return err
	}
	if n < 2 || data[respSignalIndex] != 0x11 {
		return fmt.Errorf("atecc508a: unexpected wake response % x", data[:n])
	}
	return nil
}

// Init scans the bridge for an attached ATECC5xx on the two-wire interface
// and selects it.
func (t *KitTransport) Init() error {
	for i := 0; i < kitMaxScanCount; i++ {
		dev, err := t.kitDeviceByIndex(i)
		if errors.Is(err, errNoDevice) {
			continue
		} else if err != nil {
			return err
		}

		t.log.Printf("kit: found %s on %s at %#02x", dev.ID, dev.Iface, dev.Address)
		if !strings.HasPrefix(dev.ID, "ECC5") || dev.Iface != "TWI" {
			continue
		}
		return t.selectDevice(dev.Address)
	}
	return errors.New("atecc508a: failed to discover device")
}

func (t *KitTransport) kitDeviceByIndex(index int) (kitDevice, error) {
	command := fmt.Sprintf("board:device(%02X)\n", index)
	if _, err := t.phySend([]byte(command)); err != nil {
		return kitDevice{}, err
	}

	buf := make([]byte, 4*t.pkt)
	n, err := t.phyRecv(buf)
	if err != nil {
		return kitDevice{}, err
	}
	return parseKitDevice(buf[:n])
}

func (t *KitTransport) selectDevice(address uint8) error {
	command := fmt.Sprintf("%c:physical:select(%02X)\n", kitID[0], address)

	var data [10]byte
	_, err := t.executeResponse([]byte(command), data[:])
	return err
}

func (t *KitTransport) executeResponse(command []byte, data []byte) (int, error) {
	if _, err := t.phySend(command); err != nil {
		return 0, err
	}

	buf := make([]byte, 4*t.pkt)
	n, err := t.phyRecv(buf)
	if err != nil {
		return 0, err
	}
	return kitParseRsp(buf[:n], data)
}

// phySend writes a command in physical packet sized chunks, zero padded.
func (t *KitTransport) phySend(txData []byte) (int, error) {
	left := len(txData)
	sent := 0
	for left > 0 {
		n := copy(t.buf, txData[sent:])
		for ; n < cap(t.buf); n++ {
			t.buf[n] = 0
		}

		n, err := t.phy.Write(t.buf)
		if err != nil {
			return sent, err
		}

		left -= n
		sent += n
	}

	return sent, nil
}

// phyRecv reads physical packets until the response terminator.
func (t *KitTransport) phyRecv(data []byte) (int, error) {
	left := len(data)
	read := 0
	for left > 0 {
		n, err := t.phy.Read(t.buf)
		if err != nil {
			return read, err
		}

		// end early on response end
		if index := bytes.IndexByte(t.buf, '\n'); index != -1 {
			copy(data[read:], t.buf[:index]) // ignore return for overflow check below
			read += index
			break
		}

		copy(data[read:], t.buf) // ignore return for overflow check below
		read += n
		left -= n
	}

	// error out to make sure we never lose any data
	if read > cap(data) {
		return read, errors.New("atecc508a: buffer overflow")
	}

	return read, nil
}

type kitDevice struct {
	ID      string
	Iface   string
	Address uint8
}

// parseKitDevice parses a board:device reply like "ECC508A TWI 00(C0)".
func parseKitDevice(buf []byte) (kitDevice, error) {
	if bytes.HasPrefix(buf, []byte("no_device")) {
		return kitDevice{}, errNoDevice
	}

	var (
		id      string
		iface   string
		index   uint8
		address uint8
	)
	_, err := fmt.Sscanf(
		string(buf), "%s %s %02X(%02X)", &id, &iface, &index, &address,
	)
	if err != nil {
		return kitDevice{}, fmt.Errorf("atecc508a: invalid kit device: %w", err)
	}
	return kitDevice{id, iface, address}, nil
}

// kitParseRsp decodes a kit reply of the form "XX(HEXDATA)\n" into dst and
// returns the decoded size. XX is the bridge status code.
func kitParseRsp(reply []byte, dst []byte) (int, error) {
	var status [1]byte
	n, err := hex.Decode(status[:], reply[0:2])
	if err != nil {
		return 0, err
	} else if n == 1 && status[0] != 0 {
		return 0, fmt.Errorf("atecc508a: kit status %#02x", status[0])
	}

	index := bytes.IndexByte(reply[3:], ')')
	if index == -1 {
		return 0, errors.New("atecc508a: failed to find end of frame")
	}
	if hex.DecodedLen(index) > cap(dst) {
		return 0, errors.New("atecc508a: receive buffer too small")
	}

	body := reply[3 : 3+index]
	return hex.Decode(dst, body)
}
