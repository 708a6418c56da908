package atecc508a

// Device command opcodes.
//
//nolint unused commands
const (
	atcaRead   = 0x02 // Read command op-code
	atcaWrite  = 0x12 // Write command op-code
	atcaLock   = 0x17 // Lock command op-code
	atcaRandom = 0x1b // Random command op-code
	atcaGenKey = 0x40 // GenKey command op-code
)

// Zone is an independently addressed region inside the device.
type Zone uint8

// Configuration zones.
const (
	ZoneConfig Zone = 0x00
	ZoneOTP    Zone = 0x01
	ZoneData   Zone = 0x02
)

const (
	// atcaZoneReadWrite32 is the zone bit 7: set to access 32 bytes, clear for 4.
	atcaZoneReadWrite32 = 0x80

	// atcaBlockSize is the size of a block
	atcaBlockSize = 32
	// atcaWordSize is the size of a word
	atcaWordSize = 4
)

// Lock command modes. Bit 7 skips the summary CRC check.
const (
	lockModeZoneConfig     = 0x80
	lockModeZoneDataAndOTP = 0x81
	lockModeSlot0          = 0x82

	// lockSuccess is the response signal byte of a successful lock.
	lockSuccess = 0x00
)

// GenKey command modes.
const (
	genKeyModeNewPrivate = 0x04 // generate a new private key
)

// Configuration zone addresses for the blocks the driver reads.
//
// The address is the word index: block bits 4:3, word offset bits 2:0.
const (
	addrConfigBlock0 uint16 = 0x0000
	addrConfigBlock2 uint16 = 0x0010
)

// Configuration zone EEPROM byte offsets.
const (
	confOTPLock    = 86 // data/OTP zone lock byte
	confLockStatus = 87 // config zone lock byte
	confSlotsLock0 = 88
	confSlotsLock1 = 89

	// confSlotConfigWord and confKeyConfigWord address the 4-byte words
	// holding the slot 0/1 SlotConfig (bytes 20..23) and KeyConfig
	// (bytes 96..99) entries.
	confSlotConfigWord uint16 = 20 / atcaWordSize
	confKeyConfigWord  uint16 = 96 / atcaWordSize
)
