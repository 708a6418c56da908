// Package conf decodes ATECC508A configuration zone entries.
package conf

import "fmt"

// LockState is the value of a configuration zone lock byte.
type LockState uint8

// Lock byte values. Anything else indicates a corrupted configuration zone.
const (
	LockStateLocked   LockState = 0x00
	LockStateUnlocked LockState = 0x55
)

// Valid reports whether the byte holds one of the defined lock values.
func (s LockState) Valid() bool {
	return s == LockStateLocked || s == LockStateUnlocked
}

// IsLocked reports whether the byte marks the zone as locked.
func (s LockState) IsLocked() bool {
	return s == LockStateLocked
}

func (s LockState) String() string {
	switch s {
	case LockStateLocked:
		return "locked"
	case LockStateUnlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("invalid (%#02x)", uint8(s))
	}
}

// SlotLocked is the pair of SlotLocked bytes as a little endian word. A
// cleared bit means the slot is individually locked.
type SlotLocked uint16

// Locked reports whether the given slot is individually locked.
func (s SlotLocked) Locked(slot uint) bool {
	return s&(1<<slot) == 0
}

// SlotConfig is a 2-byte SlotConfig entry controlling slot access.
type SlotConfig struct {
	Bits1 uint8 // bits 7:0
	Bits2 uint8 // bits 15:8
}

// ReadKey returns bits 3:0.
func (c SlotConfig) ReadKey() uint8 {
	return c.Bits1 & 0x0f
}

// NoMac returns bit 4.
func (c SlotConfig) NoMac() bool {
	return c.Bits1&0x10 != 0
}

// LimitedUse returns bit 5.
func (c SlotConfig) LimitedUse() bool {
	return c.Bits1&0x20 != 0
}

// EncryptRead returns bit 6. When set, reads from this slot are encrypted.
func (c SlotConfig) EncryptRead() bool {
	return c.Bits1&0x40 != 0
}

// IsSecret returns bit 7. When set, the slot contents are never readable.
func (c SlotConfig) IsSecret() bool {
	return c.Bits1&0x80 != 0
}

// WriteKey returns bits 11:8.
func (c SlotConfig) WriteKey() uint8 {
	return c.Bits2 & 0x0f
}

// WriteConfig returns bits 15:12.
func (c SlotConfig) WriteConfig() uint8 {
	return c.Bits2 >> 4
}

// Bytes returns the entry in configuration zone byte order.
func (c SlotConfig) Bytes() [2]byte {
	return [2]byte{c.Bits1, c.Bits2}
}

// KeyConfig is a 2-byte KeyConfig entry controlling key usage.
type KeyConfig struct {
	Bits1 uint8 // bits 7:0
	Bits2 uint8 // bits 15:8
}

// Private returns bit 0. When set, the slot holds an ECC private key.
func (c KeyConfig) Private() bool {
	return c.Bits1&0x01 != 0
}

// PubInfo returns bit 1. For private keys it allows generating the public key.
func (c KeyConfig) PubInfo() bool {
	return c.Bits1&0x02 != 0
}

// KeyType returns bits 4:2. Value 4 is P-256.
func (c KeyConfig) KeyType() uint8 {
	return (c.Bits1 >> 2) & 0x07
}

// Lockable returns bit 5. When set, the slot can be individually locked.
func (c KeyConfig) Lockable() bool {
	return c.Bits1&0x20 != 0
}

// ReqRandom returns bit 6.
func (c KeyConfig) ReqRandom() bool {
	return c.Bits1&0x40 != 0
}

// ReqAuth returns bit 7.
func (c KeyConfig) ReqAuth() bool {
	return c.Bits1&0x80 != 0
}

// AuthKey returns bits 11:8.
func (c KeyConfig) AuthKey() uint8 {
	return c.Bits2 & 0x0f
}

// IntrusionDisable returns bit 12.
func (c KeyConfig) IntrusionDisable() bool {
	return c.Bits2&0x10 != 0
}

// X509ID returns bits 15:14.
func (c KeyConfig) X509ID() uint8 {
	return c.Bits2 >> 6
}

// Bytes returns the entry in configuration zone byte order.
func (c KeyConfig) Bytes() [2]byte {
	return [2]byte{c.Bits1, c.Bits2}
}
