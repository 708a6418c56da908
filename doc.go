// Package atecc508a is a split-phase driver for the MicrochipTech ATECC508A
// CryptoAuthentication device.
//
// The driver never blocks. Every command is issued as a non-blocking transfer
// on a Transport, and the result arrives later through a single completion
// entry point that advances an internal state machine. A busy device answers
// transfers with a NAK; the driver re-issues the request up to an
// operation-specific ceiling instead of waiting on the clock.
//
// The device requires at least 60us of the SDA pin being pulled low to power
// on, so a wake hook must run before the first command of a session. See
// I2CWake for the conventional I²C wake sequence.
//
// The ATECC508A ships unlocked. An unlocked device is practically useless:
// even the random number generator only returns 0xFF, 0xFF, 0x00, 0x00 until
// the configuration is locked. Locking is permanent: once a zone is locked
// it can never be unlocked, so be very careful with Setup, LockConfigZone,
// LockDataAndOTP and LockSlot0.
//
// # Datasheets
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/20005928A.pdf
package atecc508a
