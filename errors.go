package atecc508a

import "errors"

// Transport errors. A NAK means the addressed device did not accept the
// transaction, typically because it is still processing a prior command; the
// driver retries these up to an operation-specific ceiling.
var (
	// ErrAddressNak is a negative acknowledgment of the address phase.
	ErrAddressNak = errors.New("atecc508a: address not acknowledged")

	// ErrDataNak is a negative acknowledgment of the data phase.
	ErrDataNak = errors.New("atecc508a: data not acknowledged")
)

var (
	// ErrSize is returned when a read or write length is not a supported
	// zone access size. The transport is never touched.
	ErrSize = errors.New("atecc508a: invalid transfer size")

	// ErrNoAck is delivered to entropy clients when the device never
	// acknowledged within the retry ceiling.
	ErrNoAck = errors.New("atecc508a: device did not acknowledge")

	// ErrKeyNotReady is returned while no public key has been generated.
	ErrKeyNotReady = errors.New("atecc508a: public key not available")

	// ErrConfigNotRead is returned before the configuration zone chain has
	// completed.
	ErrConfigNotRead = errors.New("atecc508a: configuration zone not read")
)

// errBufferLoaned is returned when a command is requested while the working
// buffer is on loan to the transport. Absence of the buffer means busy; the
// driver never blocks on it and never duplicates it.
var errBufferLoaned = errors.New("atecc508a: working buffer in flight")

// isNak reports whether the transfer failed with a bus-level negative
// acknowledgment. CRC mismatches inside the device are indistinguishable
// from this: the chip silently drops the command and keeps answering NAK.
func isNak(err error) bool {
	return errors.Is(err, ErrAddressNak) || errors.Is(err, ErrDataNak)
}
