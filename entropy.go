package atecc508a

import "encoding/binary"

// entropyPoolSize is the size of one Random response payload.
const entropyPoolSize = 32

// Continue is the client's verdict after an entropy delivery.
type Continue uint8

const (
	// ContinueDone means the client has enough entropy.
	ContinueDone Continue = iota
	// ContinueMore asks the driver to fetch another pool and deliver again.
	ContinueMore
)

// EntropyClient receives entropy deliveries.
//
// On success words iterates over the fresh pool and err is nil; the iterator
// is only valid for the duration of the call. On failure words is nil and err
// describes why the device gave up. The return value controls whether another
// pool is fetched. A client that wants more entropy must either return
// ContinueMore or call Get after the delivery returns, never both: the
// driver runs one exchange at a time, and combining them double-starts it.
type EntropyClient interface {
	EntropyAvailable(words *EntropyWords, err error) Continue
}

// EntropyWords iterates over the 32-bit words of the entropy pool.
//
// Words are read big endian at the device's persistent pool offset, which
// survives refills, so repeated Get calls never replay a word.
type EntropyWords struct {
	d         *Dev
	remaining int
}

// Next returns the next word of the pool. It reports false once the pool is
// exhausted or after a failed delivery.
func (w *EntropyWords) Next() (uint32, bool) {
	if w == nil || w.remaining == 0 {
		return 0, false
	}
	w.remaining--

	d := w.d
	v := binary.BigEndian.Uint32(d.entropyPool[d.entropyOffset:])
	if d.entropyOffset >= entropyPoolSize-atcaWordSize {
		d.entropyOffset = 0
	} else {
		d.entropyOffset += atcaWordSize
	}
	return v, true
}

// EntropySource is the random number generator view of the device.
//
// The device only produces real randomness once fully locked; an unlocked
// device answers every Random command with a fixed test pattern.
type EntropySource struct {
	d *Dev
}

// Entropy returns the entropy source of the device.
func (d *Dev) Entropy() EntropySource {
	return EntropySource{d}
}

// SetClient registers the receiver of entropy deliveries.
func (s EntropySource) SetClient(c EntropyClient) {
	s.d.entropyClient = c
}

// Get starts fetching a 32-byte entropy pool from the device. The result is
// delivered to the registered client.
func (s EntropySource) Get() error {
	d := s.d
	d.begin(operation{kind: opGenerateEntropyCmd})
	d.wakeup()

	if err := d.sendCommand(atcaRandom, 0x00, 0x0000, 0); err != nil {
		d.reset()
		return err
	}
	return nil
}

// Cancel is accepted but has no effect: a command the device has started
// cannot be withdrawn, and the delivery is cheap enough to let finish.
func (s EntropySource) Cancel() error {
	return nil
}

// entropyReady delivers a fresh pool and honors a ContinueMore verdict by
// starting the next exchange.
func (d *Dev) entropyReady() {
	if d.entropyClient == nil {
		return
	}

	words := &EntropyWords{d: d, remaining: entropyPoolSize / atcaWordSize}
	verdict := d.entropyClient.EntropyAvailable(words, nil)
	words.remaining = 0
	if verdict != ContinueMore {
		return
	}

	d.begin(operation{kind: opGenerateEntropyCmd})
	d.wakeup()
	if err := d.sendCommand(atcaRandom, 0x00, 0x0000, 0); err != nil {
		d.reset()
		d.entropyFailed(err)
	}
}

// entropyFailed reports a failed fetch to the client. Unlike the silent
// configuration helpers, entropy consumers are waiting on a delivery and must
// hear about the failure.
func (d *Dev) entropyFailed(err error) {
	if d.entropyClient == nil {
		return
	}
	d.entropyClient.EntropyAvailable(nil, err)
}
