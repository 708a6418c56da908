package atecc508a

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// DefaultI2CAddr is the factory default 7-bit address of the device.
const DefaultI2CAddr = 0x60

// I2CTransport drives the device over an I²C bus.
//
// The bus API is blocking, so every transfer completes synchronously: the
// completion is delivered on the caller's goroutine before Write or Read
// returns. A bus error is reported as ErrDataNak, since a busy device and a
// genuine bus fault are indistinguishable at this level; a genuine fault
// simply exhausts the retry ceiling.
type I2CTransport struct {
	dev    i2c.Dev
	client TransportClient
}

var _ Transport = (*I2CTransport)(nil)

// NewI2CTransport returns a transport for the device at addr on bus.
func NewI2CTransport(bus i2c.Bus, addr uint16) *I2CTransport {
	return &I2CTransport{dev: i2c.Dev{Bus: bus, Addr: addr}}
}

func (t *I2CTransport) SetClient(c TransportClient) {
	t.client = c
}

func (t *I2CTransport) Write(p []byte) error {
	err := t.dev.Tx(p, nil)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrDataNak, err)
	}
	t.client.TransferComplete(p, err)
	return nil
}

func (t *I2CTransport) Read(p []byte) error {
	err := t.dev.Tx(nil, p)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrDataNak, err)
	}
	t.client.TransferComplete(p, err)
	return nil
}

// I2CWake returns a wake function for the device on bus.
//
// Waking is an unanswered write to address zero: at standard bus speed the
// zero byte holds SDA low past the 60µs wake threshold. The following delay
// gives the device time to boot before the first command.
func I2CWake(bus i2c.Bus) func() {
	dev := i2c.Dev{Bus: bus, Addr: 0x00}
	return func() {
		_, _ = dev.Write([]byte{0x00})
		time.Sleep(1500 * time.Microsecond)
	}
}
