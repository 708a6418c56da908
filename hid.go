package atecc508a

import (
	"errors"
	"fmt"
	"io"

	"github.com/karalabe/usb"
)

// ErrUSBNotSupported is returned when the USB support is missing.
//
// When building, CGO is required for USB support. If CGO is not enabled, the
// HID interface will not be available.
var ErrUSBNotSupported = errors.New("atecc508a: usb support is missing")

// Microchip CryptoAuth kit bridge on USB HID.
const (
	hidVendorID   = 0x03eb
	hidProductID  = 0x2312
	hidPacketSize = 64
)

// NewHIDTransport opens the first CryptoAuth kit bridge on USB HID and
// returns an initialized kit transport for the device behind it. The
// returned closer releases the HID handle.
func NewHIDTransport(log Logger) (*KitTransport, io.Closer, error) {
	if !usb.Supported() {
		return nil, nil, ErrUSBNotSupported
	}

	deviceInfos, err := usb.EnumerateHid(hidVendorID, hidProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("atecc508a: failed to get hid devices: %w", err)
	}
	for _, di := range deviceInfos {
		hid, e := di.Open()
		if e != nil {
			err = e
			continue
		}

		kt := NewKitTransport(hid, hidPacketSize, log)
		if err := kt.Init(); err != nil {
			hid.Close()
			return nil, nil, err
		}
		return kt, hid, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("atecc508a: %w", err)
	}
	return nil, nil, errors.New("atecc508a: no hid devices found")
}
