package main

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/celltrace/go-atecc508a"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func newDevice(c *rootConfig) (*atecc508a.Dev, io.Closer, error) {
	switch c.iface {
	case "i2c":
		return newDeviceI2C(c)
	case "hid":
		return newDeviceHID(c)
	default:
		return nil, nil, errors.New("atecc508a: unknown interface")
	}
}

func newDeviceI2C(c *rootConfig) (*atecc508a.Dev, io.Closer, error) {
	addr, err := getI2CAddress(c.addr)
	if err != nil {
		return nil, nil, err
	}

	if _, err = host.Init(); err != nil {
		return nil, nil, err
	}
	bus, err := i2creg.Open(strconv.Itoa(c.bus))
	if err != nil {
		return nil, nil, fmt.Errorf("atecc508a: failed to connect to bus: %w", err)
	}

	cfg := atecc508a.Config{Debug: newLogger(c.verbose)}
	t := atecc508a.NewI2CTransport(bus, addr)
	d := atecc508a.New(t, atecc508a.I2CWake(bus), cfg)
	return d, bus, nil
}

func newDeviceHID(c *rootConfig) (*atecc508a.Dev, io.Closer, error) {
	logger := newLogger(c.verbose)
	kt, closer, err := atecc508a.NewHIDTransport(logger)
	if err != nil {
		return nil, nil, err
	}

	cfg := atecc508a.Config{Debug: logger}
	wake := func() { _ = kt.Wake() }
	d := atecc508a.New(kt, wake, cfg)
	return d, closer, nil
}

func getI2CAddress(addrStr string) (uint16, error) {
	if addrStr == "" {
		return atecc508a.DefaultI2CAddr, nil
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(addrStr, "0x"), 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(addr), nil
}

func prettyHex(data []byte) string {
	var buf strings.Builder

	cols := 16
	for i := range data {
		if i > 0 {
			switch i % cols {
			case 0:
				buf.WriteByte('\n')
			case cols / 2:
				buf.WriteString("  ")
			default:
				buf.WriteByte(' ')
			}
		}
		if i%cols == 0 {
			buf.WriteString("    ")
		}

		fmt.Fprintf(&buf, "%02X", data[i])
	}

	return buf.String()
}

func pemEncodePublicKey(pk crypto.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pk)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: der,
	})), nil
}

func newLogger(verbose bool) atecc508a.Logger {
	if verbose {
		return log.New(os.Stderr, "", 0)
	} else {
		return nil
	}
}
