package atecc508a

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseKitDevice(t *testing.T) {
	buf := []byte("ECC508A TWI 00(C0)")

	dev, err := parseKitDevice(buf)
	if err != nil {
		t.Fatal(err)
	}
	if dev.ID != "ECC508A" {
		t.Errorf("%v != ECC508A", dev.ID)
	}
	if dev.Iface != "TWI" {
		t.Errorf("%v != TWI", dev.Iface)
	}
	if dev.Address != 0xc0 {
		t.Errorf("x%0x != x%0x", dev.Address, 0xc0)
	}
}

func TestParseKitDeviceEmpty(t *testing.T) {
	_, err := parseKitDevice([]byte("no_device"))
	if !errors.Is(err, errNoDevice) {
		t.Errorf("got %v, want errNoDevice", err)
	}
}

func TestKitParseRsp(t *testing.T) {
	var dst [4]byte
	n, err := kitParseRsp([]byte("00(04113343)"), dst[:])
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("decoded %d bytes", n)
	}
	if want := []byte{0x04, 0x11, 0x33, 0x43}; !bytes.Equal(dst[:], want) {
		t.Errorf("got % x, want % x", dst, want)
	}
}

func TestKitParseRspStatus(t *testing.T) {
	var dst [4]byte
	if _, err := kitParseRsp([]byte("F1()"), dst[:]); err == nil {
		t.Error("expected error for non-zero status")
	}
}

func TestKitParseRspTruncated(t *testing.T) {
	var dst [4]byte
	if _, err := kitParseRsp([]byte("00(0411"), dst[:]); err == nil {
		t.Error("expected error for missing frame end")
	}
}
