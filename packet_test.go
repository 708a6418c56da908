package atecc508a

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"testing"
)

func TestBuildCommand(t *testing.T) {
	// Revision info request, known frame from the data sheet.
	buf := make([]byte, workingBufferSize)
	got := buildCommand(buf, 0x30, 0x00, 0x0000, 0)
	want := []byte{0x03, 0x07, 0x30, 0x00, 0x00, 0x00, 0x03, 0x5d}
	if !bytes.Equal(got, want) {
		t.Error(hex.Dump(got))
		t.Error(hex.Dump(want))
	}
}

func TestBuildCommandLayout(t *testing.T) {
	buf := make([]byte, workingBufferSize)
	payload := []byte{0x83, 0x20, 0x83, 0x20}
	copy(buf[fieldData:], payload)
	frame := buildCommand(buf, atcaWrite, 0x00, 0x0005, len(payload))

	if len(frame) != len(payload)+cmdOverhead {
		t.Fatalf("frame size %d", len(frame))
	}
	if frame[fieldCommand] != wordAddressCommand {
		t.Errorf("word address %#x", frame[fieldCommand])
	}

	// The length byte counts everything but the word address marker.
	if int(frame[fieldLength]) != len(frame)-1 {
		t.Errorf("length byte %d for %d byte frame", frame[fieldLength], len(frame))
	}

	if got := binary.LittleEndian.Uint16(frame[fieldParam2:]); got != 0x0005 {
		t.Errorf("param2 %#x", got)
	}
	if !bytes.Equal(frame[fieldData:fieldData+len(payload)], payload) {
		t.Errorf("payload % x", frame[fieldData:fieldData+len(payload)])
	}

	// The CRC spans the length byte through the end of the payload.
	want := crc16(frame[fieldLength : len(frame)-crcSize])
	if got := binary.LittleEndian.Uint16(frame[len(frame)-crcSize:]); got != want {
		t.Errorf("crc %#x want %#x", got, want)
	}
}
