package atecc508a

import "encoding/binary"

// Command frame layout.
//
// A frame on the wire is the word-address marker followed by the packet the
// device consumes: length byte, opcode, param1, param2 (little endian) and an
// optional payload, closed by a CRC-16 in little endian. The length byte
// counts everything except the word-address marker, and the CRC covers the
// length byte through the end of the payload.
const (
	// wordAddressCommand selects the device command buffer.
	wordAddressCommand = 0x03

	fieldCommand = 0
	fieldLength  = 1
	fieldOpcode  = 2
	fieldParam1  = 3
	fieldParam2  = 4
	fieldData    = 6

	crcSize = 2

	// cmdOverhead is the fixed per-frame overhead: word address, length,
	// opcode, param1, param2 and CRC.
	cmdOverhead = 1 + 1 + 1 + 1 + 2 + crcSize
)

// Response layout. A response starts with a count byte and ends with the same
// CRC-16 as commands do.
const (
	respCountSize  = 1
	respSignalSize = 1
	respRandomSize = 32

	// respSignalIndex is the index of the status signal in a 4-byte response.
	respSignalIndex = respCountSize
)

const publicKeySize = 64

// workingBufferSize must hold the largest frame in either direction. The
// GenKey response of count+key+crc is the largest the driver ever moves.
const workingBufferSize = 128

// buildCommand assembles a command frame into buf and returns the framed
// prefix. A payload of payloadLen bytes must already be staged at fieldData.
func buildCommand(buf []byte, opcode uint8, param1 uint8, param2 uint16, payloadLen int) []byte {
	n := payloadLen + cmdOverhead

	buf[fieldCommand] = wordAddressCommand
	buf[fieldLength] = uint8(n - 1)
	buf[fieldOpcode] = opcode
	buf[fieldParam1] = param1
	binary.LittleEndian.PutUint16(buf[fieldParam2:], param2)

	crc := crc16(buf[fieldLength : n-crcSize])
	binary.LittleEndian.PutUint16(buf[n-crcSize:], crc)

	return buf[:n]
}
