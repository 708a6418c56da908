package atecc508a

// crc16 calculates the CRC used by the device.
//
// The device uses a bit-serial CRC-16 with the 0x8005 polynomial, fed least
// significant bit first with a zero initial value. Refer to the Atmel
// CryptoAuthentication Data Zone CRC Calculation document for details.
// https://ww1.microchip.com/downloads/en/Appnotes/Atmel-8936-CryptoAuth-Data-Zone-CRC-Calculation-ApplicationNote.pdf
func crc16(data []byte) uint16 {
	var polynom uint16 = 0x8005
	var crc uint16

	for _, b := range data {
		for mask := byte(0x01); mask > 0; mask <<= 1 {
			var dataBit byte
			if b&mask != 0 {
				dataBit = 1
			}
			crcBit := byte(crc >> 15)
			crc = crc << 1
			if dataBit != crcBit {
				crc = crc ^ polynom
			}
		}
	}

	return crc
}
