// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrkserial

// CRC7 calculates the 7-bit CRC of the byte slice parameter and returns the
// calculated value. Pololu serial devices use it to detect corrupted
// command bytes; the polynomial is x^7 + x^3 + 1, processed LSB first, so
// the XOR constant is the bit-reversed 0x91.
func CRC7(bytes []byte) byte {
	var crc byte
	for _, val := range bytes {
		crc ^= val
		for i := 0; i < 8; i++ {
			if crc&1 != 0 {
				crc ^= 0x91
			}
			crc >>= 1
		}
	}
	return crc
}
