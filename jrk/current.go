// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import (
	"periph.io/x/conn/v3/physic"
)

// The encoded hard current limit is a register-level code: bits 0 to 4 set
// the DAC level and bits 5 to 6 select the comparison reference (0 = full
// scale, 1 = half, 2 = quarter). The current sense circuit has a 50 mV
// offset, so thresholds below that give a limit of 0.
const (
	hardCurrentLimitDACMask    = 0x1F
	hardCurrentLimitRefShift   = 5
	hardCurrentLimitRefMask    = 0x03
	hardCurrentLimitOffsetMV64 = 3200 // 50 mV in units of mV/64
)

// hardCurrentLimitFactor converts a threshold above the sense offset, in
// units of mV/64, to milliamps: mA = mv64 * factor / 1024.
var hardCurrentLimitFactor = map[Product]uint32{
	ProductUMC04A30: 63,
	ProductUMC04A40: 43,
	ProductUMC05A30: 90,
	ProductUMC05A40: 70,
}

// currentScaleShift is the per-product divisor exponent in the measured
// current formula.
var currentScaleShift = map[Product]uint{
	ProductUMC04A30: 12,
	ProductUMC05A30: 12,
	ProductUMC04A40: 11,
	ProductUMC05A40: 11,
}

// HardCurrentLimitDecode converts an encoded hard current limit code to a
// physical current. Unrecognized codes, and any code on a product without
// encoded limits, decode to 0.
func HardCurrentLimitDecode(product Product, code uint16) physic.ElectricCurrent {
	factor, ok := hardCurrentLimitFactor[product]
	if !ok {
		return 0
	}

	dac := uint32(code) & hardCurrentLimitDACMask
	ref := (code >> hardCurrentLimitRefShift) & hardCurrentLimitRefMask
	if ref > 2 || code > 0x7F {
		return 0
	}

	mv64 := (10000 * dac) >> ref
	if mv64 <= hardCurrentLimitOffsetMV64 {
		return 0
	}

	milliamps := (mv64 - hardCurrentLimitOffsetMV64) * factor / 1024
	return physic.ElectricCurrent(milliamps) * physic.MilliAmpere
}

// HardCurrentLimitEncode converts a desired current limit to an encoded
// hard current limit code, choosing the largest recommended code whose
// limit does not exceed the request. Products without encoded limits
// return 0.
func HardCurrentLimitEncode(product Product, limit physic.ElectricCurrent) uint16 {
	codes := RecommendedEncodedHardCurrentLimits(product)
	if len(codes) == 0 {
		return 0
	}

	code := codes[0]
	for _, c := range codes {
		if HardCurrentLimitDecode(product, c) <= limit {
			code = c
		} else {
			break
		}
	}
	return code
}

// RecommendedEncodedHardCurrentLimits returns the encoded hard current
// limit codes usable on the given product, in ascending order of the
// current they allow. Codes outside this list work in hardware but give a
// worse resolution or duplicate a listed code. Products without encoded
// limits return nil.
func RecommendedEncodedHardCurrentLimits(product Product) []uint16 {
	if _, ok := hardCurrentLimitFactor[product]; !ok {
		return nil
	}

	codes := make([]uint16, 0, 63)
	codes = append(codes, 0)
	// Quarter-scale reference, DAC levels 2 to 31. Level 1 stays under the
	// sense offset, so it duplicates code 0.
	for dac := uint16(2); dac <= 31; dac++ {
		codes = append(codes, 2<<hardCurrentLimitRefShift|dac)
	}
	// Half-scale reference, DAC levels 16 to 31.
	for dac := uint16(16); dac <= 31; dac++ {
		codes = append(codes, 1<<hardCurrentLimitRefShift|dac)
	}
	// Full-scale reference, DAC levels 16 to 31.
	for dac := uint16(16); dac <= 31; dac++ {
		codes = append(codes, dac)
	}
	return codes
}

// CalculateRawCurrentMV64 converts the raw current sense reading from the
// variables to a voltage on the current sense line, in units of mV/64.
func CalculateRawCurrentMV64(v *Variables) uint32 {
	return uint32(v.RawCurrent()) * 16
}

// CalculateMeasuredCurrent computes the motor current from the raw current
// sense reading and the calibration settings.
//
// Readings taken while current chopping is active can be misleadingly
// large; check CurrentChoppingConsecutiveCount if that matters. This
// function does not detect that condition.
func CalculateMeasuredCurrent(s *Settings, v *Variables) physic.ElectricCurrent {
	if s == nil {
		return 0
	}

	if s.Product == ProductUMC06A {
		// The umc06a's firmware measures current directly in milliamps.
		return physic.ElectricCurrent(v.Current()) * physic.MilliAmpere
	}

	shift, ok := currentScaleShift[s.Product]
	if !ok {
		return 0
	}

	rawMV64 := CalculateRawCurrentMV64(v)
	offsetMV64 := uint32(int32(800)+int32(s.CurrentOffsetCalibration)) * 4
	if rawMV64 < offsetMV64 {
		return 0
	}

	scale := uint32(int32(1875) + int32(s.CurrentScaleCalibration))
	milliamps := (rawMV64 - offsetMV64) * scale >> shift
	return physic.ElectricCurrent(milliamps) * physic.MilliAmpere
}
