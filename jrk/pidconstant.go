// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import (
	"math"
	"strconv"
)

// PIDConstant is a PID coefficient in the device's fixed-point form: an
// integer multiplier from 0 to 1023 divided by a power of two from 2^0 to
// 2^18.
type PIDConstant struct {
	Multiplier uint16
	Exponent   uint8
}

// MaxPIDMultiplier and MaxPIDExponent bound the device's fixed-point PID
// coefficient representation.
const (
	MaxPIDMultiplier = 1023
	MaxPIDExponent   = 18
)

// Value returns the coefficient as a decimal number.
func (c PIDConstant) Value() float64 {
	return float64(c.Multiplier) / float64(uint32(1)<<c.Exponent)
}

// String renders the coefficient with 5 decimal places, or 7 if the value
// is positive but would not show in 5.
func (c PIDConstant) String() string {
	v := c.Value()
	precision := 5
	if v > 0 && v < 0.0001 {
		precision = 7
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// PIDConstantFromValue converts a decimal coefficient to the fixed-point
// form, rounding to the representable value with the largest usable
// power-of-two divisor. Values outside the representable range are
// clamped.
func PIDConstantFromValue(value float64) PIDConstant {
	if value < 0 {
		value = 0
	}

	// Find the largest power-of-two divisor that keeps the rounded
	// multiplier in range.
	divisor := 1.0
	exponent := uint8(0)
	for exponent < MaxPIDExponent {
		if math.RoundToEven(divisor*2*value) > MaxPIDMultiplier {
			break
		}
		divisor *= 2
		exponent++
	}
	m := math.RoundToEven(divisor * value)
	if m > MaxPIDMultiplier {
		m = MaxPIDMultiplier
	}
	multiplier := uint16(m)

	// Reduce to the canonical form.
	for multiplier%2 == 0 && exponent > 0 {
		multiplier /= 2
		exponent--
	}

	return PIDConstant{Multiplier: multiplier, Exponent: exponent}
}

// Proportional returns the proportional coefficient of the PID loop.
func (s *Settings) Proportional() PIDConstant {
	return PIDConstant{s.ProportionalMultiplier, s.ProportionalExponent}
}

// SetProportional stores the proportional coefficient of the PID loop.
func (s *Settings) SetProportional(c PIDConstant) {
	s.ProportionalMultiplier = c.Multiplier
	s.ProportionalExponent = c.Exponent
}

// Integral returns the integral coefficient of the PID loop.
func (s *Settings) Integral() PIDConstant {
	return PIDConstant{s.IntegralMultiplier, s.IntegralExponent}
}

// SetIntegral stores the integral coefficient of the PID loop.
func (s *Settings) SetIntegral(c PIDConstant) {
	s.IntegralMultiplier = c.Multiplier
	s.IntegralExponent = c.Exponent
}

// Derivative returns the derivative coefficient of the PID loop.
func (s *Settings) Derivative() PIDConstant {
	return PIDConstant{s.DerivativeMultiplier, s.DerivativeExponent}
}

// SetDerivative stores the derivative coefficient of the PID loop.
func (s *Settings) SetDerivative(c PIDConstant) {
	s.DerivativeMultiplier = c.Multiplier
	s.DerivativeExponent = c.Exponent
}
