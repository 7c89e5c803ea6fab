// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import (
	"strings"
	"testing"
)

func defaultSettings(p Product) *Settings {
	s := NewSettings()
	s.Product = p
	s.FillWithDefaults()
	return s
}

func TestFixDefaultsAreClean(t *testing.T) {
	for _, p := range []Product{ProductUMC04A30, ProductUMC04A40,
		ProductUMC05A30, ProductUMC05A40, ProductUMC06A} {
		s := defaultSettings(p)
		if warnings := s.Fix(); len(warnings) != 0 {
			t.Errorf("product %d: defaults produced warnings: %q", p, warnings)
		}
	}
}

func TestFixIdempotent(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	s.InputErrorMinimum = 3000
	s.InputMinimum = 100
	s.OutputNeutral = 5000
	s.SerialBaudRate = 1
	s.SerialTimeout = 123
	s.SerialDeviceNumber = 0x1234
	s.ProportionalMultiplier = 2000
	s.PIDPeriod = 0
	s.EncodedHardCurrentLimitForward = 64 // reference bits 2, DAC 0
	s.BrakeDurationForward = 5000
	s.ErrorLatch = 0xFFFF
	s.FBTSamples = 0

	first := s.Fix()
	if len(first) == 0 {
		t.Fatal("expected warnings on the first pass")
	}
	second := s.Fix()
	if len(second) != 0 {
		t.Fatalf("second pass was not clean: %q", second)
	}
}

func TestFixInputScalingChain(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	s.InputErrorMinimum = 3000
	s.InputMinimum = 100
	s.InputNeutralMinimum = 200
	s.InputNeutralMaximum = 300
	s.InputMaximum = 400
	s.InputErrorMaximum = 500

	warnings := s.Fix()

	// Every later field is raised to the error minimum.
	for name, got := range map[string]uint16{
		"input minimum":         s.InputMinimum,
		"input neutral minimum": s.InputNeutralMinimum,
		"input neutral maximum": s.InputNeutralMaximum,
		"input maximum":         s.InputMaximum,
		"input error maximum":   s.InputErrorMaximum,
	} {
		if got != 3000 {
			t.Errorf("%s: wanted 3000, got %d", name, got)
		}
	}
	if len(warnings) != 5 {
		t.Errorf("wanted 5 warnings, got %d: %q", len(warnings), warnings)
	}
}

func TestFixOutputRange(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	s.OutputMinimum = 9999
	s.OutputNeutral = 0
	s.OutputMaximum = 0

	s.Fix()

	if s.OutputMinimum != 4095 {
		t.Errorf("output minimum: wanted 4095, got %d", s.OutputMinimum)
	}
	if s.OutputNeutral != 4095 {
		t.Errorf("output neutral: wanted 4095, got %d", s.OutputNeutral)
	}
	if s.OutputMaximum != 4095 {
		t.Errorf("output maximum: wanted 4095, got %d", s.OutputMaximum)
	}
}

func TestFixBaudRate(t *testing.T) {
	for _, test := range []struct {
		name string
		baud uint32
		want uint32
	}{
		{"too low", 300, MinBaudRate},
		{"too high", 1000000, MaxBaudRate},
		{"snapped to achievable", 9601, 9600},
		{"minimum is stable", MinBaudRate, MinBaudRate},
		{"maximum is stable", MaxBaudRate, MaxBaudRate},
	} {
		t.Run(test.name, func(t *testing.T) {
			s := defaultSettings(ProductUMC04A30)
			s.SerialBaudRate = test.baud
			s.Fix()
			if s.SerialBaudRate != test.want {
				t.Fatalf("wanted %d, got %d", test.want, s.SerialBaudRate)
			}
		})
	}
}

func TestFixSerialTimeoutRounding(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	s.SerialTimeout = 123
	warnings := s.Fix()
	if s.SerialTimeout != 120 {
		t.Fatalf("wanted 120, got %d", s.SerialTimeout)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "serial timeout") {
		t.Fatalf("wanted one serial timeout warning, got %q", warnings)
	}

	s.SerialTimeout = MaxSerialTimeout + 1
	s.Fix()
	if s.SerialTimeout != MaxSerialTimeout {
		t.Fatalf("wanted %d, got %d", uint32(MaxSerialTimeout), s.SerialTimeout)
	}
}

func TestFixDeviceNumber(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	s.SerialDeviceNumber = 0x1234
	s.Fix()
	if s.SerialDeviceNumber != 0x34 {
		t.Fatalf("wanted 0x34, got %#x", s.SerialDeviceNumber)
	}

	s.SerialEnable14BitDeviceNumber = true
	s.SerialDeviceNumber = 0x5234
	s.Fix()
	if s.SerialDeviceNumber != 0x1234 {
		t.Fatalf("wanted 0x1234, got %#x", s.SerialDeviceNumber)
	}
}

func TestFixHardCurrentLimitCodes(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	// DAC 0 with quarter reference decodes to 0 mA, not a recommended code.
	s.EncodedHardCurrentLimitForward = 64
	warnings := s.Fix()
	if s.EncodedHardCurrentLimitForward != 0 {
		t.Fatalf("wanted code 0, got %d", s.EncodedHardCurrentLimitForward)
	}
	if len(warnings) != 1 {
		t.Fatalf("wanted 1 warning, got %q", warnings)
	}

	// Recommended codes are left alone.
	for _, code := range RecommendedEncodedHardCurrentLimits(ProductUMC04A30) {
		s.EncodedHardCurrentLimitForward = code
		if w := s.Fix(); len(w) != 0 {
			t.Fatalf("code %d: unexpected warnings %q", code, w)
		}
		if s.EncodedHardCurrentLimitForward != code {
			t.Fatalf("code %d was changed to %d", code, s.EncodedHardCurrentLimitForward)
		}
	}
}

func TestFixBrakeDuration(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	s.BrakeDurationForward = 5000
	s.BrakeDurationReverse = 7
	s.Fix()
	if s.BrakeDurationForward != MaxBrakeDuration {
		t.Fatalf("forward: wanted %d, got %d", uint32(MaxBrakeDuration), s.BrakeDurationForward)
	}
	if s.BrakeDurationReverse != 5 {
		t.Fatalf("reverse: wanted 5, got %d", s.BrakeDurationReverse)
	}
}

func TestFixMotorLimits(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	s.MaxAccelerationForward = 0
	s.MaxDecelerationReverse = 20000
	s.MaxDutyCycleForward = 4000
	s.Fix()
	if s.MaxAccelerationForward != 1 {
		t.Errorf("max acceleration forward: wanted 1, got %d", s.MaxAccelerationForward)
	}
	if s.MaxDecelerationReverse != MaxAllowedDutyCycle {
		t.Errorf("max deceleration reverse: wanted %d, got %d",
			uint16(MaxAllowedDutyCycle), s.MaxDecelerationReverse)
	}
	if s.MaxDutyCycleForward != MaxAllowedDutyCycle {
		t.Errorf("max duty cycle forward: wanted %d, got %d",
			uint16(MaxAllowedDutyCycle), s.MaxDutyCycleForward)
	}
}

func TestFixErrorFlags(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	s.ErrorEnable = 0xFFFF
	s.ErrorLatch = 0x4001
	s.ErrorHard = 0x2000
	s.Fix()
	if s.ErrorEnable != errorFlagsAll {
		t.Errorf("error enable: wanted %#04x, got %#04x", uint16(errorFlagsAll), s.ErrorEnable)
	}
	if s.ErrorLatch != 0x0001 {
		t.Errorf("error latch: wanted 0x0001, got %#04x", s.ErrorLatch)
	}
	if s.ErrorHard != 0x2000 {
		t.Errorf("error hard: wanted 0x2000, got %#04x", s.ErrorHard)
	}
}

func TestFixCalibrations(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	s.CurrentOffsetCalibration = -2000
	s.CurrentScaleCalibration = 5000
	s.VinCalibration = -501
	s.Fix()
	if s.CurrentOffsetCalibration != -800 {
		t.Errorf("current offset calibration: wanted -800, got %d", s.CurrentOffsetCalibration)
	}
	if s.CurrentScaleCalibration != 1875 {
		t.Errorf("current scale calibration: wanted 1875, got %d", s.CurrentScaleCalibration)
	}
	if s.VinCalibration != -500 {
		t.Errorf("VIN calibration: wanted -500, got %d", s.VinCalibration)
	}
}

func TestFixWarningsAreSentences(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	s.InputMode = InputMode(7)
	s.PIDPeriod = 60000
	s.FBTTimingTimeout = 0
	for _, w := range s.Fix() {
		if !strings.HasPrefix(w, "The ") || !strings.HasSuffix(w, ".") {
			t.Errorf("warning is not a sentence: %q", w)
		}
	}
}
