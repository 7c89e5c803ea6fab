// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import (
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestHardCurrentLimitDecode(t *testing.T) {
	for _, test := range []struct {
		name    string
		product Product
		code    uint16
		want    physic.ElectricCurrent
	}{
		// (10000*31 - 3200) * 63 / 1024 = 18875 mA.
		{"18v19 full scale max", ProductUMC04A30, 31, 18875 * physic.MilliAmpere},
		// (10000*31 - 3200) * 43 / 1024 = 12883 mA.
		{"24v13 full scale max", ProductUMC04A40, 31, 12883 * physic.MilliAmpere},
		// (10000*31 - 3200) * 90 / 1024 = 26964 mA.
		{"18v27 full scale max", ProductUMC05A30, 31, 26964 * physic.MilliAmpere},
		// (10000*31 - 3200) * 70 / 1024 = 20972 mA.
		{"24v21 full scale max", ProductUMC05A40, 31, 20972 * physic.MilliAmpere},
		// Half reference: (10000*16/2 - 3200) * 63 / 1024 = 4725 mA.
		{"half reference", ProductUMC04A30, 1<<5 | 16, 4725 * physic.MilliAmpere},
		// Quarter reference: (10000*2/4 - 3200) * 63 / 1024 = 110 mA.
		{"quarter reference", ProductUMC04A30, 2<<5 | 2, 110 * physic.MilliAmpere},
		{"zero code", ProductUMC04A30, 0, 0},
		{"under sense offset", ProductUMC04A30, 2<<5 | 1, 0},
		{"invalid reference", ProductUMC04A30, 3 << 5, 0},
		{"out of range code", ProductUMC04A30, 0x80, 0},
		{"no encoded limits", ProductUMC06A, 31, 0},
		{"unknown product", ProductUnknown, 31, 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			if got := HardCurrentLimitDecode(test.product, test.code); got != test.want {
				t.Fatalf("wanted: %s, got: %s", test.want, got)
			}
		})
	}
}

func TestRecommendedEncodedHardCurrentLimits(t *testing.T) {
	codes := RecommendedEncodedHardCurrentLimits(ProductUMC04A30)
	if len(codes) != 63 {
		t.Fatalf("wanted 63 codes, got %d", len(codes))
	}
	if codes[0] != 0 {
		t.Fatalf("wanted first code 0, got %d", codes[0])
	}

	// Strictly ascending in decoded current.
	prev := physic.ElectricCurrent(-1)
	for _, code := range codes {
		ma := HardCurrentLimitDecode(ProductUMC04A30, code)
		if ma <= prev && code != 0 {
			t.Fatalf("code %d decodes to %s, not above %s", code, ma, prev)
		}
		prev = ma
	}

	if got := RecommendedEncodedHardCurrentLimits(ProductUMC06A); got != nil {
		t.Fatalf("umc06a: wanted nil, got %v", got)
	}
}

func TestHardCurrentLimitEncode(t *testing.T) {
	codes := RecommendedEncodedHardCurrentLimits(ProductUMC04A30)

	for _, test := range []struct {
		name  string
		limit physic.ElectricCurrent
		want  uint16
	}{
		{"zero", 0, 0},
		{"below lowest nonzero", 50 * physic.MilliAmpere, 0},
		{"exact match", 18875 * physic.MilliAmpere, 31},
		{"above maximum", 100 * physic.Ampere, 31},
		// 5000 mA sits between half-reference DAC 16 (4725 mA) and 17.
		{"rounds down", 5 * physic.Ampere, 1<<5 | 16},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := HardCurrentLimitEncode(ProductUMC04A30, test.limit)
			if got != test.want {
				t.Fatalf("wanted code: %d, got: %d", test.want, got)
			}
			if !isRecommendedCode(codes, got) {
				t.Fatalf("code %d is not recommended", got)
			}
			if decoded := HardCurrentLimitDecode(ProductUMC04A30, got); decoded > test.limit {
				t.Fatalf("decoded %s exceeds the requested %s", decoded, test.limit)
			}
		})
	}
}

func TestHardCurrentLimitEncodeNeverExceeds(t *testing.T) {
	// Sweep requests across the range; the encoded limit must never allow
	// more current than asked for.
	for ma := physic.ElectricCurrent(0); ma < 20*physic.Ampere; ma += 87 * physic.MilliAmpere {
		code := HardCurrentLimitEncode(ProductUMC05A40, ma)
		if decoded := HardCurrentLimitDecode(ProductUMC05A40, code); decoded > ma {
			t.Fatalf("request %s: code %d decodes to %s", ma, code, decoded)
		}
	}
}

func TestCalculateMeasuredCurrent(t *testing.T) {
	vars := func(raw uint16) *Variables {
		buf := make([]byte, VariablesSize)
		buf[VarOffsetRawCurrent] = byte(raw)
		buf[VarOffsetRawCurrent+1] = byte(raw >> 8)
		v, _ := DecodeVariables(buf)
		return v
	}

	s := defaultSettings(ProductUMC04A30)

	// (1000*16 - 3200) * 1875 >> 12 = 5859 mA.
	if got := CalculateMeasuredCurrent(s, vars(1000)); got != 5859*physic.MilliAmpere {
		t.Errorf("wanted 5.859A, got %s", got)
	}

	// Readings at or below the offset measure as zero.
	if got := CalculateMeasuredCurrent(s, vars(100)); got != 0 {
		t.Errorf("wanted 0, got %s", got)
	}

	// Calibration shifts the offset and scale.
	s.CurrentOffsetCalibration = 200
	s.CurrentScaleCalibration = 125
	// (1000*16 - 4000) * 2000 >> 12 = 5859 mA.
	if got := CalculateMeasuredCurrent(s, vars(1000)); got != 5859*physic.MilliAmpere {
		t.Errorf("calibrated: wanted 5.859A, got %s", got)
	}

	// The 24v13 divides by 2048 instead of 4096.
	s = defaultSettings(ProductUMC04A40)
	// (1000*16 - 3200) * 1875 >> 11 = 11718 mA.
	if got := CalculateMeasuredCurrent(s, vars(1000)); got != 11718*physic.MilliAmpere {
		t.Errorf("24v13: wanted 11.718A, got %s", got)
	}

	if got := CalculateMeasuredCurrent(nil, vars(1000)); got != 0 {
		t.Errorf("nil settings: wanted 0, got %s", got)
	}
}

func TestCalculateMeasuredCurrentUMC06A(t *testing.T) {
	buf := make([]byte, VariablesSize)
	buf[VarOffsetCurrent] = 0xDC
	buf[VarOffsetCurrent+1] = 0x05 // 1500 mA
	buf[VarOffsetRawCurrent] = 0xFF
	v, err := DecodeVariables(buf)
	if err != nil {
		t.Fatal(err)
	}

	s := defaultSettings(ProductUMC06A)
	if got := CalculateMeasuredCurrent(s, v); got != 1500*physic.MilliAmpere {
		t.Fatalf("wanted 1.5A, got %s", got)
	}
}
