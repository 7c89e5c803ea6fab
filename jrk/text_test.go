// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import (
	"reflect"
	"strings"
	"testing"
)

func TestSettingsStringHeader(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	text := s.String()

	lines := strings.Split(text, "\n")
	if lines[0] != "# Pololu jrk settings file." {
		t.Errorf("line 0: got %q", lines[0])
	}
	if lines[1] != "# https://www.pololu.com/docs/0J73" {
		t.Errorf("line 1: got %q", lines[1])
	}
	if lines[2] != "product: 18v19" {
		t.Errorf("line 2: got %q", lines[2])
	}
	if !strings.HasSuffix(text, "\n") {
		t.Error("output does not end with a newline")
	}
}

func TestSettingsStringDefaults(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	text := s.String()

	for _, want := range []string{
		"input_mode: serial\n",
		"input_maximum: 4095\n",
		"input_scaling_degree: linear\n",
		"feedback_mode: none\n",
		"serial_mode: usb_dual_port\n",
		"serial_baud_rate: 9600\n",
		"serial_device_number: 11\n",
		"pid_period: 10\n",
		"integral_limit: 1000\n",
		"pwm_frequency: 20\n",
		"current_samples_exponent: 7\n",
		"hard_overcurrent_threshold: 1\n",
		"max_duty_cycle_forward: 600\n",
		"encoded_hard_current_limit_forward: 31\n",
		"fbt_method: counting\n",
		"fbt_timing_clock: 12\n",
		"fbt_timing_timeout: 100\n",
		"fbt_samples: 1\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output is missing %q", want)
		}
	}
}

func TestSettingsStringProductGating(t *testing.T) {
	text19 := defaultSettings(ProductUMC04A30).String()
	text21v3 := defaultSettings(ProductUMC06A).String()

	// Only the 21v3 regulates soft current with a level.
	for _, key := range []string{
		"soft_current_regulation_level_forward:",
		"soft_current_regulation_level_reverse:",
	} {
		if strings.Contains(text19, key) {
			t.Errorf("18v19 output has %q", key)
		}
		if !strings.Contains(text21v3, key) {
			t.Errorf("21v3 output is missing %q", key)
		}
	}

	// The 21v3 has no hard current limiting hardware.
	for _, key := range []string{
		"hard_overcurrent_threshold:",
		"encoded_hard_current_limit_forward:",
		"encoded_hard_current_limit_reverse:",
	} {
		if !strings.Contains(text19, key) {
			t.Errorf("18v19 output is missing %q", key)
		}
		if strings.Contains(text21v3, key) {
			t.Errorf("21v3 output has %q", key)
		}
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	s := defaultSettings(ProductUMC05A40)
	s.InputMode = InputModeRC
	s.FeedbackMode = FeedbackModeAnalog
	s.FeedbackInvert = true
	s.SerialBaudRate = 115200
	s.SerialDeviceNumber = 42
	s.ProportionalMultiplier = 123
	s.ProportionalExponent = 4
	s.MotorInvert = true
	s.CurrentOffsetCalibration = -33
	s.BrakeDurationForward = 305
	s.FBTMethod = FBTMethodTiming
	s.FBTTimingClock = FBTTimingClock48MHz

	got := ParseSettings(s.String())
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("round trip mismatch:\nwanted: %+v\ngot: %+v", s, got)
	}
}

func TestParseSettingsIgnoresUnknown(t *testing.T) {
	s := ParseSettings("product: 24v13\n" +
		"# a comment\n" +
		"\n" +
		"bogus_key: 17\n" +
		"pid_period: notanumber\n" +
		"serial_device_number: 99\n" +
		"no colon on this line\n")

	if s.Product != ProductUMC04A40 {
		t.Errorf("product: wanted %d, got %d", ProductUMC04A40, s.Product)
	}
	if s.PIDPeriod != 0 {
		t.Errorf("pid_period: wanted 0, got %d", s.PIDPeriod)
	}
	if s.SerialDeviceNumber != 99 {
		t.Errorf("serial_device_number: wanted 99, got %d", s.SerialDeviceNumber)
	}
}

func TestParseSettingsUnknownProduct(t *testing.T) {
	s := ParseSettings("product: flux_capacitor\npid_period: 25\n")
	if s.Product != ProductUnknown {
		t.Errorf("product: wanted unknown, got %d", s.Product)
	}
	if s.PIDPeriod != 25 {
		t.Errorf("pid_period: wanted 25, got %d", s.PIDPeriod)
	}
}

func TestSettingsFieldOrder(t *testing.T) {
	text := defaultSettings(ProductUMC04A30).String()

	// Spot check the canonical ordering: input block first, FBT block last.
	iInput := strings.Index(text, "input_mode:")
	iFeedback := strings.Index(text, "feedback_mode:")
	iSerial := strings.Index(text, "serial_mode:")
	iPID := strings.Index(text, "proportional_multiplier:")
	iFBT := strings.Index(text, "fbt_divider_exponent:")

	if !(iInput < iFeedback && iFeedback < iSerial && iSerial < iPID && iPID < iFBT) {
		t.Fatalf("field order is wrong: input=%d feedback=%d serial=%d pid=%d fbt=%d",
			iInput, iFeedback, iSerial, iPID, iFBT)
	}
}
