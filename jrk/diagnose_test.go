// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import "testing"

func diagVars(t *testing.T, halting uint16, forceMode ForceMode, dutyCycle int16) *Variables {
	t.Helper()
	buf := make([]byte, VariablesSize)
	buf[VarOffsetErrorFlagsHalting] = byte(halting)
	buf[VarOffsetErrorFlagsHalting+1] = byte(halting >> 8)
	buf[VarOffsetFlagByte1] = byte(forceMode)
	buf[VarOffsetDutyCycle] = byte(uint16(dutyCycle))
	buf[VarOffsetDutyCycle+1] = byte(uint16(dutyCycle) >> 8)
	v, err := DecodeVariables(buf)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestDiagnose(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)

	for _, test := range []struct {
		name    string
		halting uint16
		force   ForceMode
		duty    int16
		want    string
	}{
		{
			name:    "no power",
			halting: 1 << ErrorBitNoPower,
			want:    "The motor cannot run because VIN is disconnected or too low.",
		},
		{
			name:    "motor driver",
			halting: 1 << ErrorBitMotorDriver,
			want:    "The motor driver reported an error.",
		},
		{
			name:    "hard overcurrent",
			halting: 1 << ErrorBitHardOvercurrent,
			want:    "The motor stopped because the hardware current limit was exceeded.",
		},
		{
			name:    "input invalid",
			halting: 1 << ErrorBitInputInvalid,
			want:    "The motor is stopped because the input is invalid.",
		},
		{
			name:    "input disconnect",
			halting: 1 << ErrorBitInputDisconnect,
			want:    "The motor is stopped because the input appears to be disconnected.",
		},
		{
			name:    "feedback disconnect",
			halting: 1 << ErrorBitFeedbackDisconnect,
			want:    "The motor is stopped because the feedback appears to be disconnected.",
		},
		{
			name:    "soft overcurrent",
			halting: 1 << ErrorBitSoftOvercurrent,
			want:    "The motor stopped because it exceeded the soft current limit.",
		},
		{
			name:    "serial error",
			halting: 1 << ErrorBitSerialTimeout,
			want:    "The motor is stopped because of a serial communication error.",
		},
		{
			name:    "awaiting command",
			halting: 1 << ErrorBitAwaitingCommand,
			want:    "The motor is stopped and waiting for a command.",
		},
		{
			name:  "forced duty cycle target",
			force: ForceModeDutyCycleTarget,
			want:  "A forced duty cycle target is being applied.",
		},
		{
			name:  "forced duty cycle",
			force: ForceModeDutyCycle,
			want:  "A forced duty cycle is being applied.",
		},
		{
			name: "stopped",
			want: "The motor is stopped.",
		},
		{
			name: "running",
			duty: 300,
			want: "The motor is running.",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			vars := diagVars(t, test.halting, test.force, test.duty)
			if got := Diagnose(s, nil, vars, 0); got != test.want {
				t.Fatalf("wanted: %q, got: %q", test.want, got)
			}
		})
	}
}

func TestDiagnosePriority(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)

	// Power loss outranks everything else reported at the same time.
	vars := diagVars(t, 1<<ErrorBitNoPower|1<<ErrorBitAwaitingCommand|
		1<<ErrorBitSerialTimeout, ForceModeDutyCycle, 0)
	want := "The motor cannot run because VIN is disconnected or too low."
	if got := Diagnose(s, nil, vars, 0); got != want {
		t.Fatalf("wanted: %q, got: %q", want, got)
	}

	// A hard overcurrent outranks input problems.
	vars = diagVars(t, 1<<ErrorBitHardOvercurrent|1<<ErrorBitInputInvalid, 0, 0)
	want = "The motor stopped because the hardware current limit was exceeded."
	if got := Diagnose(s, nil, vars, 0); got != want {
		t.Fatalf("wanted: %q, got: %q", want, got)
	}
}

func TestDiagnoseFeedbackWizard(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	vars := diagVars(t, 1<<ErrorBitAwaitingCommand, 0, 0)

	want := "You can click and hold the buttons above to drive the motor."
	if got := Diagnose(s, nil, vars, DiagnoseFeedbackWizard); got != want {
		t.Fatalf("wanted: %q, got: %q", want, got)
	}
}

func TestDiagnoseZeroPIDCoefficients(t *testing.T) {
	s := defaultSettings(ProductUMC04A30)
	s.FeedbackMode = FeedbackModeAnalog
	vars := diagVars(t, 0, 0, 0)

	want := "The PID coefficients are all zero, so the motor will not move on its own."
	if got := Diagnose(s, nil, vars, 0); got != want {
		t.Fatalf("wanted: %q, got: %q", want, got)
	}

	// Without feedback the PID loop is unused, so zero coefficients are fine.
	s.FeedbackMode = FeedbackModeNone
	if got := Diagnose(s, nil, vars, 0); got != "The motor is stopped." {
		t.Fatalf("got: %q", got)
	}

	// The RAM override settings take precedence for the check.
	s.FeedbackMode = FeedbackModeAnalog
	o := s.Copy()
	o.SetProportional(PIDConstant{1, 0})
	if got := Diagnose(s, o, vars, 0); got != "The motor is stopped." {
		t.Fatalf("with override: got: %q", got)
	}
}

func TestDiagnoseNoData(t *testing.T) {
	want := "There is no diagnosis available."
	if got := Diagnose(nil, nil, nil, 0); got != want {
		t.Fatalf("wanted: %q, got: %q", want, got)
	}
	s := defaultSettings(ProductUMC04A30)
	if got := Diagnose(s, nil, nil, 0); got != want {
		t.Fatalf("wanted: %q, got: %q", want, got)
	}
}
