// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/physic"
)

func TestDecodeVariablesShortBuffer(t *testing.T) {
	_, err := DecodeVariables(make([]byte, VariablesSize-1))
	if !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer, got: %v", err)
	}
}

func TestDecodeVariables(t *testing.T) {
	buf := make([]byte, VariablesSize)
	put := func(offset VarOffset, v uint16) {
		buf[offset] = byte(v)
		buf[offset+1] = byte(v >> 8)
	}
	put(VarOffsetInput, 2048)
	put(VarOffsetTarget, 2248)
	put(VarOffsetFeedback, 1000)
	put(VarOffsetScaledFeedback, 2148)
	put(VarOffsetIntegral, 0xFF9C)        // -100
	put(VarOffsetDutyCycleTarget, 0xFDA8) // -600
	put(VarOffsetDutyCycle, 300)
	buf[VarOffsetCurrentLowRes] = 12
	buf[VarOffsetPIDPeriodExceeded] = 0x01
	put(VarOffsetPIDPeriodCount, 54321)
	put(VarOffsetErrorFlagsHalting, 1<<ErrorBitNoPower)
	put(VarOffsetErrorFlagsOccurred, 1<<ErrorBitNoPower|1<<ErrorBitSerialTimeout)
	buf[VarOffsetFlagByte1] = byte(ForceModeDutyCycle)
	put(VarOffsetVinVoltage, 12004)
	put(VarOffsetCurrent, 1500)
	buf[VarOffsetDeviceReset] = byte(ResetCauseSoftware)
	buf[VarOffsetUpTime] = 0x10
	buf[VarOffsetUpTime+2] = 0x01 // 65552 ms
	put(VarOffsetRCPulseWidth, 9000)
	put(VarOffsetFBTReading, 123)
	put(VarOffsetAnalogReadingSDA, 40000)
	put(VarOffsetAnalogReadingFBA, 30000)
	buf[VarOffsetDigitalReadings] = 1 << PinRC
	put(VarOffsetRawCurrent, 400)
	put(VarOffsetEncodedHardCurrentLimit, 95)
	put(VarOffsetLastDutyCycle, 0xFFFF) // -1
	buf[VarOffsetCurrentChoppingConsecutiveCount] = 3
	buf[VarOffsetCurrentChoppingOccurrenceCount] = 7

	v, err := DecodeVariables(buf)
	if err != nil {
		t.Fatal(err)
	}

	if got := v.Input(); got != 2048 {
		t.Errorf("Input: wanted 2048, got %d", got)
	}
	if got := v.Target(); got != 2248 {
		t.Errorf("Target: wanted 2248, got %d", got)
	}
	if got := v.Feedback(); got != 1000 {
		t.Errorf("Feedback: wanted 1000, got %d", got)
	}
	if got := v.ScaledFeedback(); got != 2148 {
		t.Errorf("ScaledFeedback: wanted 2148, got %d", got)
	}
	if got := v.Error(); got != -100 {
		t.Errorf("Error: wanted -100, got %d", got)
	}
	if got := v.Integral(); got != -100 {
		t.Errorf("Integral: wanted -100, got %d", got)
	}
	if got := v.DutyCycleTarget(); got != -600 {
		t.Errorf("DutyCycleTarget: wanted -600, got %d", got)
	}
	if got := v.DutyCycle(); got != 300 {
		t.Errorf("DutyCycle: wanted 300, got %d", got)
	}
	if got := v.CurrentLowRes(); got != 12 {
		t.Errorf("CurrentLowRes: wanted 12, got %d", got)
	}
	if !v.PIDPeriodExceeded() {
		t.Error("PIDPeriodExceeded: wanted true")
	}
	if got := v.PIDPeriodCount(); got != 54321 {
		t.Errorf("PIDPeriodCount: wanted 54321, got %d", got)
	}
	if !v.HasError(ErrorBitNoPower) {
		t.Error("HasError(NoPower): wanted true")
	}
	if v.HasError(ErrorBitSerialTimeout) {
		t.Error("HasError(SerialTimeout): wanted false")
	}
	if got := v.ErrorFlagsOccurred(); got != 1<<ErrorBitNoPower|1<<ErrorBitSerialTimeout {
		t.Errorf("ErrorFlagsOccurred: wanted %#04x, got %#04x",
			1<<ErrorBitNoPower|1<<ErrorBitSerialTimeout, got)
	}
	if got := v.ForceMode(); got != ForceModeDutyCycle {
		t.Errorf("ForceMode: wanted %d, got %d", ForceModeDutyCycle, got)
	}
	if got := v.VinVoltage(); got != 12004*physic.MilliVolt {
		t.Errorf("VinVoltage: wanted 12.004V, got %s", got)
	}
	if got := v.Current(); got != 1500 {
		t.Errorf("Current: wanted 1500, got %d", got)
	}
	if got := v.DeviceReset(); got != ResetCauseSoftware {
		t.Errorf("DeviceReset: wanted %d, got %d", ResetCauseSoftware, got)
	}
	if got := v.UpTime(); got != 65552*time.Millisecond {
		t.Errorf("UpTime: wanted 65552ms, got %s", got)
	}
	if got := v.RCPulseWidth(); got != 9000 {
		t.Errorf("RCPulseWidth: wanted 9000, got %d", got)
	}
	if got := v.FBTReading(); got != 123 {
		t.Errorf("FBTReading: wanted 123, got %d", got)
	}
	if got := v.AnalogReading(PinSDA); got != 40000 {
		t.Errorf("AnalogReading(SDA): wanted 40000, got %d", got)
	}
	if got := v.AnalogReading(PinFBA); got != 30000 {
		t.Errorf("AnalogReading(FBA): wanted 30000, got %d", got)
	}
	if !v.DigitalReading(PinRC) {
		t.Error("DigitalReading(RC): wanted true")
	}
	if v.DigitalReading(PinTX) {
		t.Error("DigitalReading(TX): wanted false")
	}
	if got := v.RawCurrent(); got != 400 {
		t.Errorf("RawCurrent: wanted 400, got %d", got)
	}
	if got := v.EncodedHardCurrentLimit(); got != 95 {
		t.Errorf("EncodedHardCurrentLimit: wanted 95, got %d", got)
	}
	if got := v.LastDutyCycle(); got != -1 {
		t.Errorf("LastDutyCycle: wanted -1, got %d", got)
	}
	if got := v.CurrentChoppingConsecutiveCount(); got != 3 {
		t.Errorf("CurrentChoppingConsecutiveCount: wanted 3, got %d", got)
	}
	if got := v.CurrentChoppingOccurrenceCount(); got != 7 {
		t.Errorf("CurrentChoppingOccurrenceCount: wanted 7, got %d", got)
	}
}

func TestAnalogReadingNonCapablePins(t *testing.T) {
	v, err := DecodeVariables(make([]byte, VariablesSize))
	if err != nil {
		t.Fatal(err)
	}
	for _, pin := range []Pin{PinSCL, PinTX, PinRX, PinRC, PinAUX, PinFBT} {
		if got := v.AnalogReading(pin); got != InputNull {
			t.Errorf("AnalogReading(%d): wanted InputNull, got %d", pin, got)
		}
	}
	// The capable pins report whatever was read, zero here.
	if got := v.AnalogReading(PinSDA); got != 0 {
		t.Errorf("AnalogReading(SDA): wanted 0, got %d", got)
	}
}

func TestVariablesNilGetters(t *testing.T) {
	var v *Variables
	if got := v.Target(); got != 0 {
		t.Errorf("Target: wanted 0, got %d", got)
	}
	if got := v.Error(); got != 0 {
		t.Errorf("Error: wanted 0, got %d", got)
	}
	if got := v.VinVoltage(); got != 0 {
		t.Errorf("VinVoltage: wanted 0, got %s", got)
	}
	if got := v.UpTime(); got != 0 {
		t.Errorf("UpTime: wanted 0, got %s", got)
	}
	if v.HasError(ErrorBitNoPower) {
		t.Error("HasError: wanted false")
	}
	if got := v.AnalogReading(PinSDA); got != 0 {
		t.Errorf("AnalogReading(SDA): wanted 0, got %d", got)
	}
}
