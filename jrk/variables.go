// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

// InputNull represents a null or missing value for some of the Jrk's 16-bit
// input variables.
const InputNull uint16 = 0xFFFF

// ErrorBit describes the Jrk's error bits. See the "Error handling" section
// of the Jrk G2 user's guide for more information about what these errors
// mean.
type ErrorBit uint16

const (
	ErrorBitAwaitingCommand    ErrorBit = 0
	ErrorBitNoPower            ErrorBit = 1
	ErrorBitMotorDriver        ErrorBit = 2
	ErrorBitInputInvalid       ErrorBit = 3
	ErrorBitInputDisconnect    ErrorBit = 4
	ErrorBitFeedbackDisconnect ErrorBit = 5
	ErrorBitSoftOvercurrent    ErrorBit = 6
	ErrorBitSerialSignal       ErrorBit = 7
	ErrorBitSerialOverrun      ErrorBit = 8
	ErrorBitSerialBufferFull   ErrorBit = 9
	ErrorBitSerialCRC          ErrorBit = 10
	ErrorBitSerialProtocol     ErrorBit = 11
	ErrorBitSerialTimeout      ErrorBit = 12
	ErrorBitHardOvercurrent    ErrorBit = 13
)

// errorFlagsAll is the mask of every defined error bit.
const errorFlagsAll uint16 = 0x3FFF

// Pin describes a Jrk control pin.
type Pin uint8

const (
	PinSCL Pin = 0
	PinSDA Pin = 1
	PinTX  Pin = 2
	PinRX  Pin = 3
	PinRC  Pin = 4
	PinAUX Pin = 5
	PinFBA Pin = 6
	PinFBT Pin = 7
)

// analogCapable reports whether the pin has an ADC behind it. The other
// pins never produce analog readings.
func (p Pin) analogCapable() bool {
	return p == PinSDA || p == PinFBA
}

// ResetCause describes the possible causes of a full microcontroller reset.
type ResetCause uint8

const (
	ResetCausePowerUp        ResetCause = 0
	ResetCauseBrownout       ResetCause = 1
	ResetCauseResetLine      ResetCause = 2
	ResetCauseWatchdog       ResetCause = 4
	ResetCauseSoftware       ResetCause = 8
	ResetCauseStackOverflow  ResetCause = 16
	ResetCauseStackUnderflow ResetCause = 32
)

// ForceMode describes whether the duty cycle target or duty cycle is being
// overridden with a forced value.
type ForceMode uint8

const (
	ForceModeNone            ForceMode = 0
	ForceModeDutyCycleTarget ForceMode = 1
	ForceModeDutyCycle       ForceMode = 2
)

// Bits in flag byte 1 of the variables block. The low two bits hold the
// force mode.
const flagByte1ForceModeMask = 0x03

// Variables is a snapshot of the Jrk's runtime state, decoded from the raw
// variables block. It is immutable; fetch a fresh snapshot to observe
// changes. Every getter is safe to call on a nil receiver and returns the
// zero value in that case.
type Variables struct {
	input                           uint16
	target                          uint16
	feedback                        uint16
	scaledFeedback                  uint16
	integral                        int16
	dutyCycleTarget                 int16
	dutyCycle                       int16
	currentLowRes                   uint8
	pidPeriodExceeded               bool
	pidPeriodCount                  uint16
	errorFlagsHalting               uint16
	errorFlagsOccurred              uint16
	forceMode                       ForceMode
	vinVoltage                      uint16
	current                         uint16
	deviceReset                     ResetCause
	upTime                          uint32
	rcPulseWidth                    uint16
	fbtReading                      uint16
	analogReadingSDA                uint16
	analogReadingFBA                uint16
	digitalReadings                 uint8
	rawCurrent                      uint16
	encodedHardCurrentLimit         uint16
	lastDutyCycle                   int16
	currentChoppingConsecutiveCount uint8
	currentChoppingOccurrenceCount  uint8
}

// DecodeVariables decodes a snapshot from the raw variables block fetched
// from the device. The buffer must be at least VariablesSize bytes.
func DecodeVariables(buf []byte) (*Variables, error) {
	if len(buf) < VariablesSize {
		return nil, fmt.Errorf("%w: variables need %d bytes, got %d",
			ErrShortBuffer, VariablesSize, len(buf))
	}

	v := Variables{
		input:                           getVar16At(buf, VarOffsetInput),
		target:                          getVar16At(buf, VarOffsetTarget),
		feedback:                        getVar16At(buf, VarOffsetFeedback),
		scaledFeedback:                  getVar16At(buf, VarOffsetScaledFeedback),
		integral:                        int16(getVar16At(buf, VarOffsetIntegral)),
		dutyCycleTarget:                 int16(getVar16At(buf, VarOffsetDutyCycleTarget)),
		dutyCycle:                       int16(getVar16At(buf, VarOffsetDutyCycle)),
		currentLowRes:                   buf[VarOffsetCurrentLowRes],
		pidPeriodExceeded:               buf[VarOffsetPIDPeriodExceeded]&1 != 0,
		pidPeriodCount:                  getVar16At(buf, VarOffsetPIDPeriodCount),
		errorFlagsHalting:               getVar16At(buf, VarOffsetErrorFlagsHalting),
		errorFlagsOccurred:              getVar16At(buf, VarOffsetErrorFlagsOccurred),
		forceMode:                       ForceMode(buf[VarOffsetFlagByte1] & flagByte1ForceModeMask),
		vinVoltage:                      getVar16At(buf, VarOffsetVinVoltage),
		current:                         getVar16At(buf, VarOffsetCurrent),
		deviceReset:                     ResetCause(buf[VarOffsetDeviceReset]),
		upTime:                          getVar32At(buf, VarOffsetUpTime),
		rcPulseWidth:                    getVar16At(buf, VarOffsetRCPulseWidth),
		fbtReading:                      getVar16At(buf, VarOffsetFBTReading),
		analogReadingSDA:                getVar16At(buf, VarOffsetAnalogReadingSDA),
		analogReadingFBA:                getVar16At(buf, VarOffsetAnalogReadingFBA),
		digitalReadings:                 buf[VarOffsetDigitalReadings],
		rawCurrent:                      getVar16At(buf, VarOffsetRawCurrent),
		encodedHardCurrentLimit:         getVar16At(buf, VarOffsetEncodedHardCurrentLimit),
		lastDutyCycle:                   int16(getVar16At(buf, VarOffsetLastDutyCycle)),
		currentChoppingConsecutiveCount: buf[VarOffsetCurrentChoppingConsecutiveCount],
		currentChoppingOccurrenceCount:  buf[VarOffsetCurrentChoppingOccurrenceCount],
	}
	return &v, nil
}

// Input returns the raw, unscaled input value.
func (v *Variables) Input() uint16 {
	if v == nil {
		return 0
	}
	return v.input
}

// Target returns the target the feedback loop is driving toward.
func (v *Variables) Target() uint16 {
	if v == nil {
		return 0
	}
	return v.target
}

// Feedback returns the raw, unscaled feedback value.
func (v *Variables) Feedback() uint16 {
	if v == nil {
		return 0
	}
	return v.feedback
}

// ScaledFeedback returns the feedback after scaling, comparable to the
// target.
func (v *Variables) ScaledFeedback() uint16 {
	if v == nil {
		return 0
	}
	return v.scaledFeedback
}

// Error returns the signed difference between the scaled feedback and the
// target. It is computed on every call, never stored.
func (v *Variables) Error() int16 {
	if v == nil {
		return 0
	}
	return int16(v.scaledFeedback - v.target)
}

// Integral returns the accumulated error integral of the PID loop.
func (v *Variables) Integral() int16 {
	if v == nil {
		return 0
	}
	return v.integral
}

// DutyCycleTarget returns the duty cycle the PID loop is trying to reach,
// before acceleration and current limiting.
func (v *Variables) DutyCycleTarget() int16 {
	if v == nil {
		return 0
	}
	return v.dutyCycleTarget
}

// DutyCycle returns the duty cycle currently applied to the motor.
func (v *Variables) DutyCycle() int16 {
	if v == nil {
		return 0
	}
	return v.dutyCycle
}

// CurrentLowRes returns the old-style low-resolution current reading.
func (v *Variables) CurrentLowRes() uint8 {
	if v == nil {
		return 0
	}
	return v.currentLowRes
}

// PIDPeriodExceeded reports whether a PID cycle overran its period.
func (v *Variables) PIDPeriodExceeded() bool {
	if v == nil {
		return false
	}
	return v.pidPeriodExceeded
}

// PIDPeriodCount returns the number of PID periods since the last reset.
func (v *Variables) PIDPeriodCount() uint16 {
	if v == nil {
		return 0
	}
	return v.pidPeriodCount
}

// ErrorFlagsHalting returns the errors currently stopping the motor, as a
// bitmap indexed by the ErrorBit constants.
func (v *Variables) ErrorFlagsHalting() uint16 {
	if v == nil {
		return 0
	}
	return v.errorFlagsHalting
}

// ErrorFlagsOccurred returns the errors that have occurred since the flags
// were last cleared, as a bitmap indexed by the ErrorBit constants.
func (v *Variables) ErrorFlagsOccurred() uint16 {
	if v == nil {
		return 0
	}
	return v.errorFlagsOccurred
}

// HasError reports whether the given error is currently stopping the motor.
func (v *Variables) HasError(bit ErrorBit) bool {
	return v.ErrorFlagsHalting()&(1<<bit) != 0
}

// ForceMode reports whether the duty cycle target or duty cycle is being
// overridden.
func (v *Variables) ForceMode() ForceMode {
	if v == nil {
		return ForceModeNone
	}
	return v.forceMode
}

// VinVoltage returns the measured supply voltage.
func (v *Variables) VinVoltage() physic.ElectricPotential {
	if v == nil {
		return 0
	}
	return physic.ElectricPotential(v.vinVoltage) * physic.MilliVolt
}

// Current returns the firmware's own measurement of the motor current in
// milliamps.
func (v *Variables) Current() uint16 {
	if v == nil {
		return 0
	}
	return v.current
}

// DeviceReset returns the cause of the controller's last reset.
func (v *Variables) DeviceReset() ResetCause {
	if v == nil {
		return ResetCausePowerUp
	}
	return v.deviceReset
}

// UpTime returns the time since the controller's last reset.
func (v *Variables) UpTime() time.Duration {
	if v == nil {
		return 0
	}
	return time.Duration(v.upTime) * time.Millisecond
}

// RCPulseWidth returns the raw pulse width measured on the RC pin in units
// of twelfths of a microsecond, or InputNull if no valid pulses are coming
// in.
func (v *Variables) RCPulseWidth() uint16 {
	if v == nil {
		return 0
	}
	return v.rcPulseWidth
}

// FBTReading returns the raw pulse count or pulse timing reading from the
// FBT pin.
func (v *Variables) FBTReading() uint16 {
	if v == nil {
		return 0
	}
	return v.fbtReading
}

// AnalogReading returns the analog reading from the given pin. The reading
// is left-justified, so 0xFFFE represents a voltage close to 5 V. Returns
// InputNull if the reading is not available, and always for pins that are
// not analog capable.
func (v *Variables) AnalogReading(pin Pin) uint16 {
	if !pin.analogCapable() {
		return InputNull
	}
	if v == nil {
		return 0
	}
	if pin == PinSDA {
		return v.analogReadingSDA
	}
	return v.analogReadingFBA
}

// DigitalReading returns the digital reading of the given pin. True means
// high.
func (v *Variables) DigitalReading(pin Pin) bool {
	if v == nil {
		return false
	}
	return (v.digitalReadings>>uint8(pin))&1 != 0
}

// RawCurrent returns the unprocessed current sense ADC reading. Use
// CalculateMeasuredCurrent to convert it to milliamps.
func (v *Variables) RawCurrent() uint16 {
	if v == nil {
		return 0
	}
	return v.rawCurrent
}

// EncodedHardCurrentLimit returns the hard current limit code currently in
// effect.
func (v *Variables) EncodedHardCurrentLimit() uint16 {
	if v == nil {
		return 0
	}
	return v.encodedHardCurrentLimit
}

// LastDutyCycle returns the duty cycle applied during the previous PID
// period.
func (v *Variables) LastDutyCycle() int16 {
	if v == nil {
		return 0
	}
	return v.lastDutyCycle
}

// CurrentChoppingConsecutiveCount returns how many consecutive PID periods
// current chopping was active.
func (v *Variables) CurrentChoppingConsecutiveCount() uint8 {
	if v == nil {
		return 0
	}
	return v.currentChoppingConsecutiveCount
}

// CurrentChoppingOccurrenceCount returns how many times current chopping
// has occurred since the count was last cleared. The count saturates at
// 255.
func (v *Variables) CurrentChoppingOccurrenceCount() uint8 {
	if v == nil {
		return 0
	}
	return v.currentChoppingOccurrenceCount
}

func getVar16At(buf []byte, offset VarOffset) uint16 {
	return uint16(buf[offset]) | uint16(buf[offset+1])<<8
}

func getVar32At(buf []byte, offset VarOffset) uint32 {
	return uint32(buf[offset]) | uint32(buf[offset+1])<<8 |
		uint32(buf[offset+2])<<16 | uint32(buf[offset+3])<<24
}
