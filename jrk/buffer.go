// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import (
	"encoding/binary"
	"fmt"
)

// MarshalBinary encodes the settings into the fixed 118-byte layout used by
// the device's EEPROM and RAM settings memory. The product is part of the
// device's identity, not of this layout, so it is not stored.
//
// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Settings) MarshalBinary() ([]byte, error) {
	buf := make([]byte, SettingsSize)

	var options1 uint8
	if s.NeverSleep {
		options1 |= 1 << optionsByte1NeverSleep
	}
	if s.SerialEnableCRC {
		options1 |= 1 << optionsByte1SerialEnableCRC
	}
	if s.SerialEnable14BitDeviceNumber {
		options1 |= 1 << optionsByte1SerialEnable14BitDeviceNumber
	}
	if s.SerialDisableCompactProtocol {
		options1 |= 1 << optionsByte1SerialDisableCompactProtocol
	}
	buf[SettingOffsetOptionsByte1] = options1

	var options2 uint8
	if s.InputInvert {
		options2 |= 1 << optionsByte2InputInvert
	}
	if s.InputDetectDisconnect {
		options2 |= 1 << optionsByte2InputDetectDisconnect
	}
	if s.FeedbackInvert {
		options2 |= 1 << optionsByte2FeedbackInvert
	}
	if s.FeedbackDetectDisconnect {
		options2 |= 1 << optionsByte2FeedbackDetectDisconnect
	}
	if s.FeedbackWraparound {
		options2 |= 1 << optionsByte2FeedbackWraparound
	}
	if s.CoastWhenOff {
		options2 |= 1 << optionsByte2CoastWhenOff
	}
	if s.ResetIntegral {
		options2 |= 1 << optionsByte2ResetIntegral
	}
	if s.MotorInvert {
		options2 |= 1 << optionsByte2MotorInvert
	}
	buf[SettingOffsetOptionsByte2] = options2

	var options3 uint8
	if s.DisableI2CPullups {
		options3 |= 1 << optionsByte3DisableI2CPullups
	}
	if s.AnalogSDAPullup {
		options3 |= 1 << optionsByte3AnalogSDAPullup
	}
	if s.AlwaysAnalogSDA {
		options3 |= 1 << optionsByte3AlwaysAnalogSDA
	}
	if s.AlwaysAnalogFBA {
		options3 |= 1 << optionsByte3AlwaysAnalogFBA
	}
	buf[SettingOffsetOptionsByte3] = options3

	buf[SettingOffsetInputMode] = uint8(s.InputMode)
	put16(buf, SettingOffsetInputErrorMinimum, s.InputErrorMinimum)
	put16(buf, SettingOffsetInputErrorMaximum, s.InputErrorMaximum)
	put16(buf, SettingOffsetInputMinimum, s.InputMinimum)
	put16(buf, SettingOffsetInputMaximum, s.InputMaximum)
	put16(buf, SettingOffsetInputNeutralMinimum, s.InputNeutralMinimum)
	put16(buf, SettingOffsetInputNeutralMaximum, s.InputNeutralMaximum)
	put16(buf, SettingOffsetOutputMinimum, s.OutputMinimum)
	put16(buf, SettingOffsetOutputNeutral, s.OutputNeutral)
	put16(buf, SettingOffsetOutputMaximum, s.OutputMaximum)
	buf[SettingOffsetInputScalingDegree] = uint8(s.InputScalingDegree)
	buf[SettingOffsetInputAnalogSamplesExponent] = s.InputAnalogSamplesExponent

	buf[SettingOffsetFeedbackMode] = uint8(s.FeedbackMode)
	put16(buf, SettingOffsetFeedbackErrorMinimum, s.FeedbackErrorMinimum)
	put16(buf, SettingOffsetFeedbackErrorMaximum, s.FeedbackErrorMaximum)
	put16(buf, SettingOffsetFeedbackMinimum, s.FeedbackMinimum)
	put16(buf, SettingOffsetFeedbackMaximum, s.FeedbackMaximum)
	buf[SettingOffsetFeedbackDeadZone] = s.FeedbackDeadZone
	buf[SettingOffsetFeedbackAnalogSamplesExponent] = s.FeedbackAnalogSamplesExponent

	buf[SettingOffsetSerialMode] = uint8(s.SerialMode)
	put16(buf, SettingOffsetSerialBaudRateGenerator, baudRateToGenerator(s.SerialBaudRate))
	put16(buf, SettingOffsetSerialTimeout, uint16(s.SerialTimeout/SerialTimeoutUnits))
	put16(buf, SettingOffsetSerialDeviceNumber, s.SerialDeviceNumber)

	put16(buf, SettingOffsetErrorEnable, s.ErrorEnable)
	put16(buf, SettingOffsetErrorLatch, s.ErrorLatch)
	put16(buf, SettingOffsetErrorHard, s.ErrorHard)
	put16(buf, SettingOffsetVinCalibration, uint16(s.VinCalibration))

	buf[SettingOffsetPWMFrequency] = uint8(s.PWMFrequency)
	buf[SettingOffsetCurrentSamplesExponent] = s.CurrentSamplesExponent
	buf[SettingOffsetHardOvercurrentThreshold] = s.HardOvercurrentThreshold
	put16(buf, SettingOffsetCurrentOffsetCalibration, uint16(s.CurrentOffsetCalibration))
	put16(buf, SettingOffsetCurrentScaleCalibration, uint16(s.CurrentScaleCalibration))

	buf[SettingOffsetFBTMethod] = uint8(s.FBTMethod)
	fbtOptions := uint8(s.FBTTimingClock) & fbtOptionsTimingClockMask
	if s.FBTTimingPolarity {
		fbtOptions |= 1 << fbtOptionsTimingPolarity
	}
	buf[SettingOffsetFBTOptions] = fbtOptions
	put16(buf, SettingOffsetFBTTimingTimeout, s.FBTTimingTimeout)
	buf[SettingOffsetFBTSamples] = s.FBTSamples
	buf[SettingOffsetFBTDividerExponent] = s.FBTDividerExponent
	buf[SettingOffsetIntegralDividerExponent] = s.IntegralDividerExponent

	put16(buf, SettingOffsetSoftCurrentRegulationLevelForward, s.SoftCurrentRegulationLevelForward)
	put16(buf, SettingOffsetSoftCurrentRegulationLevelReverse, s.SoftCurrentRegulationLevelReverse)

	put16(buf, SettingOffsetProportionalMultiplier, s.ProportionalMultiplier)
	buf[SettingOffsetProportionalExponent] = s.ProportionalExponent
	put16(buf, SettingOffsetIntegralMultiplier, s.IntegralMultiplier)
	buf[SettingOffsetIntegralExponent] = s.IntegralExponent
	put16(buf, SettingOffsetDerivativeMultiplier, s.DerivativeMultiplier)
	buf[SettingOffsetDerivativeExponent] = s.DerivativeExponent
	put16(buf, SettingOffsetPIDPeriod, s.PIDPeriod)
	put16(buf, SettingOffsetIntegralLimit, s.IntegralLimit)

	put16(buf, SettingOffsetMaxDutyCycleWhileFeedbackOutOfRange, s.MaxDutyCycleWhileFeedbackOutOfRange)
	put16(buf, SettingOffsetMaxAccelerationForward, s.MaxAccelerationForward)
	put16(buf, SettingOffsetMaxAccelerationReverse, s.MaxAccelerationReverse)
	put16(buf, SettingOffsetMaxDecelerationForward, s.MaxDecelerationForward)
	put16(buf, SettingOffsetMaxDecelerationReverse, s.MaxDecelerationReverse)
	put16(buf, SettingOffsetMaxDutyCycleForward, s.MaxDutyCycleForward)
	put16(buf, SettingOffsetMaxDutyCycleReverse, s.MaxDutyCycleReverse)
	put16(buf, SettingOffsetEncodedHardCurrentLimitForward, s.EncodedHardCurrentLimitForward)
	put16(buf, SettingOffsetEncodedHardCurrentLimitReverse, s.EncodedHardCurrentLimitReverse)
	buf[SettingOffsetBrakeDurationForward] = uint8(s.BrakeDurationForward / BrakeDurationUnits)
	buf[SettingOffsetBrakeDurationReverse] = uint8(s.BrakeDurationReverse / BrakeDurationUnits)
	put16(buf, SettingOffsetSoftCurrentLimitForward, s.SoftCurrentLimitForward)
	put16(buf, SettingOffsetSoftCurrentLimitReverse, s.SoftCurrentLimitReverse)

	return buf, nil
}

// UnmarshalBinary decodes settings from the fixed 118-byte device layout.
// The product field is left as it was, since the layout does not carry it.
//
// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Settings) UnmarshalBinary(buf []byte) error {
	if len(buf) < SettingsSize {
		return fmt.Errorf("%w: settings need %d bytes, got %d",
			ErrShortBuffer, SettingsSize, len(buf))
	}

	options1 := buf[SettingOffsetOptionsByte1]
	s.NeverSleep = options1&(1<<optionsByte1NeverSleep) != 0
	s.SerialEnableCRC = options1&(1<<optionsByte1SerialEnableCRC) != 0
	s.SerialEnable14BitDeviceNumber = options1&(1<<optionsByte1SerialEnable14BitDeviceNumber) != 0
	s.SerialDisableCompactProtocol = options1&(1<<optionsByte1SerialDisableCompactProtocol) != 0

	options2 := buf[SettingOffsetOptionsByte2]
	s.InputInvert = options2&(1<<optionsByte2InputInvert) != 0
	s.InputDetectDisconnect = options2&(1<<optionsByte2InputDetectDisconnect) != 0
	s.FeedbackInvert = options2&(1<<optionsByte2FeedbackInvert) != 0
	s.FeedbackDetectDisconnect = options2&(1<<optionsByte2FeedbackDetectDisconnect) != 0
	s.FeedbackWraparound = options2&(1<<optionsByte2FeedbackWraparound) != 0
	s.CoastWhenOff = options2&(1<<optionsByte2CoastWhenOff) != 0
	s.ResetIntegral = options2&(1<<optionsByte2ResetIntegral) != 0
	s.MotorInvert = options2&(1<<optionsByte2MotorInvert) != 0

	options3 := buf[SettingOffsetOptionsByte3]
	s.DisableI2CPullups = options3&(1<<optionsByte3DisableI2CPullups) != 0
	s.AnalogSDAPullup = options3&(1<<optionsByte3AnalogSDAPullup) != 0
	s.AlwaysAnalogSDA = options3&(1<<optionsByte3AlwaysAnalogSDA) != 0
	s.AlwaysAnalogFBA = options3&(1<<optionsByte3AlwaysAnalogFBA) != 0

	s.InputMode = InputMode(buf[SettingOffsetInputMode])
	s.InputErrorMinimum = get16(buf, SettingOffsetInputErrorMinimum)
	s.InputErrorMaximum = get16(buf, SettingOffsetInputErrorMaximum)
	s.InputMinimum = get16(buf, SettingOffsetInputMinimum)
	s.InputMaximum = get16(buf, SettingOffsetInputMaximum)
	s.InputNeutralMinimum = get16(buf, SettingOffsetInputNeutralMinimum)
	s.InputNeutralMaximum = get16(buf, SettingOffsetInputNeutralMaximum)
	s.OutputMinimum = get16(buf, SettingOffsetOutputMinimum)
	s.OutputNeutral = get16(buf, SettingOffsetOutputNeutral)
	s.OutputMaximum = get16(buf, SettingOffsetOutputMaximum)
	s.InputScalingDegree = InputScalingDegree(buf[SettingOffsetInputScalingDegree])
	s.InputAnalogSamplesExponent = buf[SettingOffsetInputAnalogSamplesExponent]

	s.FeedbackMode = FeedbackMode(buf[SettingOffsetFeedbackMode])
	s.FeedbackErrorMinimum = get16(buf, SettingOffsetFeedbackErrorMinimum)
	s.FeedbackErrorMaximum = get16(buf, SettingOffsetFeedbackErrorMaximum)
	s.FeedbackMinimum = get16(buf, SettingOffsetFeedbackMinimum)
	s.FeedbackMaximum = get16(buf, SettingOffsetFeedbackMaximum)
	s.FeedbackDeadZone = buf[SettingOffsetFeedbackDeadZone]
	s.FeedbackAnalogSamplesExponent = buf[SettingOffsetFeedbackAnalogSamplesExponent]

	s.SerialMode = SerialMode(buf[SettingOffsetSerialMode])
	s.SerialBaudRate = baudRateFromGenerator(get16(buf, SettingOffsetSerialBaudRateGenerator))
	s.SerialTimeout = uint32(get16(buf, SettingOffsetSerialTimeout)) * SerialTimeoutUnits
	s.SerialDeviceNumber = get16(buf, SettingOffsetSerialDeviceNumber)

	s.ErrorEnable = get16(buf, SettingOffsetErrorEnable)
	s.ErrorLatch = get16(buf, SettingOffsetErrorLatch)
	s.ErrorHard = get16(buf, SettingOffsetErrorHard)
	s.VinCalibration = int16(get16(buf, SettingOffsetVinCalibration))

	s.PWMFrequency = PWMFrequency(buf[SettingOffsetPWMFrequency])
	s.CurrentSamplesExponent = buf[SettingOffsetCurrentSamplesExponent]
	s.HardOvercurrentThreshold = buf[SettingOffsetHardOvercurrentThreshold]
	s.CurrentOffsetCalibration = int16(get16(buf, SettingOffsetCurrentOffsetCalibration))
	s.CurrentScaleCalibration = int16(get16(buf, SettingOffsetCurrentScaleCalibration))

	s.FBTMethod = FBTMethod(buf[SettingOffsetFBTMethod])
	fbtOptions := buf[SettingOffsetFBTOptions]
	s.FBTTimingClock = FBTTimingClock(fbtOptions & fbtOptionsTimingClockMask)
	s.FBTTimingPolarity = fbtOptions&(1<<fbtOptionsTimingPolarity) != 0
	s.FBTTimingTimeout = get16(buf, SettingOffsetFBTTimingTimeout)
	s.FBTSamples = buf[SettingOffsetFBTSamples]
	s.FBTDividerExponent = buf[SettingOffsetFBTDividerExponent]
	s.IntegralDividerExponent = buf[SettingOffsetIntegralDividerExponent]

	s.SoftCurrentRegulationLevelForward = get16(buf, SettingOffsetSoftCurrentRegulationLevelForward)
	s.SoftCurrentRegulationLevelReverse = get16(buf, SettingOffsetSoftCurrentRegulationLevelReverse)

	s.ProportionalMultiplier = get16(buf, SettingOffsetProportionalMultiplier)
	s.ProportionalExponent = buf[SettingOffsetProportionalExponent]
	s.IntegralMultiplier = get16(buf, SettingOffsetIntegralMultiplier)
	s.IntegralExponent = buf[SettingOffsetIntegralExponent]
	s.DerivativeMultiplier = get16(buf, SettingOffsetDerivativeMultiplier)
	s.DerivativeExponent = buf[SettingOffsetDerivativeExponent]
	s.PIDPeriod = get16(buf, SettingOffsetPIDPeriod)
	s.IntegralLimit = get16(buf, SettingOffsetIntegralLimit)

	s.MaxDutyCycleWhileFeedbackOutOfRange = get16(buf, SettingOffsetMaxDutyCycleWhileFeedbackOutOfRange)
	s.MaxAccelerationForward = get16(buf, SettingOffsetMaxAccelerationForward)
	s.MaxAccelerationReverse = get16(buf, SettingOffsetMaxAccelerationReverse)
	s.MaxDecelerationForward = get16(buf, SettingOffsetMaxDecelerationForward)
	s.MaxDecelerationReverse = get16(buf, SettingOffsetMaxDecelerationReverse)
	s.MaxDutyCycleForward = get16(buf, SettingOffsetMaxDutyCycleForward)
	s.MaxDutyCycleReverse = get16(buf, SettingOffsetMaxDutyCycleReverse)
	s.EncodedHardCurrentLimitForward = get16(buf, SettingOffsetEncodedHardCurrentLimitForward)
	s.EncodedHardCurrentLimitReverse = get16(buf, SettingOffsetEncodedHardCurrentLimitReverse)
	s.BrakeDurationForward = uint32(buf[SettingOffsetBrakeDurationForward]) * BrakeDurationUnits
	s.BrakeDurationReverse = uint32(buf[SettingOffsetBrakeDurationReverse]) * BrakeDurationUnits
	s.SoftCurrentLimitForward = get16(buf, SettingOffsetSoftCurrentLimitForward)
	s.SoftCurrentLimitReverse = get16(buf, SettingOffsetSoftCurrentLimitReverse)

	return nil
}

// baudRateToGenerator converts a baud rate to the divisor the device stores.
// Rates outside the supported range produce the nearest supported divisor.
func baudRateToGenerator(baud uint32) uint16 {
	if baud < MinBaudRate {
		baud = MinBaudRate
	}
	if baud > MaxBaudRate {
		baud = MaxBaudRate
	}
	return uint16((baudRateGeneratorClock + baud/2) / baud)
}

// baudRateFromGenerator converts a stored divisor back to a baud rate.
func baudRateFromGenerator(brg uint16) uint32 {
	if brg == 0 {
		return MaxBaudRate
	}
	baud := (baudRateGeneratorClock + uint32(brg)/2) / uint32(brg)
	if baud < MinBaudRate {
		return MinBaudRate
	}
	if baud > MaxBaudRate {
		return MaxBaudRate
	}
	return baud
}

func put16(buf []byte, offset SettingOffset, v uint16) {
	binary.LittleEndian.PutUint16(buf[offset:], v)
}

func get16(buf []byte, offset SettingOffset) uint16 {
	return binary.LittleEndian.Uint16(buf[offset:])
}
