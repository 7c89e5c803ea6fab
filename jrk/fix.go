// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import "fmt"

// Fix validates the settings and repairs every field that is out of range
// or violates a cross-field constraint. Each repair appends one complete
// sentence to the returned slice. Fields are checked in a fixed order and
// Fix is idempotent: fixing already-fixed settings changes nothing and
// returns no warnings.
//
// Fix never fails; the result is always a valid settings object.
func (s *Settings) Fix() []string {
	var warnings []string
	warnf := func(format string, a ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, a...))
	}

	if s.InputMode > InputModeRC {
		s.InputMode = InputModeSerial
		warnf("The input mode was invalid so it will be changed to serial.")
	}

	// The input scaling values must not decrease along the chain from error
	// minimum to error maximum. Later fields are raised to restore order.
	if s.InputMinimum < s.InputErrorMinimum {
		s.InputMinimum = s.InputErrorMinimum
		warnf("The input minimum was less than the input error minimum so it will be raised to %d.", s.InputMinimum)
	}
	if s.InputNeutralMinimum < s.InputMinimum {
		s.InputNeutralMinimum = s.InputMinimum
		warnf("The input neutral minimum was less than the input minimum so it will be raised to %d.", s.InputNeutralMinimum)
	}
	if s.InputNeutralMaximum < s.InputNeutralMinimum {
		s.InputNeutralMaximum = s.InputNeutralMinimum
		warnf("The input neutral maximum was less than the input neutral minimum so it will be raised to %d.", s.InputNeutralMaximum)
	}
	if s.InputMaximum < s.InputNeutralMaximum {
		s.InputMaximum = s.InputNeutralMaximum
		warnf("The input maximum was less than the input neutral maximum so it will be raised to %d.", s.InputMaximum)
	}
	if s.InputErrorMaximum < s.InputMaximum {
		s.InputErrorMaximum = s.InputMaximum
		warnf("The input error maximum was less than the input maximum so it will be raised to %d.", s.InputErrorMaximum)
	}

	if s.OutputMinimum > 4095 {
		s.OutputMinimum = 4095
		warnf("The output minimum was too high so it will be lowered to 4095.")
	}
	if s.OutputNeutral > 4095 {
		s.OutputNeutral = 4095
		warnf("The output neutral was too high so it will be lowered to 4095.")
	}
	if s.OutputMaximum > 4095 {
		s.OutputMaximum = 4095
		warnf("The output maximum was too high so it will be lowered to 4095.")
	}
	if s.OutputNeutral < s.OutputMinimum {
		s.OutputNeutral = s.OutputMinimum
		warnf("The output neutral was less than the output minimum so it will be raised to %d.", s.OutputNeutral)
	}
	if s.OutputMaximum < s.OutputNeutral {
		s.OutputMaximum = s.OutputNeutral
		warnf("The output maximum was less than the output neutral so it will be raised to %d.", s.OutputMaximum)
	}

	if s.InputScalingDegree > InputScalingDegreeQuintic {
		s.InputScalingDegree = InputScalingDegreeLinear
		warnf("The input scaling degree was invalid so it will be changed to linear.")
	}
	if s.InputAnalogSamplesExponent > 10 {
		s.InputAnalogSamplesExponent = 10
		warnf("The input analog samples exponent was too high so it will be lowered to 10.")
	}

	if s.FeedbackMode > FeedbackModeFrequency {
		s.FeedbackMode = FeedbackModeNone
		warnf("The feedback mode was invalid so it will be changed to none.")
	}

	if s.FeedbackMinimum < s.FeedbackErrorMinimum {
		s.FeedbackMinimum = s.FeedbackErrorMinimum
		warnf("The feedback minimum was less than the feedback error minimum so it will be raised to %d.", s.FeedbackMinimum)
	}
	if s.FeedbackMaximum < s.FeedbackMinimum {
		s.FeedbackMaximum = s.FeedbackMinimum
		warnf("The feedback maximum was less than the feedback minimum so it will be raised to %d.", s.FeedbackMaximum)
	}
	if s.FeedbackErrorMaximum < s.FeedbackMaximum {
		s.FeedbackErrorMaximum = s.FeedbackMaximum
		warnf("The feedback error maximum was less than the feedback maximum so it will be raised to %d.", s.FeedbackErrorMaximum)
	}
	if s.FeedbackAnalogSamplesExponent > 10 {
		s.FeedbackAnalogSamplesExponent = 10
		warnf("The feedback analog samples exponent was too high so it will be lowered to 10.")
	}

	if s.SerialMode > SerialModeUART {
		s.SerialMode = SerialModeUSBDualPort
		warnf("The serial mode was invalid so it will be changed to USB dual port.")
	}

	if s.SerialBaudRate < MinBaudRate {
		s.SerialBaudRate = MinBaudRate
		warnf("The serial baud rate was too low so it will be raised to %d.", MinBaudRate)
	}
	if s.SerialBaudRate > MaxBaudRate {
		s.SerialBaudRate = MaxBaudRate
		warnf("The serial baud rate was too high so it will be lowered to %d.", MaxBaudRate)
	}
	// Quietly snap to a rate the baud rate generator can produce.
	s.SerialBaudRate = AchievableBaudRate(s.SerialBaudRate)

	if s.SerialTimeout > MaxSerialTimeout {
		s.SerialTimeout = MaxSerialTimeout
		warnf("The serial timeout was too high so it will be lowered to %d.", uint32(MaxSerialTimeout))
	}
	if s.SerialTimeout%SerialTimeoutUnits != 0 {
		s.SerialTimeout = (s.SerialTimeout + SerialTimeoutUnits/2) /
			SerialTimeoutUnits * SerialTimeoutUnits
		warnf("The serial timeout was not a multiple of %d ms so it will be rounded to %d.", SerialTimeoutUnits, s.SerialTimeout)
	}

	deviceNumberMask := uint16(0x7F)
	if s.SerialEnable14BitDeviceNumber {
		deviceNumberMask = 0x3FFF
	}
	if s.SerialDeviceNumber&^deviceNumberMask != 0 {
		s.SerialDeviceNumber &= deviceNumberMask
		warnf("The serial device number was too high so it will be changed to %d.", s.SerialDeviceNumber)
	}

	if s.ProportionalMultiplier > 1023 {
		s.ProportionalMultiplier = 1023
		warnf("The proportional multiplier was too high so it will be lowered to 1023.")
	}
	if s.ProportionalExponent > 18 {
		s.ProportionalExponent = 18
		warnf("The proportional exponent was too high so it will be lowered to 18.")
	}
	if s.IntegralMultiplier > 1023 {
		s.IntegralMultiplier = 1023
		warnf("The integral multiplier was too high so it will be lowered to 1023.")
	}
	if s.IntegralExponent > 18 {
		s.IntegralExponent = 18
		warnf("The integral exponent was too high so it will be lowered to 18.")
	}
	if s.DerivativeMultiplier > 1023 {
		s.DerivativeMultiplier = 1023
		warnf("The derivative multiplier was too high so it will be lowered to 1023.")
	}
	if s.DerivativeExponent > 18 {
		s.DerivativeExponent = 18
		warnf("The derivative exponent was too high so it will be lowered to 18.")
	}

	if s.PIDPeriod < 1 {
		s.PIDPeriod = 1
		warnf("The PID period was too low so it will be raised to 1.")
	}
	if s.PIDPeriod > 8191 {
		s.PIDPeriod = 8191
		warnf("The PID period was too high so it will be lowered to 8191.")
	}
	if s.IntegralDividerExponent > 15 {
		s.IntegralDividerExponent = 15
		warnf("The integral divider exponent was too high so it will be lowered to 15.")
	}
	if s.IntegralLimit > 0x7FFF {
		s.IntegralLimit = 0x7FFF
		warnf("The integral limit was too high so it will be lowered to 32767.")
	}

	if s.PWMFrequency > PWMFrequency5kHz {
		s.PWMFrequency = PWMFrequency20kHz
		warnf("The PWM frequency was invalid so it will be changed to 20 kHz.")
	}
	if s.CurrentSamplesExponent > 10 {
		s.CurrentSamplesExponent = 10
		warnf("The current samples exponent was too high so it will be lowered to 10.")
	}
	if s.HardOvercurrentThreshold < 1 {
		s.HardOvercurrentThreshold = 1
		warnf("The hard overcurrent threshold was too low so it will be raised to 1.")
	}
	if s.CurrentOffsetCalibration < -800 || s.CurrentOffsetCalibration > 800 {
		s.CurrentOffsetCalibration = clamp16(s.CurrentOffsetCalibration, -800, 800)
		warnf("The current offset calibration was out of range so it will be changed to %d.", s.CurrentOffsetCalibration)
	}
	if s.CurrentScaleCalibration < -1875 || s.CurrentScaleCalibration > 1875 {
		s.CurrentScaleCalibration = clamp16(s.CurrentScaleCalibration, -1875, 1875)
		warnf("The current scale calibration was out of range so it will be changed to %d.", s.CurrentScaleCalibration)
	}

	if s.MaxDutyCycleWhileFeedbackOutOfRange < 1 {
		s.MaxDutyCycleWhileFeedbackOutOfRange = 1
		warnf("The max duty cycle while feedback is out of range was too low so it will be raised to 1.")
	}
	if s.MaxDutyCycleWhileFeedbackOutOfRange > MaxAllowedDutyCycle {
		s.MaxDutyCycleWhileFeedbackOutOfRange = MaxAllowedDutyCycle
		warnf("The max duty cycle while feedback is out of range was too high so it will be lowered to %d.", MaxAllowedDutyCycle)
	}
	fixAccel := func(v *uint16, name string) {
		if *v < 1 {
			*v = 1
			warnf("The %s was too low so it will be raised to 1.", name)
		}
		if *v > MaxAllowedDutyCycle {
			*v = MaxAllowedDutyCycle
			warnf("The %s was too high so it will be lowered to %d.", name, MaxAllowedDutyCycle)
		}
	}
	fixAccel(&s.MaxAccelerationForward, "max acceleration forward")
	fixAccel(&s.MaxAccelerationReverse, "max acceleration reverse")
	fixAccel(&s.MaxDecelerationForward, "max deceleration forward")
	fixAccel(&s.MaxDecelerationReverse, "max deceleration reverse")
	if s.MaxDutyCycleForward > MaxAllowedDutyCycle {
		s.MaxDutyCycleForward = MaxAllowedDutyCycle
		warnf("The max duty cycle forward was too high so it will be lowered to %d.", MaxAllowedDutyCycle)
	}
	if s.MaxDutyCycleReverse > MaxAllowedDutyCycle {
		s.MaxDutyCycleReverse = MaxAllowedDutyCycle
		warnf("The max duty cycle reverse was too high so it will be lowered to %d.", MaxAllowedDutyCycle)
	}

	// Replace unrecommended hard current limit codes with the closest
	// recommended code at or below the same current.
	if codes := RecommendedEncodedHardCurrentLimits(s.Product); len(codes) > 0 {
		if !isRecommendedCode(codes, s.EncodedHardCurrentLimitForward) {
			ma := HardCurrentLimitDecode(s.Product, s.EncodedHardCurrentLimitForward)
			s.EncodedHardCurrentLimitForward = HardCurrentLimitEncode(s.Product, ma)
			warnf("The encoded hard current limit forward was not a recommended code so it will be changed to %d.", s.EncodedHardCurrentLimitForward)
		}
		if !isRecommendedCode(codes, s.EncodedHardCurrentLimitReverse) {
			ma := HardCurrentLimitDecode(s.Product, s.EncodedHardCurrentLimitReverse)
			s.EncodedHardCurrentLimitReverse = HardCurrentLimitEncode(s.Product, ma)
			warnf("The encoded hard current limit reverse was not a recommended code so it will be changed to %d.", s.EncodedHardCurrentLimitReverse)
		}
	}

	fixBrakeDuration := func(v *uint32, name string) {
		if *v > MaxBrakeDuration {
			*v = MaxBrakeDuration
			warnf("The %s was too high so it will be lowered to %d.", name, uint32(MaxBrakeDuration))
		}
		if *v%BrakeDurationUnits != 0 {
			*v = (*v + BrakeDurationUnits/2) / BrakeDurationUnits * BrakeDurationUnits
			warnf("The %s was not a multiple of %d ms so it will be rounded to %d.", name, BrakeDurationUnits, *v)
		}
	}
	fixBrakeDuration(&s.BrakeDurationForward, "brake duration forward")
	fixBrakeDuration(&s.BrakeDurationReverse, "brake duration reverse")

	if invalid := s.ErrorEnable &^ errorFlagsAll; invalid != 0 {
		s.ErrorEnable &= errorFlagsAll
		warnf("The error enable flags had invalid bits set so they will be cleared.")
	}
	if invalid := s.ErrorLatch &^ errorFlagsAll; invalid != 0 {
		s.ErrorLatch &= errorFlagsAll
		warnf("The error latch flags had invalid bits set so they will be cleared.")
	}
	if invalid := s.ErrorHard &^ errorFlagsAll; invalid != 0 {
		s.ErrorHard &= errorFlagsAll
		warnf("The error hard flags had invalid bits set so they will be cleared.")
	}

	if s.VinCalibration < -500 || s.VinCalibration > 500 {
		s.VinCalibration = clamp16(s.VinCalibration, -500, 500)
		warnf("The VIN calibration was out of range so it will be changed to %d.", s.VinCalibration)
	}

	if s.FBTMethod > FBTMethodTiming {
		s.FBTMethod = FBTMethodCounting
		warnf("The FBT measurement method was invalid so it will be changed to counting.")
	}
	if s.FBTTimingClock > FBTTimingClock48MHz {
		s.FBTTimingClock = FBTTimingClock12MHz
		warnf("The FBT timing clock was invalid so it will be changed to 12 MHz.")
	}
	if s.FBTTimingTimeout < 1 {
		s.FBTTimingTimeout = 100
		warnf("The FBT timing timeout was too low so it will be changed to 100.")
	}
	if s.FBTTimingTimeout > 60000 {
		s.FBTTimingTimeout = 60000
		warnf("The FBT timing timeout was too high so it will be lowered to 60000.")
	}
	if s.FBTSamples < 1 {
		s.FBTSamples = 1
		warnf("The FBT sample count was too low so it will be raised to 1.")
	}
	if s.FBTSamples > 32 {
		s.FBTSamples = 32
		warnf("The FBT sample count was too high so it will be lowered to 32.")
	}
	if s.FBTDividerExponent > 15 {
		s.FBTDividerExponent = 15
		warnf("The FBT divider exponent was too high so it will be lowered to 15.")
	}

	return warnings
}

func clamp16(v, min, max int16) int16 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func isRecommendedCode(codes []uint16, code uint16) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
