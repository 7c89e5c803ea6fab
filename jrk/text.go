// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import (
	"strconv"
	"strings"
)

// settingsFileURL is printed in the header of every settings file.
const settingsFileURL = "https://www.pololu.com/docs/0J73"

// settingsField describes one line of the settings file format: its key,
// an optional product gate and the value codec. The fields table below
// fixes the canonical order of the file.
type settingsField struct {
	key    string
	gate   func(Product) bool
	format func(*Settings) string
	parse  func(*Settings, string) bool
}

func boolField(key string, get func(*Settings) *bool) settingsField {
	return settingsField{
		key: key,
		format: func(s *Settings) string {
			return strconv.FormatBool(*get(s))
		},
		parse: func(s *Settings, v string) bool {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return false
			}
			*get(s) = b
			return true
		},
	}
}

func u8Field(key string, get func(*Settings) *uint8) settingsField {
	return settingsField{
		key: key,
		format: func(s *Settings) string {
			return strconv.FormatUint(uint64(*get(s)), 10)
		},
		parse: func(s *Settings, v string) bool {
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil {
				return false
			}
			*get(s) = uint8(n)
			return true
		},
	}
}

func u16Field(key string, get func(*Settings) *uint16) settingsField {
	return settingsField{
		key: key,
		format: func(s *Settings) string {
			return strconv.FormatUint(uint64(*get(s)), 10)
		},
		parse: func(s *Settings, v string) bool {
			n, err := strconv.ParseUint(v, 10, 16)
			if err != nil {
				return false
			}
			*get(s) = uint16(n)
			return true
		},
	}
}

func u32Field(key string, get func(*Settings) *uint32) settingsField {
	return settingsField{
		key: key,
		format: func(s *Settings) string {
			return strconv.FormatUint(uint64(*get(s)), 10)
		},
		parse: func(s *Settings, v string) bool {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return false
			}
			*get(s) = uint32(n)
			return true
		},
	}
}

func i16Field(key string, get func(*Settings) *int16) settingsField {
	return settingsField{
		key: key,
		format: func(s *Settings) string {
			return strconv.FormatInt(int64(*get(s)), 10)
		},
		parse: func(s *Settings, v string) bool {
			n, err := strconv.ParseInt(v, 10, 16)
			if err != nil {
				return false
			}
			*get(s) = int16(n)
			return true
		},
	}
}

// enumField renders the field via a code to name table and parses it back
// through the table's inverse.
func enumField(key string, names map[uint8]string, get func(*Settings) *uint8) settingsField {
	return settingsField{
		key: key,
		format: func(s *Settings) string {
			if name, ok := names[*get(s)]; ok {
				return name
			}
			return strconv.FormatUint(uint64(*get(s)), 10)
		},
		parse: func(s *Settings, v string) bool {
			for code, name := range names {
				if name == v {
					*get(s) = code
					return true
				}
			}
			return false
		},
	}
}

func gated(f settingsField, gate func(Product) bool) settingsField {
	f.gate = gate
	return f
}

func notUMC06A(p Product) bool { return p != ProductUMC06A }
func onlyUMC06A(p Product) bool { return p == ProductUMC06A }

// genericNames converts one of the typed name tables to the form enumField
// wants.
func genericNames(m interface{}) map[uint8]string {
	out := map[uint8]string{}
	switch t := m.(type) {
	case map[InputMode]string:
		for k, v := range t {
			out[uint8(k)] = v
		}
	case map[InputScalingDegree]string:
		for k, v := range t {
			out[uint8(k)] = v
		}
	case map[FeedbackMode]string:
		for k, v := range t {
			out[uint8(k)] = v
		}
	case map[SerialMode]string:
		for k, v := range t {
			out[uint8(k)] = v
		}
	case map[PWMFrequency]string:
		for k, v := range t {
			out[uint8(k)] = v
		}
	case map[FBTMethod]string:
		for k, v := range t {
			out[uint8(k)] = v
		}
	case map[FBTTimingClock]string:
		for k, v := range t {
			out[uint8(k)] = v
		}
	}
	return out
}

// settingsFields lists every settings file line after the product line, in
// canonical order.
var settingsFields = []settingsField{
	enumField("input_mode", genericNames(inputModeNames),
		func(s *Settings) *uint8 { return (*uint8)(&s.InputMode) }),
	u16Field("input_error_minimum", func(s *Settings) *uint16 { return &s.InputErrorMinimum }),
	u16Field("input_error_maximum", func(s *Settings) *uint16 { return &s.InputErrorMaximum }),
	u16Field("input_minimum", func(s *Settings) *uint16 { return &s.InputMinimum }),
	u16Field("input_maximum", func(s *Settings) *uint16 { return &s.InputMaximum }),
	u16Field("input_neutral_minimum", func(s *Settings) *uint16 { return &s.InputNeutralMinimum }),
	u16Field("input_neutral_maximum", func(s *Settings) *uint16 { return &s.InputNeutralMaximum }),
	u16Field("output_minimum", func(s *Settings) *uint16 { return &s.OutputMinimum }),
	u16Field("output_neutral", func(s *Settings) *uint16 { return &s.OutputNeutral }),
	u16Field("output_maximum", func(s *Settings) *uint16 { return &s.OutputMaximum }),
	boolField("input_invert", func(s *Settings) *bool { return &s.InputInvert }),
	enumField("input_scaling_degree", genericNames(inputScalingDegreeNames),
		func(s *Settings) *uint8 { return (*uint8)(&s.InputScalingDegree) }),
	boolField("input_detect_disconnect", func(s *Settings) *bool { return &s.InputDetectDisconnect }),
	u8Field("input_analog_samples_exponent", func(s *Settings) *uint8 { return &s.InputAnalogSamplesExponent }),
	enumField("feedback_mode", genericNames(feedbackModeNames),
		func(s *Settings) *uint8 { return (*uint8)(&s.FeedbackMode) }),
	u16Field("feedback_error_minimum", func(s *Settings) *uint16 { return &s.FeedbackErrorMinimum }),
	u16Field("feedback_error_maximum", func(s *Settings) *uint16 { return &s.FeedbackErrorMaximum }),
	u16Field("feedback_minimum", func(s *Settings) *uint16 { return &s.FeedbackMinimum }),
	u16Field("feedback_maximum", func(s *Settings) *uint16 { return &s.FeedbackMaximum }),
	boolField("feedback_invert", func(s *Settings) *bool { return &s.FeedbackInvert }),
	boolField("feedback_detect_disconnect", func(s *Settings) *bool { return &s.FeedbackDetectDisconnect }),
	u8Field("feedback_dead_zone", func(s *Settings) *uint8 { return &s.FeedbackDeadZone }),
	u8Field("feedback_analog_samples_exponent", func(s *Settings) *uint8 { return &s.FeedbackAnalogSamplesExponent }),
	boolField("feedback_wraparound", func(s *Settings) *bool { return &s.FeedbackWraparound }),
	enumField("serial_mode", genericNames(serialModeNames),
		func(s *Settings) *uint8 { return (*uint8)(&s.SerialMode) }),
	u32Field("serial_baud_rate", func(s *Settings) *uint32 { return &s.SerialBaudRate }),
	u32Field("serial_timeout", func(s *Settings) *uint32 { return &s.SerialTimeout }),
	u16Field("serial_device_number", func(s *Settings) *uint16 { return &s.SerialDeviceNumber }),
	boolField("never_sleep", func(s *Settings) *bool { return &s.NeverSleep }),
	boolField("serial_enable_crc", func(s *Settings) *bool { return &s.SerialEnableCRC }),
	boolField("serial_enable_14bit_device_number", func(s *Settings) *bool { return &s.SerialEnable14BitDeviceNumber }),
	boolField("serial_disable_compact_protocol", func(s *Settings) *bool { return &s.SerialDisableCompactProtocol }),
	u16Field("proportional_multiplier", func(s *Settings) *uint16 { return &s.ProportionalMultiplier }),
	u8Field("proportional_exponent", func(s *Settings) *uint8 { return &s.ProportionalExponent }),
	u16Field("integral_multiplier", func(s *Settings) *uint16 { return &s.IntegralMultiplier }),
	u8Field("integral_exponent", func(s *Settings) *uint8 { return &s.IntegralExponent }),
	u16Field("derivative_multiplier", func(s *Settings) *uint16 { return &s.DerivativeMultiplier }),
	u8Field("derivative_exponent", func(s *Settings) *uint8 { return &s.DerivativeExponent }),
	u16Field("pid_period", func(s *Settings) *uint16 { return &s.PIDPeriod }),
	u8Field("integral_divider_exponent", func(s *Settings) *uint8 { return &s.IntegralDividerExponent }),
	u16Field("integral_limit", func(s *Settings) *uint16 { return &s.IntegralLimit }),
	boolField("reset_integral", func(s *Settings) *bool { return &s.ResetIntegral }),
	enumField("pwm_frequency", genericNames(pwmFrequencyNames),
		func(s *Settings) *uint8 { return (*uint8)(&s.PWMFrequency) }),
	u8Field("current_samples_exponent", func(s *Settings) *uint8 { return &s.CurrentSamplesExponent }),
	gated(u8Field("hard_overcurrent_threshold", func(s *Settings) *uint8 { return &s.HardOvercurrentThreshold }), notUMC06A),
	i16Field("current_offset_calibration", func(s *Settings) *int16 { return &s.CurrentOffsetCalibration }),
	i16Field("current_scale_calibration", func(s *Settings) *int16 { return &s.CurrentScaleCalibration }),
	boolField("motor_invert", func(s *Settings) *bool { return &s.MotorInvert }),
	u16Field("max_duty_cycle_while_feedback_out_of_range", func(s *Settings) *uint16 { return &s.MaxDutyCycleWhileFeedbackOutOfRange }),
	u16Field("max_acceleration_forward", func(s *Settings) *uint16 { return &s.MaxAccelerationForward }),
	u16Field("max_acceleration_reverse", func(s *Settings) *uint16 { return &s.MaxAccelerationReverse }),
	u16Field("max_deceleration_forward", func(s *Settings) *uint16 { return &s.MaxDecelerationForward }),
	u16Field("max_deceleration_reverse", func(s *Settings) *uint16 { return &s.MaxDecelerationReverse }),
	u16Field("max_duty_cycle_forward", func(s *Settings) *uint16 { return &s.MaxDutyCycleForward }),
	u16Field("max_duty_cycle_reverse", func(s *Settings) *uint16 { return &s.MaxDutyCycleReverse }),
	gated(u16Field("encoded_hard_current_limit_forward", func(s *Settings) *uint16 { return &s.EncodedHardCurrentLimitForward }), notUMC06A),
	gated(u16Field("encoded_hard_current_limit_reverse", func(s *Settings) *uint16 { return &s.EncodedHardCurrentLimitReverse }), notUMC06A),
	u32Field("brake_duration_forward", func(s *Settings) *uint32 { return &s.BrakeDurationForward }),
	u32Field("brake_duration_reverse", func(s *Settings) *uint32 { return &s.BrakeDurationReverse }),
	u16Field("soft_current_limit_forward", func(s *Settings) *uint16 { return &s.SoftCurrentLimitForward }),
	u16Field("soft_current_limit_reverse", func(s *Settings) *uint16 { return &s.SoftCurrentLimitReverse }),
	gated(u16Field("soft_current_regulation_level_forward", func(s *Settings) *uint16 { return &s.SoftCurrentRegulationLevelForward }), onlyUMC06A),
	gated(u16Field("soft_current_regulation_level_reverse", func(s *Settings) *uint16 { return &s.SoftCurrentRegulationLevelReverse }), onlyUMC06A),
	boolField("coast_when_off", func(s *Settings) *bool { return &s.CoastWhenOff }),
	u16Field("error_enable", func(s *Settings) *uint16 { return &s.ErrorEnable }),
	u16Field("error_latch", func(s *Settings) *uint16 { return &s.ErrorLatch }),
	u16Field("error_hard", func(s *Settings) *uint16 { return &s.ErrorHard }),
	i16Field("vin_calibration", func(s *Settings) *int16 { return &s.VinCalibration }),
	boolField("disable_i2c_pullups", func(s *Settings) *bool { return &s.DisableI2CPullups }),
	boolField("analog_sda_pullup", func(s *Settings) *bool { return &s.AnalogSDAPullup }),
	boolField("always_analog_sda", func(s *Settings) *bool { return &s.AlwaysAnalogSDA }),
	boolField("always_analog_fba", func(s *Settings) *bool { return &s.AlwaysAnalogFBA }),
	enumField("fbt_method", genericNames(fbtMethodNames),
		func(s *Settings) *uint8 { return (*uint8)(&s.FBTMethod) }),
	enumField("fbt_timing_clock", genericNames(fbtTimingClockNames),
		func(s *Settings) *uint8 { return (*uint8)(&s.FBTTimingClock) }),
	boolField("fbt_timing_polarity", func(s *Settings) *bool { return &s.FBTTimingPolarity }),
	u16Field("fbt_timing_timeout", func(s *Settings) *uint16 { return &s.FBTTimingTimeout }),
	u8Field("fbt_samples", func(s *Settings) *uint8 { return &s.FBTSamples }),
	u8Field("fbt_divider_exponent", func(s *Settings) *uint8 { return &s.FBTDividerExponent }),
}

// String renders the settings in the jrk settings file format: comment
// header lines, then the product, then one "key: value" line per field in
// canonical order. Fields not applicable to the product are omitted.
func (s *Settings) String() string {
	var b strings.Builder
	b.WriteString("# Pololu jrk settings file.\n")
	b.WriteString("# " + settingsFileURL + "\n")
	b.WriteString("product: " + productNamesShort[s.Product] + "\n")

	for _, f := range settingsFields {
		if f.gate != nil && !f.gate(s.Product) {
			continue
		}
		b.WriteString(f.key + ": " + f.format(s) + "\n")
	}
	return b.String()
}

// ParseSettings parses the jrk settings file format produced by String.
//
// Unknown keys are ignored, and so is a value that does not parse for its
// field; the field keeps its previous value, which for a fresh object is
// the zero value. The result may still violate range or cross-field
// constraints, so callers normally run Fix on it afterwards.
func ParseSettings(text string) *Settings {
	s := NewSettings()

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		key := strings.TrimSpace(line[:i])
		value := strings.TrimSpace(line[i+1:])

		if key == "product" {
			if p, ok := ProductFromShortName(value); ok {
				s.Product = p
			}
			continue
		}

		for _, f := range settingsFields {
			if f.key == key {
				f.parse(s, value)
				break
			}
		}
	}
	return s
}
