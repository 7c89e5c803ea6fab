// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

// Product identifies a specific Jrk G2 controller model. The zero value
// means the product is not known yet.
type Product uint8

const (
	ProductUnknown  Product = 0
	ProductUMC04A30 Product = 1 // Jrk G2 18v19
	ProductUMC04A40 Product = 2 // Jrk G2 24v13
	ProductUMC05A30 Product = 3 // Jrk G2 18v27
	ProductUMC05A40 Product = 4 // Jrk G2 24v21
	ProductUMC06A   Product = 5 // Jrk G2 21v3
)

// Valid reports whether p is one of the recognized Jrk G2 models.
func (p Product) Valid() bool {
	return p >= ProductUMC04A30 && p <= ProductUMC06A
}

// String returns the marketing name of the product, like "Jrk G2 18v19".
func (p Product) String() string {
	if name, ok := productNames[p]; ok {
		return name
	}
	return "unknown"
}

// InputMode describes where the Jrk gets its input, which it scales into a
// target value for the feedback loop.
type InputMode uint8

const (
	// InputModeSerial means the input is set by serial, I²C or USB commands.
	InputModeSerial InputMode = 0
	// InputModeAnalog means the input is read from the SDA/AN pin.
	InputModeAnalog InputMode = 1
	// InputModeRC means the input is an RC pulse width on the RC pin.
	InputModeRC InputMode = 2
)

// InputScalingDegree describes the polynomial degree used to scale the
// input into a target.
type InputScalingDegree uint8

const (
	InputScalingDegreeLinear    InputScalingDegree = 0
	InputScalingDegreeQuadratic InputScalingDegree = 1
	InputScalingDegreeCubic     InputScalingDegree = 2
	InputScalingDegreeQuartic   InputScalingDegree = 3
	InputScalingDegreeQuintic   InputScalingDegree = 4
)

// FeedbackMode describes where the Jrk gets the feedback it compares to the
// target.
type FeedbackMode uint8

const (
	// FeedbackModeNone disables the PID loop; the target maps directly to a
	// duty cycle (open-loop speed control).
	FeedbackModeNone FeedbackMode = 0
	// FeedbackModeAnalog reads feedback from the FBA pin.
	FeedbackModeAnalog FeedbackMode = 1
	// FeedbackModeFrequency counts rising edges on the FBT pin.
	FeedbackModeFrequency FeedbackMode = 2
)

// SerialMode describes how the Jrk's serial interface is routed.
type SerialMode uint8

const (
	SerialModeUSBDualPort SerialMode = 0
	SerialModeUSBChained  SerialMode = 1
	SerialModeUART        SerialMode = 2
)

// PWMFrequency describes the frequency of the motor drive PWM.
type PWMFrequency uint8

const (
	PWMFrequency20kHz PWMFrequency = 0
	PWMFrequency5kHz  PWMFrequency = 1
)

// FBTMethod describes how the FBT pin is measured in frequency feedback
// mode.
type FBTMethod uint8

const (
	FBTMethodCounting FBTMethod = 0
	FBTMethodTiming   FBTMethod = 1
)

// FBTTimingClock describes the clock speed used for pulse timing on the FBT
// pin.
type FBTTimingClock uint8

const (
	FBTTimingClock1_5MHz FBTTimingClock = 0
	FBTTimingClock3MHz   FBTTimingClock = 1
	FBTTimingClock6MHz   FBTTimingClock = 2
	FBTTimingClock12MHz  FBTTimingClock = 3
	FBTTimingClock24MHz  FBTTimingClock = 4
	FBTTimingClock48MHz  FBTTimingClock = 5
)

// Serial baud rate limits. The baud rate generator divides a 12 MHz clock,
// so not every rate in between is achievable; see AchievableBaudRate.
const (
	MinBaudRate = 2400
	MaxBaudRate = 115200

	baudRateGeneratorClock = 12000000
)

// SerialTimeoutUnits is the granularity of the serial timeout setting in
// milliseconds.
const SerialTimeoutUnits = 10

// MaxSerialTimeout is the largest serial timeout in milliseconds.
const MaxSerialTimeout = 655350

// BrakeDurationUnits is the granularity of the brake duration settings in
// milliseconds.
const BrakeDurationUnits = 5

// MaxBrakeDuration is the largest brake duration in milliseconds.
const MaxBrakeDuration = 1275

// MaxAllowedDutyCycle is the magnitude of a full duty cycle.
const MaxAllowedDutyCycle = 600

// Settings holds every persistent setting of a Jrk G2. Settings are plain
// data: they can be copied by assignment and compared with ==.
//
// Field values are stored raw; out-of-range values are only detected and
// repaired by Fix.
type Settings struct {
	Product Product

	InputMode                  InputMode
	InputErrorMinimum          uint16
	InputErrorMaximum          uint16
	InputMinimum               uint16
	InputMaximum               uint16
	InputNeutralMinimum        uint16
	InputNeutralMaximum        uint16
	OutputMinimum              uint16
	OutputNeutral              uint16
	OutputMaximum              uint16
	InputInvert                bool
	InputScalingDegree         InputScalingDegree
	InputDetectDisconnect      bool
	InputAnalogSamplesExponent uint8

	FeedbackMode                  FeedbackMode
	FeedbackErrorMinimum          uint16
	FeedbackErrorMaximum          uint16
	FeedbackMinimum               uint16
	FeedbackMaximum               uint16
	FeedbackInvert                bool
	FeedbackDetectDisconnect      bool
	FeedbackDeadZone              uint8
	FeedbackAnalogSamplesExponent uint8
	FeedbackWraparound            bool

	SerialMode                    SerialMode
	SerialBaudRate                uint32
	SerialTimeout                 uint32 // milliseconds
	SerialDeviceNumber            uint16
	NeverSleep                    bool
	SerialEnableCRC               bool
	SerialEnable14BitDeviceNumber bool
	SerialDisableCompactProtocol  bool

	ProportionalMultiplier  uint16
	ProportionalExponent    uint8
	IntegralMultiplier      uint16
	IntegralExponent        uint8
	DerivativeMultiplier    uint16
	DerivativeExponent      uint8
	PIDPeriod               uint16
	IntegralDividerExponent uint8
	IntegralLimit           uint16
	ResetIntegral           bool

	PWMFrequency             PWMFrequency
	CurrentSamplesExponent   uint8
	HardOvercurrentThreshold uint8
	CurrentOffsetCalibration int16
	CurrentScaleCalibration  int16
	MotorInvert              bool

	MaxDutyCycleWhileFeedbackOutOfRange uint16
	MaxAccelerationForward              uint16
	MaxAccelerationReverse              uint16
	MaxDecelerationForward              uint16
	MaxDecelerationReverse              uint16
	MaxDutyCycleForward                 uint16
	MaxDutyCycleReverse                 uint16
	EncodedHardCurrentLimitForward      uint16
	EncodedHardCurrentLimitReverse      uint16
	BrakeDurationForward                uint32 // milliseconds
	BrakeDurationReverse                uint32 // milliseconds
	SoftCurrentLimitForward             uint16 // milliamps
	SoftCurrentLimitReverse             uint16 // milliamps
	SoftCurrentRegulationLevelForward   uint16 // milliamps
	SoftCurrentRegulationLevelReverse   uint16 // milliamps

	CoastWhenOff bool
	ErrorEnable  uint16
	ErrorLatch   uint16
	ErrorHard    uint16

	VinCalibration int16

	DisableI2CPullups bool
	AnalogSDAPullup   bool
	AlwaysAnalogSDA   bool
	AlwaysAnalogFBA   bool

	FBTMethod          FBTMethod
	FBTTimingClock     FBTTimingClock
	FBTTimingPolarity  bool
	FBTTimingTimeout   uint16
	FBTSamples         uint8
	FBTDividerExponent uint8
}

// NewSettings returns a zeroed settings object with the product unset.
func NewSettings() *Settings {
	return &Settings{}
}

// FillWithDefaults overwrites every field with the factory default for the
// settings' product. If the product is unset or unrecognized this is a
// no-op; callers should set Product first.
func (s *Settings) FillWithDefaults() {
	if !s.Product.Valid() {
		return
	}

	product := s.Product
	*s = Settings{
		Product: product,

		InputMode:                  InputModeSerial,
		InputErrorMinimum:          0,
		InputErrorMaximum:          4095,
		InputMinimum:               0,
		InputMaximum:               4095,
		InputNeutralMinimum:        2048,
		InputNeutralMaximum:        2048,
		OutputMinimum:              0,
		OutputNeutral:              2048,
		OutputMaximum:              4095,
		InputScalingDegree:         InputScalingDegreeLinear,
		InputAnalogSamplesExponent: 7,

		FeedbackMode:                  FeedbackModeNone,
		FeedbackErrorMinimum:          0,
		FeedbackErrorMaximum:          4095,
		FeedbackMinimum:               0,
		FeedbackMaximum:               4095,
		FeedbackDeadZone:              0,
		FeedbackAnalogSamplesExponent: 5,

		SerialMode:         SerialModeUSBDualPort,
		SerialBaudRate:     9600,
		SerialTimeout:      0,
		SerialDeviceNumber: 11,

		PIDPeriod:     10,
		IntegralLimit: 1000,

		PWMFrequency:             PWMFrequency20kHz,
		CurrentSamplesExponent:   7,
		HardOvercurrentThreshold: 1,

		MaxDutyCycleWhileFeedbackOutOfRange: 600,
		MaxAccelerationForward:              600,
		MaxAccelerationReverse:              600,
		MaxDecelerationForward:              600,
		MaxDecelerationReverse:              600,
		MaxDutyCycleForward:                 600,
		MaxDutyCycleReverse:                 600,
		EncodedHardCurrentLimitForward:      defaultEncodedHardCurrentLimit(product),
		EncodedHardCurrentLimitReverse:      defaultEncodedHardCurrentLimit(product),

		FBTMethod:        FBTMethodCounting,
		FBTTimingClock:   FBTTimingClock12MHz,
		FBTTimingTimeout: 100,
		FBTSamples:       1,
	}
}

// defaultEncodedHardCurrentLimit returns the factory default hard current
// limit code, which allows the hardware maximum.
func defaultEncodedHardCurrentLimit(p Product) uint16 {
	if p == ProductUMC06A || !p.Valid() {
		// The umc06a regulates current in milliamps instead of using
		// encoded limits.
		return 0
	}
	return 31 // full-scale reference, highest DAC level
}

// Copy returns a deep copy of the settings. Settings contain no references,
// so this is a plain value copy.
func (s *Settings) Copy() *Settings {
	c := *s
	return &c
}

// AchievableBaudRate converts a desired baud rate to the nearest rate the
// Jrk can actually produce with its 16-bit baud rate generator.
func AchievableBaudRate(baud uint32) uint32 {
	if baud < MinBaudRate {
		baud = MinBaudRate
	}
	if baud > MaxBaudRate {
		baud = MaxBaudRate
	}

	// Round to the nearest divisor, then back to a baud rate.
	brg := (baudRateGeneratorClock + baud/2) / baud
	baud = (baudRateGeneratorClock + brg/2) / brg
	if baud > MaxBaudRate {
		baud = MaxBaudRate
	}
	return baud
}
