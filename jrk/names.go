// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

// Code to name tables for the enumerated settings, as used in settings
// files. The tables are never mutated at runtime.

var productNames = map[Product]string{
	ProductUMC04A30: "Jrk G2 18v19",
	ProductUMC04A40: "Jrk G2 24v13",
	ProductUMC05A30: "Jrk G2 18v27",
	ProductUMC05A40: "Jrk G2 24v21",
	ProductUMC06A:   "Jrk G2 21v3",
}

var productNamesShort = map[Product]string{
	ProductUMC04A30: "18v19",
	ProductUMC04A40: "24v13",
	ProductUMC05A30: "18v27",
	ProductUMC05A40: "24v21",
	ProductUMC06A:   "21v3",
}

var inputModeNames = map[InputMode]string{
	InputModeSerial: "serial",
	InputModeAnalog: "analog",
	InputModeRC:     "rc",
}

var inputScalingDegreeNames = map[InputScalingDegree]string{
	InputScalingDegreeLinear:    "linear",
	InputScalingDegreeQuadratic: "quadratic",
	InputScalingDegreeCubic:     "cubic",
	InputScalingDegreeQuartic:   "quartic",
	InputScalingDegreeQuintic:   "quintic",
}

var feedbackModeNames = map[FeedbackMode]string{
	FeedbackModeNone:      "none",
	FeedbackModeAnalog:    "analog",
	FeedbackModeFrequency: "frequency",
}

var serialModeNames = map[SerialMode]string{
	SerialModeUSBDualPort: "usb_dual_port",
	SerialModeUSBChained:  "usb_chained",
	SerialModeUART:        "uart",
}

var pwmFrequencyNames = map[PWMFrequency]string{
	PWMFrequency20kHz: "20",
	PWMFrequency5kHz:  "5",
}

var fbtMethodNames = map[FBTMethod]string{
	FBTMethodCounting: "counting",
	FBTMethodTiming:   "timing",
}

var fbtTimingClockNames = map[FBTTimingClock]string{
	FBTTimingClock1_5MHz: "1.5",
	FBTTimingClock3MHz:   "3",
	FBTTimingClock6MHz:   "6",
	FBTTimingClock12MHz:  "12",
	FBTTimingClock24MHz:  "24",
	FBTTimingClock48MHz:  "48",
}

// ShortProductName returns the name used for the product in settings
// files, like "18v19", or an empty string for unrecognized products.
func ShortProductName(p Product) string {
	return productNamesShort[p]
}

// ProductFromShortName is the inverse of ShortProductName. The second
// return value reports whether the name was recognized.
func ProductFromShortName(name string) (Product, bool) {
	for p, n := range productNamesShort {
		if n == name {
			return p, true
		}
	}
	return ProductUnknown, false
}
