// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package jrk interfaces with Jrk G2 Motor Controllers.
//
// The package covers the controller's persistent settings (with validation,
// binary and text serialization), its runtime variables, derived quantities
// such as hard current limits and measured current, and the command protocol
// used to control the motor over I²C or serial.
//
// # More Details
//
// See https://www.pololu.com/category/95/jrk-motor-controllers-with-feedback
// for more details about the device range.
//
// # Product Pages
//
// Jrk G2 18v19: https://www.pololu.com/product/3142
//
// Jrk G2 24v13: https://www.pololu.com/product/3143
//
// Jrk G2 18v27: https://www.pololu.com/product/3144
//
// Jrk G2 24v21: https://www.pololu.com/product/3146
//
// Jrk G2 21v3: https://www.pololu.com/product/3148
package jrk
