// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package jrkg2 is a container for Pololu Jrk G2 motor controller support.
//
// The jrk package models the controller's settings and runtime variables
// and drives it over any conn.Conn; jrkserial adapts a serial port into
// one. The jrkctl command under cmd wraps both.
package jrkg2
