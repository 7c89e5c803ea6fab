// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import "errors"

var (
	// ErrConnectionFailed is returned when the driver fails to connect.
	ErrConnectionFailed = errors.New("failed to connect to Jrk")

	// ErrInvalidValue is returned when an argument is outside the range the
	// device accepts.
	ErrInvalidValue = errors.New("invalid value")

	// ErrClosed is returned when a handle is used after Close.
	ErrClosed = errors.New("handle is closed")

	// ErrTimeout is returned when the transport does not deliver a full
	// response in time. The handle remains usable; callers may retry.
	ErrTimeout = errors.New("timeout")

	// ErrAccessDenied is returned when the OS refuses access to the port.
	ErrAccessDenied = errors.New("access denied")

	// ErrDisconnected is returned when the device was unplugged or the port
	// went away mid-operation.
	ErrDisconnected = errors.New("device disconnected")

	// ErrShortBuffer is returned when a raw buffer is too small to decode.
	ErrShortBuffer = errors.New("buffer too short")
)
