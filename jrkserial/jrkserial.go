// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package jrkserial exposes a serial port as a conn.Conn suitable for
// jrk.Open, for Jrk G2 controllers wired over UART or a USB virtual serial
// port.
//
// The adapter speaks the Pololu binary command protocol: each Tx writes the
// command bytes, optionally followed by a CRC-7 byte when the device has
// CRC checking enabled, then reads the expected number of response bytes.
//
// # Datasheet
//
// https://www.pololu.com/docs/0J73
package jrkserial

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
	"periph.io/x/conn/v3"

	"github.com/GermanBionicSystems/jrk/jrk"
)

// Opts holds the configuration for a serial connection.
type Opts struct {
	// EnableCRC appends a CRC-7 byte to every command. The device must have
	// its serial_enable_crc setting on, or it will reject the commands.
	EnableCRC bool
	// Timeout bounds how long a single Tx waits for response bytes. Zero
	// means DefaultOpts.Timeout.
	Timeout time.Duration
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Timeout: time.Second,
}

// serialPort is the part of serial.Port the adapter uses. Tests substitute
// a fake.
type serialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(time.Duration) error
}

// Port is an open serial connection to a Jrk, implementing conn.Conn.
//
// Like the device handle it feeds, a Port is not safe for concurrent use.
type Port struct {
	p       serialPort
	name    string
	crc     bool
	timeout time.Duration
	closed  bool
}

// Open opens a serial port by OS name, like "/dev/ttyACM0" or "COM5", at
// the given baud rate. The baud rate must match the device's
// serial_baud_rate setting when wired over UART; the USB virtual port
// ignores it. A nil opts uses DefaultOpts.
func Open(portName string, baud int, opts *Opts) (*Port, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultOpts.Timeout
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("jrkserial: open %s: %w", portName, portErr(err))
	}

	return &Port{
		p:       p,
		name:    portName,
		crc:     opts.EnableCRC,
		timeout: timeout,
	}, nil
}

// String returns the OS name of the port.
//
// String implements conn.Conn.
func (p *Port) String() string {
	return p.name
}

// Duplex implements conn.Conn. Commands and responses take turns on the
// wire, so the connection is half duplex.
func (p *Port) Duplex() conn.Duplex {
	return conn.Half
}

// Tx writes the command bytes in w, then reads exactly len(r) response
// bytes. Either slice may be empty. A response that does not arrive within
// the configured timeout fails with jrk.ErrTimeout; the port stays usable
// and the operation may be retried.
//
// Tx implements conn.Conn.
func (p *Port) Tx(w, r []byte) error {
	if p.closed {
		return jrk.ErrClosed
	}

	if len(w) != 0 {
		buf := w
		if p.crc {
			buf = make([]byte, 0, len(w)+1)
			buf = append(buf, w...)
			buf = append(buf, CRC7(w))
		}
		if _, err := p.p.Write(buf); err != nil {
			return fmt.Errorf("jrkserial: write: %w", portErr(err))
		}
	}

	if len(r) != 0 {
		if err := p.p.SetReadTimeout(p.timeout); err != nil {
			return fmt.Errorf("jrkserial: %w", portErr(err))
		}
		deadline := time.Now().Add(p.timeout)
		for got := 0; got < len(r); {
			n, err := p.p.Read(r[got:])
			if err != nil {
				return fmt.Errorf("jrkserial: read: %w", portErr(err))
			}
			got += n
			// The serial library reports a read timeout as a zero-length
			// read with no error.
			if n == 0 || (got < len(r) && !time.Now().Before(deadline)) {
				return fmt.Errorf("jrkserial: %w: read %d of %d response bytes",
					jrk.ErrTimeout, got, len(r))
			}
		}
	}

	return nil
}

// Close closes the underlying serial port. Afterwards every Tx fails with
// jrk.ErrClosed.
func (p *Port) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.p.Close(); err != nil {
		return fmt.Errorf("jrkserial: close: %w", portErr(err))
	}
	return nil
}

// portErr maps serial library errors onto the jrk sentinel errors so
// callers can test them with errors.Is.
func portErr(err error) error {
	if pe, ok := err.(*serial.PortError); ok {
		switch pe.Code() {
		case serial.PortNotFound, serial.PortClosed:
			return fmt.Errorf("%w: %w", jrk.ErrDisconnected, err)
		case serial.PermissionDenied, serial.PortBusy:
			return fmt.Errorf("%w: %w", jrk.ErrAccessDenied, err)
		}
	}
	if err == io.EOF {
		return fmt.Errorf("%w: %w", jrk.ErrDisconnected, err)
	}
	return err
}

var _ conn.Conn = &Port{}
