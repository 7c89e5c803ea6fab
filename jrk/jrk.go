// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// I2CAddr is the default I²C address for the Jrk.
const I2CAddr uint16 = 0x0B

// MaxTarget is the highest value SetTarget accepts.
const MaxTarget uint16 = 4095

// Device identifies a discovered Jrk controller. It carries no open I/O
// resource; open a handle with Open or NewI2C to talk to the device.
type Device struct {
	// Product is the controller model.
	Product Product
	// SerialNumber is the device's unique serial number, if known.
	SerialNumber string
	// OSID is the operating system's name for the device, like a port path.
	OSID string
	// FirmwareVersion is the firmware version in binary-coded decimal, like
	// 0x0104 for version 1.04. Zero if unknown.
	FirmwareVersion uint16
}

// FirmwareVersionString renders the firmware version like "1.04", or an
// empty string if the version is unknown.
func (dev Device) FirmwareVersionString() string {
	if dev.FirmwareVersion == 0 {
		return ""
	}
	return fmt.Sprintf("%x.%02x", dev.FirmwareVersion>>8, dev.FirmwareVersion&0xFF)
}

// HandleState is the handle's view of what the motor was last told to do.
// It reflects the commands sent through this handle, not errors the device
// may have latched on its own since.
type HandleState uint8

const (
	// StateIdle means no motor command has been sent yet.
	StateIdle HandleState = iota
	// StateAwaitingCommand means the motor was stopped and will stay off
	// until a target or force command arrives.
	StateAwaitingCommand
	// StateRunning means a target was set and the feedback loop is driving
	// the motor.
	StateRunning
	// StateForcedDutyCycleTarget means the PID-chosen duty cycle target is
	// being overridden.
	StateForcedDutyCycleTarget
	// StateForcedDutyCycle means the duty cycle itself is being overridden.
	StateForcedDutyCycle
	// StateClosed means the handle was closed.
	StateClosed
)

// Dev is an open handle to a Jrk motor controller.
//
// A Dev is not safe for concurrent use: the device's command protocol has
// no multiplexing, so concurrent calls would interleave commands
// non-deterministically. Serialize access externally if needed. After a
// timeout the handle stays valid and the operation may be retried.
type Dev struct {
	c      conn.Conn
	device Device
	state  HandleState
	closed bool
}

// Open returns a handle to a Jrk reachable through the given connection.
//
// The connection's Tx must write the request bytes and then read exactly
// the requested number of response bytes. Open verifies the connection
// with a one-byte variable read.
func Open(c conn.Conn, device Device) (*Dev, error) {
	if !device.Product.Valid() {
		return nil, fmt.Errorf("%w: unrecognized product %d", ErrInvalidValue, device.Product)
	}

	d := Dev{c: c, device: device}

	// Test the connection. Throw away the result.
	if _, err := d.getVar8(VarOffsetDeviceReset); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return &d, nil
}

// NewI2C returns a handle to a Jrk motor controller on an I²C bus.
//
// The default address is jrk.I2CAddr.
func NewI2C(b i2c.Bus, product Product, addr uint16) (*Dev, error) {
	return Open(&i2c.Dev{Bus: b, Addr: addr}, Device{Product: product})
}

// String returns the device name in a readable format.
//
// String implements conn.Resource.
func (d *Dev) String() string {
	return d.device.Product.String()
}

// Halt stops the motor.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	return d.StopMotor()
}

// Device returns the identity of the device this handle is bound to.
func (d *Dev) Device() Device {
	return d.device
}

// FirmwareVersionString renders the firmware version of the bound device,
// like "1.04", or an empty string if the version is unknown.
func (d *Dev) FirmwareVersionString() string {
	return d.device.FirmwareVersionString()
}

// State returns the handle's view of the motor state.
func (d *Dev) State() HandleState {
	return d.state
}

// Close invalidates the handle. Every operation afterwards fails with
// ErrClosed. Close does not stop the motor.
func (d *Dev) Close() error {
	d.closed = true
	d.state = StateClosed
	return nil
}

// SetTarget sets the target, from 0 to 4095, and clears the
// awaiting-command flag. What the target means depends on the feedback
// mode: a position for analog or frequency feedback, a speed mapping for
// no feedback. In serial input mode this also sets the input variable.
func (d *Dev) SetTarget(target uint16) error {
	if target > MaxTarget {
		return fmt.Errorf("%w: target %d is over %d", ErrInvalidValue, target, MaxTarget)
	}
	if d.closed {
		return ErrClosed
	}

	// The low 5 bits of the target ride inside the command byte.
	writeBuf := []byte{
		byte(cmdSetTarget) | byte(target&0x1F),
		byte(target>>5) & 0x7F,
	}
	if err := d.c.Tx(writeBuf, nil); err != nil {
		return err
	}

	d.state = StateRunning
	return nil
}

// SetTargetLowResForward maps magnitude 0 to 127 onto the upper half of
// the target range. With feedback disabled, magnitude 127 is full speed
// forward.
func (d *Dev) SetTargetLowResForward(magnitude uint8) error {
	if magnitude > 127 {
		return fmt.Errorf("%w: magnitude %d is over 127", ErrInvalidValue, magnitude)
	}
	if err := d.commandW7(cmdSetTargetLowResFwd, magnitude); err != nil {
		return err
	}

	d.state = StateRunning
	return nil
}

// SetTargetLowResReverse maps magnitude 0 to 127 onto the lower half of
// the target range. With feedback disabled, magnitude 127 is full speed
// reverse. A magnitude of 0 stops the motor without setting the
// awaiting-command flag.
func (d *Dev) SetTargetLowResReverse(magnitude uint8) error {
	if magnitude > 127 {
		return fmt.Errorf("%w: magnitude %d is over 127", ErrInvalidValue, magnitude)
	}
	if err := d.commandW7(cmdSetTargetLowResRev, magnitude); err != nil {
		return err
	}

	d.state = StateRunning
	return nil
}

// StopMotor stops the motor by setting the latched awaiting-command error
// flag. The motor stays off until a target or force command arrives.
func (d *Dev) StopMotor() error {
	if err := d.commandQuick(cmdMotorOff); err != nil {
		return err
	}

	d.state = StateAwaitingCommand
	return nil
}

// RunMotor clears every latched error, including the awaiting-command
// flag. If no other faults are present the motor resumes driving toward
// its last target.
func (d *Dev) RunMotor() error {
	// Mode 1 clears the awaiting-command flag along with the rest.
	if err := d.commandW7(cmdClearLatchedErrors, 1); err != nil {
		return err
	}

	d.state = StateRunning
	return nil
}

// ClearErrors clears the halting error flags, except the awaiting-command
// flag, and returns the flags as they were before clearing.
func (d *Dev) ClearErrors() (uint16, error) {
	const length = 2
	buffer, err := d.getVarSegment(VarOffsetErrorFlagsHalting, length,
		GetVariablesFlagClearErrorFlagsHalting)
	if err != nil {
		return 0, err
	}

	return uint16(buffer[0]) | uint16(buffer[1])<<8, nil
}

// ForceDutyCycleTarget overrides the duty cycle target chosen by the PID
// loop with a fixed value from -600 to 600 and resets the error integral.
// Motor limits and safety errors still apply.
func (d *Dev) ForceDutyCycleTarget(dutyCycle int16) error {
	if dutyCycle < -MaxAllowedDutyCycle || dutyCycle > MaxAllowedDutyCycle {
		return fmt.Errorf("%w: duty cycle %d is outside -%d to %d",
			ErrInvalidValue, dutyCycle, MaxAllowedDutyCycle, MaxAllowedDutyCycle)
	}
	if err := d.commandWs14(cmdForceDutyCycleTarget, dutyCycle); err != nil {
		return err
	}

	d.state = StateForcedDutyCycleTarget
	return nil
}

// ForceDutyCycle overrides the duty cycle directly with a fixed value from
// -600 to 600, resets the error integral, and takes effect immediately.
// Most safety errors are ignored; only the duty cycle magnitude limits
// still apply.
func (d *Dev) ForceDutyCycle(dutyCycle int16) error {
	if dutyCycle < -MaxAllowedDutyCycle || dutyCycle > MaxAllowedDutyCycle {
		return fmt.Errorf("%w: duty cycle %d is outside -%d to %d",
			ErrInvalidValue, dutyCycle, MaxAllowedDutyCycle, MaxAllowedDutyCycle)
	}
	if err := d.commandWs14(cmdForceDutyCycle, dutyCycle); err != nil {
		return err
	}

	d.state = StateForcedDutyCycle
	return nil
}

// GetVariables fetches and decodes a full snapshot of the runtime
// variables. The flags optionally clear latched error flags or the current
// chopping occurrence count atomically with the same read; pass 0 for a
// plain read.
func (d *Dev) GetVariables(flags uint8) (*Variables, error) {
	buffer, err := d.getVarSegment(0, VariablesSize, flags)
	if err != nil {
		return nil, err
	}

	return DecodeVariables(buffer)
}

// GetVariableSegment reads a raw sub-range of the variables block. Most
// callers want GetVariables instead.
func (d *Dev) GetVariableSegment(offset VarOffset, length uint, flags uint8) ([]byte, error) {
	return d.getVarSegment(offset, length, flags)
}

// GetEEPROMSettings reads all settings from the device's EEPROM.
func (d *Dev) GetEEPROMSettings() (*Settings, error) {
	return d.getSettings(cmdGetEEPROMSettings)
}

// SetEEPROMSettings writes all settings to the device's EEPROM. The
// settings are fixed silently before transmission; call Fix first to
// observe the warnings. The settings only take effect after Reinitialize
// or a reset.
//
// The EEPROM has a limited write endurance, so avoid writing it in a loop.
func (d *Dev) SetEEPROMSettings(s *Settings) error {
	return d.setSettings(cmdSetEEPROMSettings, s)
}

// GetRAMSettings reads the settings currently overriding the EEPROM
// settings in the device's RAM.
func (d *Dev) GetRAMSettings() (*Settings, error) {
	return d.getSettings(cmdGetRAMSettings)
}

// SetRAMSettings overrides settings in the device's RAM without writing
// EEPROM. The settings are fixed silently before transmission; call Fix
// first to observe the warnings.
func (d *Dev) SetRAMSettings(s *Settings) error {
	return d.setSettings(cmdSetRAMSettings, s)
}

// GetEEPROMSettingSegment reads a raw sub-range of the EEPROM settings.
func (d *Dev) GetEEPROMSettingSegment(offset SettingOffset, length uint) ([]byte, error) {
	return d.getSettingSegment(cmdGetEEPROMSettings, offset, length)
}

// SetEEPROMSettingSegment writes a raw sub-range of the EEPROM settings.
func (d *Dev) SetEEPROMSettingSegment(offset SettingOffset, data []byte) error {
	return d.setSettingSegment(cmdSetEEPROMSettings, offset, data)
}

// GetRAMSettingSegment reads a raw sub-range of the RAM settings.
func (d *Dev) GetRAMSettingSegment(offset SettingOffset, length uint) ([]byte, error) {
	return d.getSettingSegment(cmdGetRAMSettings, offset, length)
}

// SetRAMSettingSegment writes a raw sub-range of the RAM settings.
func (d *Dev) SetRAMSettingSegment(offset SettingOffset, data []byte) error {
	return d.setSettingSegment(cmdSetRAMSettings, offset, data)
}

func (d *Dev) getSettings(cmd command) (*Settings, error) {
	buffer, err := d.getSettingSegment(cmd, 0, SettingsSize)
	if err != nil {
		return nil, err
	}

	s := Settings{Product: d.device.Product}
	if err := s.UnmarshalBinary(buffer); err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *Dev) setSettings(cmd command, s *Settings) error {
	// Never transmit out-of-range values; fix a copy so the caller's
	// object is untouched.
	fixed := s.Copy()
	fixed.Product = d.device.Product
	fixed.Fix()

	buffer, err := fixed.MarshalBinary()
	if err != nil {
		return err
	}
	return d.setSettingSegment(cmd, 0, buffer)
}

// RestoreDefaults resets the settings in the device's EEPROM and RAM to
// their factory values.
func (d *Dev) RestoreDefaults() error {
	return d.commandQuick(cmdRestoreDefaults)
}

// Reinitialize makes the device reload its settings from EEPROM. The
// reload happens at the end of the device's next PID cycle, not
// immediately; variables read right after this command can still reflect
// the old settings.
func (d *Dev) Reinitialize() error {
	return d.commandQuick(cmdReinitialize)
}

// StartBootloader puts the device into its USB bootloader for a firmware
// upgrade. The device drops off its normal interfaces, so the handle is
// unlikely to be usable afterwards.
func (d *Dev) StartBootloader() error {
	return d.commandQuick(cmdStartBootloader)
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
