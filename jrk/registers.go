// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

import (
	"encoding/binary"
)

// VarOffset addresses a field inside the Jrk's variables block. See the
// "Variable reference" section of the Jrk G2 user's guide for details.
type VarOffset uint8

const (
	VarOffsetInput                           VarOffset = 0x00 // uint16
	VarOffsetTarget                          VarOffset = 0x02 // uint16
	VarOffsetFeedback                        VarOffset = 0x04 // uint16
	VarOffsetScaledFeedback                  VarOffset = 0x06 // uint16
	VarOffsetIntegral                        VarOffset = 0x08 // int16
	VarOffsetDutyCycleTarget                 VarOffset = 0x0A // int16
	VarOffsetDutyCycle                       VarOffset = 0x0C // int16
	VarOffsetCurrentLowRes                   VarOffset = 0x0E // uint8
	VarOffsetPIDPeriodExceeded               VarOffset = 0x0F // uint8, bit 0
	VarOffsetPIDPeriodCount                  VarOffset = 0x10 // uint16
	VarOffsetErrorFlagsHalting               VarOffset = 0x12 // uint16
	VarOffsetErrorFlagsOccurred              VarOffset = 0x14 // uint16
	VarOffsetFlagByte1                       VarOffset = 0x16 // uint8
	VarOffsetVinVoltage                      VarOffset = 0x17 // uint16
	VarOffsetCurrent                         VarOffset = 0x19 // uint16
	VarOffsetDeviceReset                     VarOffset = 0x1F // uint8
	VarOffsetUpTime                          VarOffset = 0x20 // uint32
	VarOffsetRCPulseWidth                    VarOffset = 0x24 // uint16
	VarOffsetFBTReading                      VarOffset = 0x26 // uint16
	VarOffsetAnalogReadingSDA                VarOffset = 0x28 // uint16
	VarOffsetAnalogReadingFBA                VarOffset = 0x2A // uint16
	VarOffsetDigitalReadings                 VarOffset = 0x2C // uint8
	VarOffsetRawCurrent                      VarOffset = 0x2D // uint16
	VarOffsetEncodedHardCurrentLimit         VarOffset = 0x2F // uint16
	VarOffsetLastDutyCycle                   VarOffset = 0x31 // int16
	VarOffsetCurrentChoppingConsecutiveCount VarOffset = 0x33 // uint8
	VarOffsetCurrentChoppingOccurrenceCount  VarOffset = 0x34 // uint8
)

// VariablesSize is the size of the variables block in bytes.
const VariablesSize = 0x35

// SettingOffset addresses a field inside the Jrk's settings memory, both
// EEPROM and the RAM override copy. See the "Settings reference" section of
// the Jrk G2 user's guide for details.
type SettingOffset uint8

const (
	SettingOffsetOptionsByte1                        SettingOffset = 0x01 // uint8
	SettingOffsetOptionsByte2                        SettingOffset = 0x02 // uint8
	SettingOffsetInputMode                           SettingOffset = 0x03 // uint8
	SettingOffsetInputErrorMinimum                   SettingOffset = 0x04 // uint16
	SettingOffsetInputErrorMaximum                   SettingOffset = 0x06 // uint16
	SettingOffsetInputMinimum                        SettingOffset = 0x08 // uint16
	SettingOffsetInputMaximum                        SettingOffset = 0x0A // uint16
	SettingOffsetInputNeutralMinimum                 SettingOffset = 0x0C // uint16
	SettingOffsetInputNeutralMaximum                 SettingOffset = 0x0E // uint16
	SettingOffsetOutputMinimum                       SettingOffset = 0x10 // uint16
	SettingOffsetOutputNeutral                       SettingOffset = 0x12 // uint16
	SettingOffsetOutputMaximum                       SettingOffset = 0x14 // uint16
	SettingOffsetInputScalingDegree                  SettingOffset = 0x16 // uint8
	SettingOffsetInputAnalogSamplesExponent          SettingOffset = 0x17 // uint8
	SettingOffsetFeedbackMode                        SettingOffset = 0x18 // uint8
	SettingOffsetFeedbackErrorMinimum                SettingOffset = 0x19 // uint16
	SettingOffsetFeedbackErrorMaximum                SettingOffset = 0x1B // uint16
	SettingOffsetFeedbackMinimum                     SettingOffset = 0x1D // uint16
	SettingOffsetFeedbackMaximum                     SettingOffset = 0x1F // uint16
	SettingOffsetFeedbackDeadZone                    SettingOffset = 0x21 // uint8
	SettingOffsetFeedbackAnalogSamplesExponent       SettingOffset = 0x22 // uint8
	SettingOffsetSerialMode                          SettingOffset = 0x23 // uint8
	SettingOffsetSerialBaudRateGenerator             SettingOffset = 0x24 // uint16
	SettingOffsetSerialTimeout                       SettingOffset = 0x26 // uint16
	SettingOffsetSerialDeviceNumber                  SettingOffset = 0x28 // uint16
	SettingOffsetErrorEnable                         SettingOffset = 0x2A // uint16
	SettingOffsetErrorLatch                          SettingOffset = 0x2C // uint16
	SettingOffsetErrorHard                           SettingOffset = 0x2E // uint16
	SettingOffsetVinCalibration                      SettingOffset = 0x30 // int16
	SettingOffsetPWMFrequency                        SettingOffset = 0x32 // uint8
	SettingOffsetCurrentSamplesExponent              SettingOffset = 0x33 // uint8
	SettingOffsetHardOvercurrentThreshold            SettingOffset = 0x34 // uint8
	SettingOffsetCurrentOffsetCalibration            SettingOffset = 0x35 // int16
	SettingOffsetCurrentScaleCalibration             SettingOffset = 0x37 // int16
	SettingOffsetFBTMethod                           SettingOffset = 0x39 // uint8
	SettingOffsetFBTOptions                          SettingOffset = 0x3A // uint8
	SettingOffsetFBTTimingTimeout                    SettingOffset = 0x3B // uint16
	SettingOffsetFBTSamples                          SettingOffset = 0x3D // uint8
	SettingOffsetFBTDividerExponent                  SettingOffset = 0x3E // uint8
	SettingOffsetIntegralDividerExponent             SettingOffset = 0x3F // uint8
	SettingOffsetSoftCurrentRegulationLevelForward   SettingOffset = 0x40 // uint16
	SettingOffsetSoftCurrentRegulationLevelReverse   SettingOffset = 0x42 // uint16
	SettingOffsetOptionsByte3                        SettingOffset = 0x50 // uint8
	SettingOffsetProportionalMultiplier              SettingOffset = 0x51 // uint16
	SettingOffsetProportionalExponent                SettingOffset = 0x53 // uint8
	SettingOffsetIntegralMultiplier                  SettingOffset = 0x54 // uint16
	SettingOffsetIntegralExponent                    SettingOffset = 0x56 // uint8
	SettingOffsetDerivativeMultiplier                SettingOffset = 0x57 // uint16
	SettingOffsetDerivativeExponent                  SettingOffset = 0x59 // uint8
	SettingOffsetPIDPeriod                           SettingOffset = 0x5A // uint16
	SettingOffsetIntegralLimit                       SettingOffset = 0x5C // uint16
	SettingOffsetMaxDutyCycleWhileFeedbackOutOfRange SettingOffset = 0x5E // uint16
	SettingOffsetMaxAccelerationForward              SettingOffset = 0x60 // uint16
	SettingOffsetMaxAccelerationReverse              SettingOffset = 0x62 // uint16
	SettingOffsetMaxDecelerationForward              SettingOffset = 0x64 // uint16
	SettingOffsetMaxDecelerationReverse              SettingOffset = 0x66 // uint16
	SettingOffsetMaxDutyCycleForward                 SettingOffset = 0x68 // uint16
	SettingOffsetMaxDutyCycleReverse                 SettingOffset = 0x6A // uint16
	SettingOffsetEncodedHardCurrentLimitForward      SettingOffset = 0x6C // uint16
	SettingOffsetEncodedHardCurrentLimitReverse      SettingOffset = 0x6E // uint16
	SettingOffsetBrakeDurationForward                SettingOffset = 0x70 // uint8
	SettingOffsetBrakeDurationReverse                SettingOffset = 0x71 // uint8
	SettingOffsetSoftCurrentLimitForward             SettingOffset = 0x72 // uint16
	SettingOffsetSoftCurrentLimitReverse             SettingOffset = 0x74 // uint16
)

// SettingsSize is the size of the settings block in bytes.
const SettingsSize = 0x76

// Bits in options byte 1.
const (
	optionsByte1NeverSleep                    = 0
	optionsByte1SerialEnableCRC               = 1
	optionsByte1SerialEnable14BitDeviceNumber = 2
	optionsByte1SerialDisableCompactProtocol  = 3
)

// Bits in options byte 2.
const (
	optionsByte2InputInvert              = 0
	optionsByte2InputDetectDisconnect    = 1
	optionsByte2FeedbackInvert           = 2
	optionsByte2FeedbackDetectDisconnect = 3
	optionsByte2FeedbackWraparound       = 4
	optionsByte2CoastWhenOff             = 5
	optionsByte2ResetIntegral            = 6
	optionsByte2MotorInvert              = 7
)

// Bits in options byte 3.
const (
	optionsByte3DisableI2CPullups = 0
	optionsByte3AnalogSDAPullup   = 1
	optionsByte3AlwaysAnalogSDA   = 2
	optionsByte3AlwaysAnalogFBA   = 3
)

// Bits in the FBT options byte. The low three bits hold the timing clock
// code and bit 3 holds the timing polarity.
const (
	fbtOptionsTimingClockMask = 0x07
	fbtOptionsTimingPolarity  = 3
)

// command represents Jrk command codes, shared between the I²C and serial
// interfaces. See the "Command reference" section of the Jrk G2 user's guide
// for details.
type command uint8

const (
	cmdSetTarget            command = 0xC0
	cmdSetTargetLowResRev   command = 0xE0
	cmdSetTargetLowResFwd   command = 0xE1
	cmdGetEEPROMSettings    command = 0xE3
	cmdGetVariables         command = 0xE5
	cmdSetRAMSettings       command = 0xE6
	cmdSetEEPROMSettings    command = 0xE8
	cmdGetRAMSettings       command = 0xEA
	cmdForceDutyCycleTarget command = 0xF2
	cmdForceDutyCycle       command = 0xF4
	cmdMotorOff             command = 0xFF
	cmdClearLatchedErrors   command = 0xB3
	cmdRestoreDefaults      command = 0xB6
	cmdReinitialize         command = 0xB8
	cmdStartBootloader      command = 0xBA
)

// Flag bits accepted by the "Get variables" command. They request clearing
// device-side state as a side effect of the same read.
const (
	// GetVariablesFlagClearErrorFlagsHalting clears the halting error flags,
	// except the awaiting-command bit.
	GetVariablesFlagClearErrorFlagsHalting uint8 = 1 << 0
	// GetVariablesFlagClearErrorFlagsOccurred clears the record of errors
	// that have occurred.
	GetVariablesFlagClearErrorFlagsOccurred uint8 = 1 << 1
	// GetVariablesFlagClearCurrentChoppingOccurrenceCount clears the current
	// chopping occurrence count.
	GetVariablesFlagClearCurrentChoppingOccurrenceCount uint8 = 1 << 2
)

// getVarSegment reads length bytes of the variables block starting at
// offset. The flags optionally clear device-side state atomically with the
// read.
func (d *Dev) getVarSegment(offset VarOffset, length uint, flags uint8) ([]byte, error) {
	if d.closed {
		return nil, ErrClosed
	}

	writeBuf := []byte{byte(cmdGetVariables), byte(offset), byte(length), flags}
	if err := d.c.Tx(writeBuf, nil); err != nil {
		return nil, err
	}

	readBuf := make([]byte, length)
	err := d.c.Tx(nil, readBuf)
	return readBuf, err
}

// getVar8 reads an 8 bit variable at a given offset.
func (d *Dev) getVar8(offset VarOffset) (uint8, error) {
	const length = 1
	buffer, err := d.getVarSegment(offset, length, 0)
	if err != nil {
		return 0, err
	}

	return buffer[0], nil
}

// getVar16 reads a 16 bit variable at a given offset.
func (d *Dev) getVar16(offset VarOffset) (uint16, error) {
	const length = 2
	buffer, err := d.getVarSegment(offset, length, 0)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(buffer), nil
}

// getVar32 reads a 32 bit variable at a given offset.
func (d *Dev) getVar32(offset VarOffset) (uint32, error) {
	const length = 4
	buffer, err := d.getVarSegment(offset, length, 0)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(buffer), nil
}

// commandQuick sends a command without additional data.
func (d *Dev) commandQuick(cmd command) error {
	if d.closed {
		return ErrClosed
	}

	writeBuf := []byte{uint8(cmd)}
	err := d.c.Tx(writeBuf, nil)
	return err
}

// commandW7 sends a command with a 7 bit value. The MSB of val is ignored.
func (d *Dev) commandW7(cmd command, val uint8) error {
	if d.closed {
		return ErrClosed
	}

	writeBuf := []byte{byte(cmd), val & 0x7F}
	err := d.c.Tx(writeBuf, nil)
	return err
}

// commandWs14 sends a command with a signed 14 bit value split across two
// 7 bit payload bytes.
func (d *Dev) commandWs14(cmd command, val int16) error {
	if d.closed {
		return ErrClosed
	}

	v := uint16(val) & 0x3FFF
	writeBuf := []byte{byte(cmd), byte(v & 0x7F), byte((v >> 7) & 0x7F)}
	err := d.c.Tx(writeBuf, nil)
	return err
}

// getSettingSegment reads length bytes of the settings block starting at
// offset, from EEPROM or from the RAM override copy.
func (d *Dev) getSettingSegment(cmd command, offset SettingOffset, length uint) ([]byte, error) {
	if d.closed {
		return nil, ErrClosed
	}

	writeBuf := []byte{byte(cmd), byte(offset), byte(length)}
	if err := d.c.Tx(writeBuf, nil); err != nil {
		return nil, err
	}

	readBuf := make([]byte, length)
	err := d.c.Tx(nil, readBuf)
	return readBuf, err
}

// setSettingSegment writes data to the settings block starting at offset.
func (d *Dev) setSettingSegment(cmd command, offset SettingOffset, data []byte) error {
	if d.closed {
		return ErrClosed
	}

	writeBuf := make([]byte, 0, 3+len(data))
	writeBuf = append(writeBuf, byte(cmd), byte(offset), byte(len(data)))
	writeBuf = append(writeBuf, data...)
	return d.c.Tx(writeBuf, nil)
}
