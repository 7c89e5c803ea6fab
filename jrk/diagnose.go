// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jrk

// DiagnoseFlags adjust the phrasing of Diagnose.
type DiagnoseFlags uint32

// DiagnoseFeedbackWizard tailors the diagnosis for an interactive feedback
// setup session, where the user is expected to drive the motor manually.
const DiagnoseFeedbackWizard DiagnoseFlags = 1

// serialErrorBits groups every error bit caused by serial communication
// problems.
const serialErrorBits uint16 = 1<<ErrorBitSerialSignal |
	1<<ErrorBitSerialOverrun |
	1<<ErrorBitSerialBufferFull |
	1<<ErrorBitSerialCRC |
	1<<ErrorBitSerialProtocol |
	1<<ErrorBitSerialTimeout

// Diagnose returns a short, friendly sentence saying whether the motor is
// running and why. The checks form a decision table evaluated top to
// bottom; the first matching condition decides the sentence.
//
// The settings and vars arguments should come from the same device. The
// osettings argument may carry the device's RAM override settings and may
// be nil, in which case the persistent settings are used for the checks
// that need them.
func Diagnose(settings, osettings *Settings, vars *Variables, flags DiagnoseFlags) string {
	if settings == nil || vars == nil {
		return "There is no diagnosis available."
	}

	// The override settings are what the firmware actually runs with.
	active := settings
	if osettings != nil {
		active = osettings
	}

	switch {
	case vars.HasError(ErrorBitNoPower):
		return "The motor cannot run because VIN is disconnected or too low."
	case vars.HasError(ErrorBitMotorDriver):
		return "The motor driver reported an error."
	case vars.HasError(ErrorBitHardOvercurrent):
		return "The motor stopped because the hardware current limit was exceeded."
	case vars.HasError(ErrorBitInputInvalid):
		return "The motor is stopped because the input is invalid."
	case vars.HasError(ErrorBitInputDisconnect):
		return "The motor is stopped because the input appears to be disconnected."
	case vars.HasError(ErrorBitFeedbackDisconnect):
		return "The motor is stopped because the feedback appears to be disconnected."
	case vars.HasError(ErrorBitSoftOvercurrent):
		return "The motor stopped because it exceeded the soft current limit."
	case vars.ErrorFlagsHalting()&serialErrorBits != 0:
		return "The motor is stopped because of a serial communication error."
	case vars.HasError(ErrorBitAwaitingCommand):
		if flags&DiagnoseFeedbackWizard != 0 {
			return "You can click and hold the buttons above to drive the motor."
		}
		return "The motor is stopped and waiting for a command."
	case active.FeedbackMode != FeedbackModeNone && pidCoefficientsZero(active):
		return "The PID coefficients are all zero, so the motor will not move on its own."
	case vars.ForceMode() == ForceModeDutyCycleTarget:
		return "A forced duty cycle target is being applied."
	case vars.ForceMode() == ForceModeDutyCycle:
		return "A forced duty cycle is being applied."
	case vars.DutyCycle() == 0:
		return "The motor is stopped."
	default:
		return "The motor is running."
	}
}

func pidCoefficientsZero(s *Settings) bool {
	return s.ProportionalMultiplier == 0 &&
		s.IntegralMultiplier == 0 &&
		s.DerivativeMultiplier == 0
}
