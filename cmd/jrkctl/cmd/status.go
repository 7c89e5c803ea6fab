// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/GermanBionicSystems/jrk/jrk"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the device's runtime state",
	Long: `Read the runtime variables and the active settings from the device and
show a diagnosis of what the motor is doing along with the key values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, port, err := openDev()
		if err != nil {
			return err
		}
		defer port.Close()

		vars, err := dev.GetVariables(0)
		if err != nil {
			return err
		}
		settings, err := dev.GetEEPROMSettings()
		if err != nil {
			return err
		}
		osettings, err := dev.GetRAMSettings()
		if err != nil {
			return err
		}

		pterm.Info.Println(jrk.Diagnose(settings, osettings, vars, 0))

		data := pterm.TableData{
			{"Variable", "Value"},
			{"Input", strconv.Itoa(int(vars.Input()))},
			{"Target", strconv.Itoa(int(vars.Target()))},
			{"Feedback", strconv.Itoa(int(vars.Feedback()))},
			{"Scaled feedback", strconv.Itoa(int(vars.ScaledFeedback()))},
			{"Error", strconv.Itoa(int(vars.Error()))},
			{"Duty cycle target", strconv.Itoa(int(vars.DutyCycleTarget()))},
			{"Duty cycle", strconv.Itoa(int(vars.DutyCycle()))},
			{"Current", jrk.CalculateMeasuredCurrent(osettings, vars).String()},
			{"VIN voltage", vars.VinVoltage().String()},
			{"PID period count", strconv.Itoa(int(vars.PIDPeriodCount()))},
			{"Up time", vars.UpTime().String()},
			{"Error flags halting", fmt.Sprintf("%#04x", vars.ErrorFlagsHalting())},
			{"Errors occurred", fmt.Sprintf("%#04x", vars.ErrorFlagsOccurred())},
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
