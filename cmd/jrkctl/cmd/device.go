// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var restoreDefaultsCmd = &cobra.Command{
	Use:   "restore-defaults",
	Short: "Reset the device's settings to factory defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, port, err := openDev()
		if err != nil {
			return err
		}
		defer port.Close()

		if err := dev.RestoreDefaults(); err != nil {
			return err
		}
		pterm.Success.Println("Factory defaults restored.")
		return nil
	},
}

var reinitializeCmd = &cobra.Command{
	Use:   "reinitialize",
	Short: "Reload the settings from EEPROM",
	Long: `Make the device reload its settings from EEPROM, dropping any RAM
overrides. The reload happens at the end of the device's next PID cycle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, port, err := openDev()
		if err != nil {
			return err
		}
		defer port.Close()

		if err := dev.Reinitialize(); err != nil {
			return err
		}
		pterm.Success.Println("Device reinitialized.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(restoreDefaultsCmd)
	rootCmd.AddCommand(reinitializeCmd)
}
