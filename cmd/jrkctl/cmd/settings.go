// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/GermanBionicSystems/jrk/jrk"
)

var settingsOutput string

var getSettingsCmd = &cobra.Command{
	Use:   "get-settings",
	Short: "Read the device's EEPROM settings",
	Long: `Read all settings from the device's EEPROM and print them in the jrk
settings file format, or write them to a file with --output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, port, err := openDev()
		if err != nil {
			return err
		}
		defer port.Close()

		settings, err := dev.GetEEPROMSettings()
		if err != nil {
			return err
		}

		text := settings.String()
		if settingsOutput == "" {
			fmt.Print(text)
			return nil
		}
		if err := os.WriteFile(settingsOutput, []byte(text), 0o644); err != nil {
			return err
		}
		pterm.Success.Printf("Settings saved to %s\n", settingsOutput)
		return nil
	},
}

var setSettingsCmd = &cobra.Command{
	Use:   "set-settings FILE",
	Short: "Write a settings file to the device's EEPROM",
	Long: `Parse a jrk settings file, repair any out-of-range values, write the
result to the device's EEPROM and reinitialize so it takes effect.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		settings := jrk.ParseSettings(string(text))
		if !settings.Product.Valid() {
			return fmt.Errorf("%s does not name a valid product", args[0])
		}
		for _, w := range settings.Fix() {
			pterm.Warning.Println(w)
		}

		dev, port, err := openDev()
		if err != nil {
			return err
		}
		defer port.Close()

		if err := dev.SetEEPROMSettings(settings); err != nil {
			return err
		}
		if err := dev.Reinitialize(); err != nil {
			return err
		}
		pterm.Success.Println("Settings written and applied.")
		return nil
	},
}

var fixSettingsCmd = &cobra.Command{
	Use:   "fix-settings FILE",
	Short: "Repair a settings file without touching a device",
	Long: `Parse a jrk settings file, repair any out-of-range values, and print
the fixed file, or write it with --output. No device is needed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		settings := jrk.ParseSettings(string(text))
		if !settings.Product.Valid() {
			return fmt.Errorf("%s does not name a valid product", args[0])
		}
		for _, w := range settings.Fix() {
			pterm.Warning.Println(w)
		}

		fixed := settings.String()
		if settingsOutput == "" {
			fmt.Print(fixed)
			return nil
		}
		return os.WriteFile(settingsOutput, []byte(fixed), 0o644)
	},
}

func init() {
	getSettingsCmd.Flags().StringVarP(&settingsOutput, "output", "o", "", "write the settings to a file instead of stdout")
	fixSettingsCmd.Flags().StringVarP(&settingsOutput, "output", "o", "", "write the fixed settings to a file instead of stdout")
	rootCmd.AddCommand(getSettingsCmd)
	rootCmd.AddCommand(setSettingsCmd)
	rootCmd.AddCommand(fixSettingsCmd)
}
