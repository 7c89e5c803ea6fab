// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var targetCmd = &cobra.Command{
	Use:   "target VALUE",
	Short: "Set the target, from 0 to 4095",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid target %q", args[0])
		}

		dev, port, err := openDev()
		if err != nil {
			return err
		}
		defer port.Close()

		if err := dev.SetTarget(uint16(target)); err != nil {
			return err
		}
		pterm.Success.Printf("Target set to %d.\n", target)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the motor until a new command arrives",
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, port, err := openDev()
		if err != nil {
			return err
		}
		defer port.Close()

		if err := dev.StopMotor(); err != nil {
			return err
		}
		pterm.Success.Println("Motor stopped.")
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Clear latched errors and let the motor run",
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, port, err := openDev()
		if err != nil {
			return err
		}
		defer port.Close()

		if err := dev.RunMotor(); err != nil {
			return err
		}
		pterm.Success.Println("Motor running.")
		return nil
	},
}

func parseDutyCycle(arg string) (int16, error) {
	dc, err := strconv.ParseInt(arg, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid duty cycle %q", arg)
	}
	return int16(dc), nil
}

var forceDutyCycleTargetCmd = &cobra.Command{
	Use:   "force-duty-cycle-target VALUE",
	Short: "Override the duty cycle target, from -600 to 600",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dc, err := parseDutyCycle(args[0])
		if err != nil {
			return err
		}

		dev, port, err := openDev()
		if err != nil {
			return err
		}
		defer port.Close()

		if err := dev.ForceDutyCycleTarget(dc); err != nil {
			return err
		}
		pterm.Success.Printf("Duty cycle target forced to %d.\n", dc)
		return nil
	},
}

var forceDutyCycleCmd = &cobra.Command{
	Use:   "force-duty-cycle VALUE",
	Short: "Override the duty cycle directly, from -600 to 600",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dc, err := parseDutyCycle(args[0])
		if err != nil {
			return err
		}

		dev, port, err := openDev()
		if err != nil {
			return err
		}
		defer port.Close()

		if err := dev.ForceDutyCycle(dc); err != nil {
			return err
		}
		pterm.Success.Printf("Duty cycle forced to %d.\n", dc)
		return nil
	},
}

var clearErrorsCmd = &cobra.Command{
	Use:   "clear-errors",
	Short: "Clear the latched error flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, port, err := openDev()
		if err != nil {
			return err
		}
		defer port.Close()

		flags, err := dev.ClearErrors()
		if err != nil {
			return err
		}
		pterm.Success.Printf("Errors cleared, flags were %#04x.\n", flags)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(forceDutyCycleTargetCmd)
	rootCmd.AddCommand(forceDutyCycleCmd)
	rootCmd.AddCommand(clearErrorsCmd)
}
