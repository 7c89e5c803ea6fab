// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/GermanBionicSystems/jrk/jrk"
	"github.com/GermanBionicSystems/jrk/jrkserial"
)

var rootCmd = &cobra.Command{
	Use:   "jrkctl",
	Short: "Configure and drive Pololu Jrk G2 motor controllers",
	Long: `jrkctl talks to a Jrk G2 motor controller over a serial port: read and
write its settings, inspect its runtime state, and send motor commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

var (
	comPort     string
	baudRate    int
	productName string
	enableCRC   bool
	timeout     time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&comPort, "port", "p", "", "serial port, like /dev/ttyACM0 or COM5")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baudrate", "b", 9600, "baud rate for UART-wired devices")
	rootCmd.PersistentFlags().StringVar(&productName, "product", "18v19", "product model: 18v19, 24v13, 18v27, 24v21 or 21v3")
	rootCmd.PersistentFlags().BoolVar(&enableCRC, "crc", false, "append CRC bytes to commands")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Second, "per-command response timeout")
}

// openDev opens the configured serial port and verifies a Jrk is on the
// other end. USB serial ports can take a moment to appear after plugging
// in, so the open is retried briefly.
func openDev() (*jrk.Dev, *jrkserial.Port, error) {
	if comPort == "" {
		return nil, nil, fmt.Errorf("no serial port given, use --port")
	}
	product, ok := jrk.ProductFromShortName(productName)
	if !ok {
		return nil, nil, fmt.Errorf("unrecognized product %q", productName)
	}

	var port *jrkserial.Port
	err := retry.Do(
		func() error {
			var err error
			port, err = jrkserial.Open(comPort, baudRate, &jrkserial.Opts{
				EnableCRC: enableCRC,
				Timeout:   timeout,
			})
			return err
		},
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
	)
	if err != nil {
		return nil, nil, err
	}

	dev, err := jrk.Open(port, jrk.Device{Product: product})
	if err != nil {
		port.Close()
		return nil, nil, err
	}
	return dev, port, nil
}
