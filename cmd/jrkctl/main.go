// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// jrkctl configures and drives Pololu Jrk G2 motor controllers over a
// serial port.
package main

import (
	"github.com/GermanBionicSystems/jrk/cmd/jrkctl/cmd"
)

func main() {
	cmd.Execute()
}
