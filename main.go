// SPDX-License-Identifier: MPL-2.0

// Command urlup updates versioned module URLs in a source file.
package main

import cmd "github.com/urlup-dev/urlup/cmd/urlup"

func main() {
	cmd.Execute()
}
