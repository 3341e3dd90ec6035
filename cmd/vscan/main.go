// Command vscan types decoded barcode content as keystrokes.
package main

import (
	"os"

	"github.com/pschichtel/VirtualScanner/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
