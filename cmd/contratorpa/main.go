// Command contratorpa fills the contract template from a job workbook and
// assembles the final PDF. Without a subcommand it opens the terminal UI.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
