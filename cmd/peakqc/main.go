// peakqc - internal standard peak-area quality check
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/peakqc/cmd/peakqc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
