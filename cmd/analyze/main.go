package main

import (
	"os"
)

func main() {
	// Execute the root command. Cobra prints the error itself.
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
