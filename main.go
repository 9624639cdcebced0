package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running scribble: %v\n", err)
		os.Exit(1)
	}
}
