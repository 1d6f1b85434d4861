// Package main is the entry point for the jiyu utility.
package main

import (
	"os"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newApp().rootCmd(versionString()).Execute(); err != nil {
		os.Exit(1)
	}
}
