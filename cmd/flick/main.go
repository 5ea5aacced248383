// Package main is the entry point for the flick launcher.
package main

import (
	"os"

	"github.com/runger/flick/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
