// Package main provides the entry point for the sniff CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/sniff/cmd/sniff/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
