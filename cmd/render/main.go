// Package main provides the posprint-render CLI. It renders document
// contexts against receipt schemas without the HTTP service or a database.
package main

import (
	"fmt"
	"os"
)

// Version information (populated at build time)
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
