// Package main is the entry point for the specdeck command line tool.
package main

import (
	"os"

	"github.com/pkordes/specdeck/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
