// Package main is the entry point for the fedcat CLI binary.
package main

import (
	"os"

	cli "fedcat/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
