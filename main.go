// Package main is the entry point for the storj command-line client.
package main

import (
	"storj/cli/cmd"
)

func main() {
	cmd.Execute()
}
