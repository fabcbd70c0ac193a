// Package main provides the entry point for usercache.
//
// usercache runs concurrent workers against a single lock-guarded hash map
// and reports whether every write survived.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/usercache-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
