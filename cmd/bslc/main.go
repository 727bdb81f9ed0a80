// Command bslc is a small CLI for the BSL shader front-end: it can dump
// the token stream, dump the parsed AST, run the full check pipeline, or
// drop into an interactive REPL.
package main

import (
	"fmt"
	"os"

	"github.com/garfr/bsl/cmd/bslc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
