// Command nm is the nm language's CLI: run scripts, inspect lexer/parser
// output, run type inference standalone, or drop into a REPL.
package main

import (
	"os"

	"github.com/nmlang/nm/cmd/nm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
