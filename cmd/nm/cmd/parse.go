package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nmlang/nm/pkg/nm"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the parsed AST for a script",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	block, err := nm.ParseFile(args[0])
	if err != nil {
		printDiagnostic(err)
		return fmt.Errorf("parse failed")
	}
	fmt.Println(block.String())
	return nil
}
