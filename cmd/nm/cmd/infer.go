package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nmlang/nm/pkg/nm"
)

var inferCmd = &cobra.Command{
	Use:   "infer <file>",
	Short: "Run type inference over a script and print the program's type",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfer,
}

func init() {
	rootCmd.AddCommand(inferCmd)
}

func runInfer(_ *cobra.Command, args []string) error {
	block, err := nm.ParseFile(args[0])
	if err != nil {
		printDiagnostic(err)
		return fmt.Errorf("parse failed")
	}
	t, err := nm.Infer(block)
	if err != nil {
		fmt.Println("inference failed:", err)
		return nil // non-fatal per spec: inference failure never blocks evaluation
	}
	fmt.Println(t.String())
	return nil
}
