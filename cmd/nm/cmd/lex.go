package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nmlang/nm/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Print the token stream for a script",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	head, err := lexer.Tokenize(string(data), args[0])
	if err != nil {
		return err
	}
	for s := head; s != nil; s = s.Next() {
		fmt.Printf("%-12s %-8q %s\n", s.Kind, s.Literal, s.Pos)
	}
	return nil
}
