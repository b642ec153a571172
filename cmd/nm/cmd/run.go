package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nmlang/nm/internal/nmerr"
	"github.com/nmlang/nm/pkg/nm"
)

var (
	evalExpr    string
	searchPaths []string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an nm script",
	Long: `Execute an nm program from a file or an inline expression.

Examples:
  nm run script.nm
  nm run -e "print 1 + 2, n;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading a file")
	runCmd.Flags().StringSliceVar(&searchPaths, "search", nil, "directory `use` resolves module names against instead of the script's own (only the first value is used)")
}

func runScript(_ *cobra.Command, args []string) error {
	var source, sourceID, dir string
	if evalExpr != "" {
		source = evalExpr
		sourceID = "<eval>"
	} else if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		source = string(data)
		sourceID = args[0]
		dir = filepath.Dir(args[0])
	} else {
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	if len(searchPaths) > 0 {
		dir = searchPaths[0]
	}
	it := nm.NewSession(dir)
	it.Eval.Output = os.Stdout
	defer it.Close()

	_, err := it.RunSource(source, sourceID)
	if err != nil {
		printDiagnostic(err)
		return fmt.Errorf("execution failed")
	}
	return nil
}

func printDiagnostic(err error) {
	colorize := color.NoColor == false
	if d, ok := err.(*nmerr.Diagnostic); ok {
		fmt.Fprintln(os.Stderr, d.Format(colorize))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
