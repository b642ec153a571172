package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/nmlang/nm/internal/config"
	"github.com/nmlang/nm/pkg/nm"
)

var (
	replGreen = color.New(color.FgGreen).SprintFunc()
	replRed   = color.New(color.FgRed).SprintFunc()
	replDim   = color.New(color.Faint).SprintFunc()
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive nm session",
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		cfg = config.Default()
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	if f, err := os.Open(cfg.Repl.HistoryFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	it := nm.NewSession(".")
	it.Eval.Output = os.Stdout
	defer it.Close()

	fmt.Println(replDim("nm REPL. Ctrl-D to exit."))

	for {
		input, err := line.Prompt(cfg.Repl.Prompt)
		if err == io.EOF {
			fmt.Println(replGreen("\nbye"))
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, replRed("error:"), err)
			continue
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		v, err := it.RunSource(input, nm.NewAnonymousSourceID())
		if err != nil {
			printDiagnostic(err)
			continue
		}
		fmt.Println(v.String())
	}

	if f, err := os.Create(cfg.Repl.HistoryFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
	return nil
}
