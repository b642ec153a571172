package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information, set by build flags at release time.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "nm",
	Short: "nm interpreter",
	Long: `nm is a small dynamically-typed scripting language with an
optional Hindley-Milner type inferencer running alongside the evaluator
rather than in front of it.`,
	Version: Version,
}

// Execute runs the root command and returns any error it produced; main
// maps a non-nil error to a nonzero exit status.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
