package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "bslc",
	Short: "BSL shader front-end: lex, parse and resolve shader source",
	Long: `bslc is a small compiler front-end for BSL, a shading language with a
C-like procedure/record surface syntax, fixed-size vectors, and vertex/
fragment entry-point attributes.

It lexes, parses and resolves source in a single fail-fast pass: the
first diagnostic halts the pipeline.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
`, GitCommit))

	rootCmd.PersistentFlags().BoolP("color", "c", true, "colorize check output (tokens, parse and repl ignore this flag)")
}

func readSource(args []string, inlineFlag string) (source, filename string, err error) {
	if inlineFlag != "" {
		return inlineFlag, "<eval>", nil
	}
	if len(args) == 1 {
		return readFile(args[0])
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline source")
}
