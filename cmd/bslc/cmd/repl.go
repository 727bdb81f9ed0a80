package cmd

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/garfr/bsl/internal/compiler"
	"github.com/spf13/cobra"
)

var (
	errColor  = color.New(color.FgRed)
	okColor   = color.New(color.FgGreen)
	infoColor = color.New(color.FgCyan)
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively check BSL snippets",
	Long: `repl reads a snippet of toplevel declarations, one blank line at a
time, and runs it through the full lex/parse/resolve pipeline.

Type a blank line to check what you've entered so far; type '.exit' to quit.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(*cobra.Command, []string) error {
	rl, err := readline.New("bsl> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	infoColor.Println("bslc repl — enter declarations, blank line to check, '.exit' to quit")

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil {
			fmt.Println("bye")
			return nil
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == ".exit" {
			return nil
		}

		if trimmed == "" {
			if buf.Len() == 0 {
				continue
			}
			checkSnippet(buf.String())
			buf.Reset()
			continue
		}

		rl.SaveHistory(line)
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

func checkSnippet(source string) {
	result := compiler.Compile(source)
	if !result.Ok() {
		errColor.Println(result.Diag.FormatColor(source))
		return
	}
	okColor.Printf("ok: %d toplevel declaration(s)\n", len(result.File.Toplevels))
}
