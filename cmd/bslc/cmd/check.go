package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/garfr/bsl/internal/ast"
	"github.com/garfr/bsl/internal/compiler"
	"github.com/spf13/cobra"
)

var checkEval string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Lex, parse and resolve BSL source, reporting the first diagnostic",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkEval, "eval", "e", "", "check inline source instead of reading a file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	source, filename, err := readSource(args, checkEval)
	if err != nil {
		return err
	}
	useColor, _ := cmd.Flags().GetBool("color")

	result := compiler.Compile(source)
	if !result.Ok() {
		if useColor {
			fmt.Println(result.Diag.FormatColor(source))
		} else {
			fmt.Println(result.Diag.Format(source))
		}
		return fmt.Errorf("%s: check failed", filename)
	}

	summarize(result.File, useColor)
	return nil
}

func summarize(file *ast.File, useColor bool) {
	ok := color.New(color.FgGreen, color.Bold)
	var procs, records, vertex, fragment int
	for _, top := range file.Toplevels {
		switch t := top.(type) {
		case *ast.RecordDecl:
			records++
		case *ast.ProcDecl:
			procs++
			if t.EntryPoint.Has(ast.EntryPointVertex) {
				vertex++
			}
			if t.EntryPoint.Has(ast.EntryPointFragment) {
				fragment++
			}
		}
	}

	msg := fmt.Sprintf("ok: %d record(s), %d procedure(s) (%d vertex, %d fragment entry points)",
		records, procs, vertex, fragment)
	if useColor {
		ok.Println(msg)
	} else {
		fmt.Println(msg)
	}
}
