package cmd

import (
	"fmt"

	"github.com/garfr/bsl/internal/diag"
	"github.com/garfr/bsl/internal/lexer"
	"github.com/garfr/bsl/internal/token"
	"github.com/spf13/cobra"
)

var (
	tokensEval    string
	tokensShowPos bool
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Tokenize BSL source and print the resulting tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVarP(&tokensEval, "eval", "e", "", "tokenize inline source instead of reading a file")
	tokensCmd.Flags().BoolVar(&tokensShowPos, "show-pos", false, "show each token's line:column")
}

func runTokens(_ *cobra.Command, args []string) error {
	source, _, err := readSource(args, tokensEval)
	if err != nil {
		return err
	}

	result := &diag.Result{}
	lex := lexer.New(source, result)

	for {
		tok := lex.Next()
		printToken(tok)
		if tok.Kind == token.EOF || tok.Kind == token.ILLEGAL {
			break
		}
	}

	if result.Failed() {
		fmt.Println(result.FormatColor(source))
		return fmt.Errorf("lexing failed")
	}

	return nil
}

func printToken(tok token.Token) {
	switch tok.Kind {
	case token.IDENT:
		fmt.Printf("IDENT  %q", tok.Sym)
	case token.NUM:
		fmt.Printf("NUM    %s", tok.Num.String())
	default:
		fmt.Printf("%-6s ", tok.Kind.String())
	}
	if tokensShowPos {
		fmt.Printf(" @%s", tok.Pos.String())
	}
	fmt.Println()
}
