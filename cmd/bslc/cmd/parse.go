package cmd

import (
	"fmt"
	"strings"

	"github.com/garfr/bsl/internal/ast"
	"github.com/garfr/bsl/internal/diag"
	"github.com/garfr/bsl/internal/lexer"
	"github.com/garfr/bsl/internal/parser"
	"github.com/spf13/cobra"
)

var parseEval string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse BSL source and print the resulting AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline source instead of reading a file")
}

func runParse(_ *cobra.Command, args []string) error {
	source, _, err := readSource(args, parseEval)
	if err != nil {
		return err
	}

	result := &diag.Result{}
	lex := lexer.New(source, result)
	p := parser.New(lex, result, nil)

	file, ok := p.ParseFile()
	if !ok {
		fmt.Println(result.FormatColor(source))
		return fmt.Errorf("parsing failed")
	}

	for _, top := range file.Toplevels {
		dumpToplevel(top, 0)
	}

	return nil
}

func indent(depth int) string { return strings.Repeat("  ", depth) }

func dumpToplevel(top ast.Toplevel, depth int) {
	switch t := top.(type) {
	case *ast.RecordDecl:
		fmt.Printf("%sRecord %s (%d fields)\n", indent(depth), t.Name, len(t.Entries))
		for _, e := range t.Entries {
			fmt.Printf("%s%s: %s\n", indent(depth+1), e.Name, dumpType(e.Type))
		}
	case *ast.ProcDecl:
		fmt.Printf("%sProc %s (%d params) -> %s\n", indent(depth), t.Name, len(t.Params), dumpType(t.ReturnType))
		for _, param := range t.Params {
			fmt.Printf("%s%s: %s\n", indent(depth+1), param.Name, dumpType(param.Type))
		}
		for _, stmt := range t.Body {
			dumpStmt(stmt, depth+1)
		}
	}
}

func dumpStmt(stmt ast.Stmt, depth int) {
	switch s := stmt.(type) {
	case *ast.VarStmt:
		fmt.Printf("%sVar %s =\n", indent(depth), s.Name)
		dumpExpr(s.Value, depth+1)
	case *ast.ReturnStmt:
		fmt.Printf("%sReturn\n", indent(depth))
		dumpExpr(s.Value, depth+1)
	}
}

func dumpExpr(expr ast.Expr, depth int) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.NumExpr:
		fmt.Printf("%sNum %s\n", indent(depth), e.Value.String())
	case *ast.VarExpr:
		fmt.Printf("%sVar %s\n", indent(depth), e.Name)
	case *ast.BinaryExpr:
		fmt.Printf("%sBinary %s\n", indent(depth), e.Op.String())
		dumpExpr(e.LHS, depth+1)
		dumpExpr(e.RHS, depth+1)
	case *ast.MemberExpr:
		fmt.Printf("%sMember .%s\n", indent(depth), e.Name)
		dumpExpr(e.Target, depth+1)
	case *ast.VectorExpr:
		fmt.Printf("%sVector (%d elems)\n", indent(depth), len(e.Elems))
		for _, el := range e.Elems {
			dumpExpr(el, depth+1)
		}
	case *ast.RecordExpr:
		fmt.Printf("%sRecord %s\n", indent(depth), e.Name)
		for _, m := range e.Members {
			fmt.Printf("%s.%s =\n", indent(depth+1), m.Name)
			dumpExpr(m.Value, depth+2)
		}
	default:
		fmt.Printf("%s%T\n", indent(depth), expr)
	}
}

func dumpType(t ast.Type) string {
	switch tt := t.(type) {
	case *ast.F32Type:
		return "f32"
	case *ast.F64Type:
		return "f64"
	case *ast.VoidType:
		return "void"
	case *ast.VectorType:
		return fmt.Sprintf("vec%d<%s>", tt.Size, dumpType(tt.Elem))
	case *ast.NamedType:
		return tt.Name
	case *ast.RecordType:
		return tt.Name
	default:
		return fmt.Sprintf("%T", t)
	}
}
