// Package compiler wires the lexer, parser and resolver into the single
// entry point described in spec §5: source bytes in, a resolved AST and a
// diagnostic out.
package compiler

import (
	"github.com/garfr/bsl/internal/alloc"
	"github.com/garfr/bsl/internal/ast"
	"github.com/garfr/bsl/internal/diag"
	"github.com/garfr/bsl/internal/lexer"
	"github.com/garfr/bsl/internal/parser"
	"github.com/garfr/bsl/internal/resolver"
)

// Option configures a Compile call.
type Option func(*config)

type config struct {
	arena *alloc.Arena
}

// WithArena routes every AST node allocation through arena, so a caller
// can observe or meter allocation the way spec §6's ABI allows. A nil
// arena (or no option at all) allocates through a fresh Arena with no
// accounting hook.
func WithArena(arena *alloc.Arena) Option {
	return func(c *config) { c.arena = arena }
}

// WithAllocFunc is a convenience over WithArena for callers that only
// need the accounting hook, not a pre-built Arena.
func WithAllocFunc(fn alloc.AllocFunc, userData any) Option {
	return WithArena(alloc.NewArena(fn, userData))
}

// Result is the outcome of a single compile.
type Result struct {
	File  *ast.File
	Diag  *diag.Result
	Arena *alloc.Arena
}

// Ok reports whether the compile produced a fully resolved AST.
func (r *Result) Ok() bool {
	return r.File != nil && !r.Diag.Failed()
}

// Compile lexes, parses and resolves source, stopping at the first
// failing phase (spec §7's fail-fast pipeline: lex -> parse -> resolve).
func Compile(source string, opts ...Option) *Result {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.arena == nil {
		cfg.arena = alloc.NewArena(nil, nil)
	}

	result := &diag.Result{}
	lex := lexer.New(source, result)
	p := parser.New(lex, result, cfg.arena)

	file, ok := p.ParseFile()
	if !ok {
		return &Result{Diag: result, Arena: cfg.arena}
	}

	res := resolver.New(result)
	if !res.Resolve(file) {
		return &Result{Diag: result, Arena: cfg.arena}
	}

	return &Result{File: file, Diag: result, Arena: cfg.arena}
}
