package compiler

import (
	"testing"

	"github.com/garfr/bsl/internal/alloc"
	"github.com/garfr/bsl/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileIdentifierBinding(t *testing.T) {
	src := `proc add(a: f32, b: f32) f32
	return a + b
	end`

	result := Compile(src)
	require.True(t, result.Ok(), "unexpected diagnostic: %s", result.Diag.String())
	require.Len(t, result.File.Toplevels, 1)
}

func TestCompileShadowingError(t *testing.T) {
	src := `proc f(x: f32, x: f32) f32
	return x
	end`

	result := Compile(src)
	assert.False(t, result.Ok())
	assert.Contains(t, result.Diag.Msg, "shadows")
}

func TestCompileVectorConstructionAndArithmetic(t *testing.T) {
	src := `proc f() vec2<f32>
	return {1.0, 2.0} + {3.0, 4.0}
	end`

	result := Compile(src)
	require.True(t, result.Ok(), "unexpected diagnostic: %s", result.Diag.String())
}

func TestCompileMixedAddRejected(t *testing.T) {
	src := `proc f() vec3<f32>
	return {1.0, 2.0, 3.0} + 1.0
	end`

	result := Compile(src)
	assert.False(t, result.Ok())
	assert.Contains(t, result.Diag.Msg, "mixed scalar and vector")
}

func TestCompileRecordFieldAccess(t *testing.T) {
	src := `record Light
	intensity: f32
	end

	proc f(l: Light) f32
	return l.intensity
	end`

	result := Compile(src)
	require.True(t, result.Ok(), "unexpected diagnostic: %s", result.Diag.String())
}

func TestCompileNonVoidMissingReturn(t *testing.T) {
	src := `proc f() f32
	var x: f32 = 1.0
	end`

	result := Compile(src)
	assert.False(t, result.Ok())
	assert.Contains(t, result.Diag.Msg, "non-void function must return")
}

func TestCompileEntryPointAttribution(t *testing.T) {
	src := `[entry_point(vertex)]
	proc vmain() void
	end

	[entry_point(fragment)]
	proc fmain() void
	end`

	result := Compile(src)
	require.True(t, result.Ok(), "unexpected diagnostic: %s", result.Diag.String())

	vmain := result.File.Toplevels[0].(*ast.ProcDecl)
	fmain := result.File.Toplevels[1].(*ast.ProcDecl)
	assert.True(t, vmain.EntryPoint.Has(ast.EntryPointVertex))
	assert.True(t, fmain.EntryPoint.Has(ast.EntryPointFragment))
}

func TestCompileLexErrorStopsBeforeParsing(t *testing.T) {
	result := Compile("proc f() f32 return @ end")
	assert.False(t, result.Ok())
	assert.Nil(t, result.File)
	assert.True(t, result.Diag.Failed())
}

func TestWithArenaTracksAllocations(t *testing.T) {
	arena := alloc.NewArena(nil, nil)
	src := `proc f() f32
	return 1.0
	end`

	result := Compile(src, WithArena(arena))
	require.True(t, result.Ok(), "unexpected diagnostic: %s", result.Diag.String())
	assert.Greater(t, result.Arena.Stats().Allocs, 0)
}

func TestWithAllocFuncInvokesCallback(t *testing.T) {
	var calls int
	fn := func(oldSize, newSize int, userData any) {
		calls++
	}

	src := `proc f() f32
	return 1.0
	end`

	result := Compile(src, WithAllocFunc(fn, nil))
	require.True(t, result.Ok(), "unexpected diagnostic: %s", result.Diag.String())
	assert.Greater(t, calls, 0)
}
