package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), runErr
}

func TestRunCheckValidSource(t *testing.T) {
	checkEval = `proc add(a: f32, b: f32) f32
	return a + b
	end`
	defer func() { checkEval = "" }()

	out, err := captureStdout(t, func() error {
		return runCheck(checkCmd, nil)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v (output: %s)", err, out)
	}
	if !strings.Contains(out, "ok:") {
		t.Errorf("expected summary output, got: %s", out)
	}
	if !strings.Contains(out, "1 procedure(s)") {
		t.Errorf("expected 1 procedure in summary, got: %s", out)
	}
}

func TestRunCheckSemanticError(t *testing.T) {
	checkEval = `proc f() f32
	return y
	end`
	defer func() { checkEval = "" }()

	out, err := captureStdout(t, func() error {
		return runCheck(checkCmd, nil)
	})
	if err == nil {
		t.Fatal("expected an error for an undefined variable")
	}
	if !strings.Contains(out, "not in scope") {
		t.Errorf("expected diagnostic mentioning scope, got: %s", out)
	}
}

func TestRunCheckEntryPointSummary(t *testing.T) {
	checkEval = `[entry_point(vertex)]
	proc vmain() void
	end`
	defer func() { checkEval = "" }()

	out, err := captureStdout(t, func() error {
		return runCheck(checkCmd, nil)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v (output: %s)", err, out)
	}
	if !strings.Contains(out, "1 vertex") {
		t.Errorf("expected vertex entry point count in summary, got: %s", out)
	}
}

func TestRunCheckRequiresSourceArgument(t *testing.T) {
	checkEval = ""
	if _, err := runCheckErrOnly(); err == nil {
		t.Fatal("expected an error when no file or -e is given")
	}
}

func runCheckErrOnly() (string, error) {
	return "", runCheck(checkCmd, nil)
}
