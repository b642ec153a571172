package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunScriptFromFile(t *testing.T) {
	tempDir := t.TempDir()
	script := `print "hello", n;`
	path := filepath.Join(tempDir, "main.nm")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := runScript(runCmd, []string{path})

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if err != nil {
		t.Fatalf("runScript failed: %v\nOutput: %s", err, output)
	}
	if strings.TrimSpace(output) != "hello" {
		t.Errorf("output = %q, want %q", output, "hello")
	}
}

func TestRunScriptWithEvalFlag(t *testing.T) {
	oldEval := evalExpr
	defer func() { evalExpr = oldEval }()
	evalExpr = `print 1 + 2, n;`

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := runScript(runCmd, nil)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if err != nil {
		t.Fatalf("runScript failed: %v\nOutput: %s", err, output)
	}
	if strings.TrimSpace(output) != "3" {
		t.Errorf("output = %q, want %q", output, "3")
	}
}

func TestRunScriptWithNeitherFileNorEvalErrors(t *testing.T) {
	oldEval := evalExpr
	defer func() { evalExpr = oldEval }()
	evalExpr = ""

	if err := runScript(runCmd, nil); err == nil {
		t.Fatal("expected an error when neither a file nor -e is given")
	}
}

func TestRunScriptReportsDiagnosticOnFailure(t *testing.T) {
	oldEval := evalExpr
	defer func() { evalExpr = oldEval }()
	evalExpr = `1 / 0;`

	oldStdout := os.Stdout
	oldStderr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	err := runScript(runCmd, nil)

	wOut.Close()
	wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	var bufErr bytes.Buffer
	bufErr.ReadFrom(rErr)
	var bufOut bytes.Buffer
	bufOut.ReadFrom(rOut)

	if err == nil {
		t.Fatal("expected an error for a division by zero")
	}
	if !strings.Contains(bufErr.String(), "Error") && bufErr.String() == "" {
		t.Errorf("expected a diagnostic on stderr, got empty output")
	}
}

func TestRunScriptWithSearchPathOverridesUseResolution(t *testing.T) {
	libDir := t.TempDir()
	modSrc := `my greeting = "hi from module";`
	if err := os.WriteFile(filepath.Join(libDir, "greet.nm"), []byte(modSrc), 0o644); err != nil {
		t.Fatal(err)
	}

	mainDir := t.TempDir()
	mainSrc := `use greet; print greeting, n;`
	mainPath := filepath.Join(mainDir, "main.nm")
	if err := os.WriteFile(mainPath, []byte(mainSrc), 0o644); err != nil {
		t.Fatal(err)
	}

	oldSearch := searchPaths
	defer func() { searchPaths = oldSearch }()
	searchPaths = []string{libDir}

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := runScript(runCmd, []string{mainPath})

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if err != nil {
		t.Fatalf("runScript failed: %v\nOutput: %s", err, output)
	}
	if strings.TrimSpace(output) != "hi from module" {
		t.Errorf("output = %q, want %q", output, "hi from module")
	}
}
