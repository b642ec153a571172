package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultHasReplFallbacks(t *testing.T) {
	cfg := Default()
	if cfg.Repl.HistoryFile == "" || cfg.Repl.Prompt == "" {
		t.Errorf("Default() repl config incomplete: %+v", cfg.Repl)
	}
}

func TestLoadWithNoConfigFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Repl.Prompt != Default().Repl.Prompt {
		t.Errorf("Load() with no .nmrc.yaml = %+v, want Default()", cfg)
	}
}

func TestLoadReadsConfigInGivenDir(t *testing.T) {
	dir := t.TempDir()
	contents := "search_path:\n  - ./lib\nrepl:\n  prompt: \"> \"\n"
	if err := os.WriteFile(filepath.Join(dir, ".nmrc.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.SearchPath) != 1 || cfg.SearchPath[0] != "./lib" {
		t.Errorf("SearchPath = %v, want [./lib]", cfg.SearchPath)
	}
	if cfg.Repl.Prompt != "> " {
		t.Errorf("Repl.Prompt = %q, want \"> \"", cfg.Repl.Prompt)
	}
	// A field omitted from the file should keep Default()'s value.
	if cfg.Repl.HistoryFile != Default().Repl.HistoryFile {
		t.Errorf("Repl.HistoryFile = %q, want default %q", cfg.Repl.HistoryFile, Default().Repl.HistoryFile)
	}
}

func TestLoadWalksUpToParentDirectory(t *testing.T) {
	root := t.TempDir()
	contents := "repl:\n  prompt: \"walked> \"\n"
	if err := os.WriteFile(filepath.Join(root, ".nmrc.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Repl.Prompt != "walked> " {
		t.Errorf("Repl.Prompt = %q, want %q (config should be found by walking up)", cfg.Repl.Prompt, "walked> ")
	}
}

func TestLoadWithMalformedYamlErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".nmrc.yaml"), []byte("not: [valid: yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected an error decoding malformed YAML")
	}
}
