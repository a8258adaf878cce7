package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"phototag/internal/batch"
)

func TestSourceFromFlags(t *testing.T) {
	if _, err := sourceFromFlags("", ""); err == nil {
		t.Fatal("expected error when no source flag is set")
	}
	if _, err := sourceFromFlags("/a.lrcat", "/photos"); err == nil {
		t.Fatal("expected error when both source flags are set")
	}

	source, err := sourceFromFlags("/a.lrcat", "")
	if err != nil {
		t.Fatalf("sourceFromFlags: %v", err)
	}
	if source.Kind != batch.SourceCatalog || source.Path != "/a.lrcat" {
		t.Fatalf("unexpected source: %+v", source)
	}

	source, err = sourceFromFlags("", "/photos")
	if err != nil {
		t.Fatalf("sourceFromFlags: %v", err)
	}
	if source.Kind != batch.SourceFolder {
		t.Fatalf("unexpected source: %+v", source)
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"config", "init", "--path", target})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(data), "[ollama]") {
		t.Fatalf("sample config missing ollama section:\n%s", data)
	}

	// A second init without --overwrite must refuse.
	cmd = newRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for existing config file")
	}
}
