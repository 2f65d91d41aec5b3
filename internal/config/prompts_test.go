package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePrompt(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadPrompts(t *testing.T) {
	dir := t.TempDir()
	system := writePrompt(t, dir, "system.weights.md", "  You rank skills.\n")
	user := writePrompt(t, dir, "user.path.md", "Role %s")

	cfg := &Config{
		AI: AIConfig{
			Weights: OperationAIConfig{Prompts: OperationPrompts{SystemFile: system}},
			Path:    OperationAIConfig{Prompts: OperationPrompts{UserFile: user}},
		},
	}

	store, err := LoadPrompts(cfg)
	if err != nil {
		t.Fatalf("LoadPrompts returned error: %v", err)
	}

	if got := store.Get(OperationWeights).System; got != "You rank skills." {
		t.Errorf("weights system prompt = %q", got)
	}
	if got := store.Get(OperationPath).User; got != "Role %s" {
		t.Errorf("path user prompt = %q", got)
	}
	if got := store.Get(OperationCourses); got != (LoadedPrompts{}) {
		t.Errorf("expected empty courses prompts, got %+v", got)
	}
}

func TestLoadPromptsErrors(t *testing.T) {
	dir := t.TempDir()
	empty := writePrompt(t, dir, "empty.md", "   \n")

	tests := []struct {
		name    string
		file    string
		wantErr string
	}{
		{"missing file", filepath.Join(dir, "missing.md"), "not found"},
		{"empty file", empty, "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AI: AIConfig{Courses: OperationAIConfig{Prompts: OperationPrompts{UserFile: tt.file}}}}
			_, err := LoadPrompts(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPromptFiles(t *testing.T) {
	cfg := &Config{AI: AIConfig{
		Weights: OperationAIConfig{Prompts: OperationPrompts{SystemFile: "a.md", UserFile: "b.md"}},
		Path:    OperationAIConfig{Prompts: OperationPrompts{UserFile: "c.md"}},
	}}

	got := cfg.PromptFiles()
	want := []string{"a.md", "b.md", "c.md"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("PromptFiles() = %v, want %v", got, want)
	}
}

func TestPromptsNeverNil(t *testing.T) {
	var cfg Config
	if cfg.Prompts() == nil {
		t.Fatal("expected non-nil prompt store")
	}
	cfg.Prompts().Set(OperationWeights, LoadedPrompts{User: "x"})
	if cfg.Prompts().Get(OperationWeights).User != "x" {
		t.Error("expected store to persist across calls")
	}
}
