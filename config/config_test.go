package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Config
		banner  bool
		wantErr string
	}{
		{name: "empty", input: "", want: Config{Prompt: "> "}, banner: true},
		{name: "all keys", input: "prompt: 'lox> '\nbanner: false\ndump_ast: true\nmax_call_depth: 64\n", want: Config{Prompt: "lox> ", DumpAST: true, MaxCallDepth: 64}, banner: false},
		{name: "empty prompt", input: "prompt: ''\n", want: Config{Prompt: "> "}, banner: true},
		{name: "unknown key", input: "colour: red\n", wantErr: "field colour not found"},
		{name: "negative depth", input: "max_call_depth: -1\n", wantErr: "must not be negative"},
		{name: "depth at ceiling", input: "max_call_depth: 200000\n", want: Config{Prompt: "> ", MaxCallDepth: 200000}, banner: true},
		{name: "depth above ceiling", input: "max_call_depth: 1000000\n", wantErr: "must not exceed 200000"},
		{name: "bad type", input: "dump_ast: maybe\n", wantErr: "config:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("got error %v, want one containing %q", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if cfg.Prompt != tt.want.Prompt || cfg.DumpAST != tt.want.DumpAST || cfg.MaxCallDepth != tt.want.MaxCallDepth {
				t.Errorf("got %+v, want %+v", cfg, tt.want)
			}

			if cfg.ShowBanner() != tt.banner {
				t.Errorf("ShowBanner() = %v, want %v", cfg.ShowBanner(), tt.banner)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "golox.yaml")
	if err := os.WriteFile(path, []byte("dump_ast: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.DumpAST {
		t.Errorf("dump_ast not loaded")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("missing explicit file should fail")
	}
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")
	if err := os.WriteFile(path, []byte("prompt: 'env> '\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvVar, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Prompt != "env> " {
		t.Errorf("got prompt %q", cfg.Prompt)
	}
}

func TestLoadDefaultMissing(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Prompt != DefaultPrompt || !cfg.ShowBanner() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}
