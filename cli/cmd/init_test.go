package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Level   string   `default:"info"`
	Verbose bool     `short:"v"`
	Count   int      `default:"3"`
	Empty   string
	Tags    []string `sep:"none"`
	Secret  string   `default:"x" hidden:""`
}

func parseInit(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInit_Run(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yaml")
	ctx := WithContext(t.Context(), parseInit(t, confPath, "--tags=a,b", "--tags=c"))

	if err := (&Init{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("%v:\n%s", err, data)
	}

	var keys []string
	for _, item := range doc[ConfigIdentifier] {
		keys = append(keys, item.Key.(string))
	}

	if want := []string{"level", "verbose", "count", "tags"}; !slices.Equal(keys, want) {
		t.Errorf("keys %v, want %v:\n%s", keys, want, data)
	}

	values := doc[ConfigIdentifier].ToMap()

	if values["level"] != "info" || values["verbose"] != false {
		t.Errorf("values %v", values)
	}

	if tags, ok := values["tags"].([]any); !ok || len(tags) != 2 || tags[0] != "a,b" {
		t.Errorf("tags %#v", values["tags"])
	}

	info, err := os.Stat(confPath)
	if err != nil {
		t.Fatal(err)
	}

	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode %v, want 0600", perm)
	}
}

func TestInit_Exists(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(confPath, []byte("existing"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(t.Context(), parseInit(t, confPath))

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Fatalf("got %v, want %v", err, ErrFileExists)
	}

	if data, _ := os.ReadFile(confPath); string(data) != "existing" {
		t.Error("existing file was modified")
	}

	if err := (&Init{Force: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if data, _ := os.ReadFile(confPath); string(data) == "existing" {
		t.Error("forced init kept the existing file")
	}
}

func TestFlagValue(t *testing.T) {
	type level string

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"string", "x", "x"},
		{"empty_string", "", nil},
		{"named_string", level("debug"), "debug"},
		{"bool", false, false},
		{"int", 3, int64(3)},
		{"uint", uint8(7), uint64(7)},
		{"float", 1.5, 1.5},
		{"slice", []string{"a"}, []string{"a"}},
		{"empty_slice", []string{}, nil},
		{"nil_slice", []string(nil), nil},
		{"unsupported", struct{}{}, nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flagValue(tt.in)

			if s, ok := tt.want.([]string); ok {
				if g, ok := got.([]string); !ok || !slices.Equal(g, s) {
					t.Errorf("got %#v, want %#v", got, tt.want)
				}

				return
			}

			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}
