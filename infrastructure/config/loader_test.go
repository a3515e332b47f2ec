package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const validScenario = `
name: haunting
world:
  is_undead: false
goals:
  - name: haunt
    priority: 2
    state:
      is_haunting: true
actions:
  - name: BecomeUndead
    effects:
      is_undead: true
  - name: Haunt
    preconditions:
      is_undead: true
    effects:
      is_haunting: true
`

func TestLoadString(t *testing.T) {
	t.Parallel()

	scenario, err := NewLoader().LoadString(validScenario)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if scenario.Name != "haunting" {
		t.Errorf("Name = %s, want haunting", scenario.Name)
	}
	if len(scenario.Actions) != 2 || len(scenario.Goals) != 1 {
		t.Errorf("actions = %d, goals = %d, want 2 and 1",
			len(scenario.Actions), len(scenario.Goals))
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(validScenario), 0o644); err != nil {
		t.Fatal(err)
	}

	scenario, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if scenario.Name != "haunting" {
		t.Errorf("Name = %s, want haunting", scenario.Name)
	}
}

func TestLoadFileNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadFile() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scenario.toml")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader().LoadFile(path)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("LoadFile() error = %v, want ErrInvalidFormat", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().LoadString("goals: [unterminated")
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("LoadString() error = %v, want ErrInvalidFormat", err)
	}
}

func TestLoadValidationFailure(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().LoadString("name: empty\ngoals: []\nactions: []")
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("LoadString() error = %v, want ErrValidationFailed", err)
	}
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("SCENARIO_NAME", "from-env")

	scenario, err := NewLoader().LoadString(`
name: ${SCENARIO_NAME}
goals:
  - name: g
    state:
      done: true
actions:
  - name: A
    effects:
      done: true
`)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if scenario.Name != "from-env" {
		t.Errorf("Name = %s, want from-env", scenario.Name)
	}
}

func TestStrictEnvFailsOnMissingVar(t *testing.T) {
	t.Parallel()

	loader := NewLoaderWithOptions(WithStrictEnv(true))
	_, err := loader.LoadString("name: ${DEFINITELY_NOT_SET_ANYWHERE_12345}")
	if !errors.Is(err, ErrMissingEnvVar) {
		t.Errorf("LoadString() error = %v, want ErrMissingEnvVar", err)
	}
}

func TestExpandEnvDefaults(t *testing.T) {
	t.Parallel()

	got := ExpandEnv("value: ${UNSET_VAR_98765:-fallback}")
	if got != "value: fallback" {
		t.Errorf("ExpandEnv() = %q, want fallback applied", got)
	}
}
