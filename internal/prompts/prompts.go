// Package prompts stores the prompt text sent to AI providers. Defaults
// are embedded; operators can override individual prompts with a YAML file.
package prompts

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Prompt names.
const (
	StructurePage = "structure_page"
	Translate     = "translate"
)

// Store resolves prompt text by name.
type Store struct {
	prompts map[string]string
}

// NewStore loads the embedded defaults, then applies overrides from
// overridePath if it is non-empty. Unknown keys in the override file are
// rejected to catch typos.
func NewStore(overridePath string) (*Store, error) {
	defaults := make(map[string]string)
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		return nil, fmt.Errorf("failed to parse embedded prompts: %w", err)
	}

	if overridePath != "" {
		raw, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt overrides: %w", err)
		}
		overrides := make(map[string]string)
		if err := yaml.Unmarshal(raw, &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse prompt overrides: %w", err)
		}
		for k, v := range overrides {
			if _, ok := defaults[k]; !ok {
				return nil, fmt.Errorf("unknown prompt %q in overrides", k)
			}
			defaults[k] = v
		}
	}

	return &Store{prompts: defaults}, nil
}

// Get returns the prompt text for name.
func (s *Store) Get(name string) (string, error) {
	p, ok := s.prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return p, nil
}

// MustGet returns the prompt text for name, panicking on unknown names.
// Intended for the fixed set of built-in prompt constants.
func (s *Store) MustGet(name string) string {
	p, err := s.Get(name)
	if err != nil {
		panic(err)
	}
	return p
}
