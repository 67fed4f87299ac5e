package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// LoadFromDirectory registers every *.yaml template found under dir
// (non-recursive). Missing directory is not an error: the built-in defaults
// stay in effect.
func LoadFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read prompt directory %s: %w", dir, err)
	}

	registry := Get()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read prompt file %s: %w", name, err)
		}
		var t Template
		if err := yaml.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("parse prompt file %s: %w", name, err)
		}
		if t.ID == "" {
			t.ID = strings.TrimSuffix(strings.TrimSuffix(name, ".yml"), ".yaml")
		}
		if err := registry.Register(&t); err != nil {
			return fmt.Errorf("register prompt from %s: %w", name, err)
		}
	}
	return nil
}
