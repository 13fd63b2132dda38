// Package fixture handles loading built-in venue snapshots used for demos,
// smoke tests and golden scoring checks.
package fixture

import (
	"bytes"
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/venuetrust/internal/snapshot"
	"github.com/dshills/venuetrust/internal/trust"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Fixture is a named, described snapshot.
type Fixture struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Snapshot    trust.Snapshot `yaml:"snapshot"`

	// Hash is the content hash of the embedded document.
	Hash string `yaml:"-"`
}

// LoadBuiltin loads a built-in fixture by name.
func LoadBuiltin(name string) (*Fixture, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("fixture.LoadBuiltin: unknown fixture %q: %w", name, err)
	}
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("fixture.LoadBuiltin: parse %q: %w", name, err)
	}
	f.Hash = snapshot.Hash(data)
	return &f, nil
}

// List returns the names of all available built-in fixtures.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		}
	}
	return names, nil
}
