// Package update decides, per tracked dependency, whether a newer release
// should be proposed under the stability policy.
package update

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Reserved properties keys supplying the query filters for every dependency.
const (
	GameVersionKey = "minecraft_version"
	LoaderKey      = "mod_loader"
)

// Error variables for manifest errors
var (
	// ErrManifestNotFound is returned when the manifest file does not exist
	ErrManifestNotFound = errors.New("manifest file not found")
	// ErrInvalidManifest is returned when the manifest cannot be parsed
	ErrInvalidManifest = errors.New("invalid manifest")
	// ErrMissingSlug is returned when a dependency entry has no slug
	ErrMissingSlug = errors.New("dependency entry is missing a slug")
)

// Dependency describes one tracked mod: the registry slug it is published
// under, and whether the release id (rather than the version string) is the
// value stored in the properties file.
type Dependency struct {
	Slug  string `json:"slug" toml:"slug"`
	UseID bool   `json:"use_id" toml:"use_id"`
}

// Manifest maps properties keys to dependencies, in file order.
type Manifest struct {
	keys []string
	deps map[string]Dependency
}

// Keys returns the properties keys in file order. Dependencies are always
// processed in this order.
func (m *Manifest) Keys() []string {
	return m.keys
}

// Get returns the dependency for a properties key.
func (m *Manifest) Get(key string) (Dependency, bool) {
	d, ok := m.deps[key]
	return d, ok
}

// Len returns the number of dependencies.
func (m *Manifest) Len() int {
	return len(m.keys)
}

func (m *Manifest) add(key string, dep Dependency) {
	if _, seen := m.deps[key]; !seen {
		m.keys = append(m.keys, key)
	}
	m.deps[key] = dep
}

// LoadManifest reads the dependency manifest. The format follows the file
// extension: .toml is parsed as TOML, everything else as JSON. An entry may
// be a bare string (shorthand for {slug: <string>}) or a full object.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return parseTOMLManifest(data)
	}
	return parseJSONManifest(data)
}

// parseJSONManifest decodes the manifest token by token so that key order
// is preserved: encoding/json map decoding would lose it.
func parseJSONManifest(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top-level value must be an object", ErrInvalidManifest)
	}

	m := &Manifest{deps: make(map[string]Dependency)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}

		dep, err := decodeJSONDependency(raw)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		m.add(key, dep)
	}

	return m, nil
}

// decodeJSONDependency accepts either a bare slug string or a full object.
func decodeJSONDependency(raw json.RawMessage) (Dependency, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var slug string
		if err := json.Unmarshal(trimmed, &slug); err != nil {
			return Dependency{}, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
		if slug == "" {
			return Dependency{}, ErrMissingSlug
		}
		return Dependency{Slug: slug}, nil
	}

	var dep Dependency
	if err := json.Unmarshal(trimmed, &dep); err != nil {
		return Dependency{}, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if dep.Slug == "" {
		return Dependency{}, ErrMissingSlug
	}
	return dep, nil
}

// parseTOMLManifest decodes a TOML manifest, using the decoder metadata to
// recover key order.
func parseTOMLManifest(data []byte) (*Manifest, error) {
	var raw map[string]toml.Primitive
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	m := &Manifest{deps: make(map[string]Dependency)}
	for _, key := range md.Keys() {
		// Only top-level keys name dependencies; nested keys are fields.
		if len(key) != 1 {
			continue
		}
		name := key[0]
		prim, ok := raw[name]
		if !ok {
			continue
		}

		var slug string
		if err := md.PrimitiveDecode(prim, &slug); err == nil {
			if slug == "" {
				return nil, fmt.Errorf("entry %q: %w", name, ErrMissingSlug)
			}
			m.add(name, Dependency{Slug: slug})
			continue
		}

		var dep Dependency
		if err := md.PrimitiveDecode(prim, &dep); err != nil {
			return nil, fmt.Errorf("entry %q: %w: %v", name, ErrInvalidManifest, err)
		}
		if dep.Slug == "" {
			return nil, fmt.Errorf("entry %q: %w", name, ErrMissingSlug)
		}
		m.add(name, dep)
	}

	return m, nil
}
