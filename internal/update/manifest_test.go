package update

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoadManifestJSON(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantKeys []string
		wantDeps map[string]Dependency
		wantErr  error
	}{
		{
			name: "object entries",
			content: `{
				"sodium_version": {"slug": "sodium"},
				"lithium_version": {"slug": "lithium", "use_id": true}
			}`,
			wantKeys: []string{"sodium_version", "lithium_version"},
			wantDeps: map[string]Dependency{
				"sodium_version":  {Slug: "sodium"},
				"lithium_version": {Slug: "lithium", UseID: true},
			},
		},
		{
			name:     "string shorthand",
			content:  `{"sodium_version": "sodium"}`,
			wantKeys: []string{"sodium_version"},
			wantDeps: map[string]Dependency{
				"sodium_version": {Slug: "sodium"},
			},
		},
		{
			name: "mixed shorthand and object",
			content: `{
				"fabric_api_version": "fabric-api",
				"sodium_version": {"slug": "sodium"}
			}`,
			wantKeys: []string{"fabric_api_version", "sodium_version"},
			wantDeps: map[string]Dependency{
				"fabric_api_version": {Slug: "fabric-api"},
				"sodium_version":     {Slug: "sodium"},
			},
		},
		{
			name:    "missing slug",
			content: `{"sodium_version": {"use_id": true}}`,
			wantErr: ErrMissingSlug,
		},
		{
			name:    "not an object",
			content: `["sodium"]`,
			wantErr: ErrInvalidManifest,
		},
		{
			name:    "invalid json",
			content: `{"sodium_version":`,
			wantErr: ErrInvalidManifest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, "modup.json", tt.content)

			m, err := LoadManifest(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assertManifest(t, m, tt.wantKeys, tt.wantDeps)
		})
	}
}

func TestLoadManifestTOML(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantKeys []string
		wantDeps map[string]Dependency
		wantErr  error
	}{
		{
			name: "table entries",
			content: `
sodium_version = { slug = "sodium" }

[lithium_version]
slug = "lithium"
use_id = true
`,
			wantKeys: []string{"sodium_version", "lithium_version"},
			wantDeps: map[string]Dependency{
				"sodium_version":  {Slug: "sodium"},
				"lithium_version": {Slug: "lithium", UseID: true},
			},
		},
		{
			name:     "string shorthand",
			content:  `sodium_version = "sodium"`,
			wantKeys: []string{"sodium_version"},
			wantDeps: map[string]Dependency{
				"sodium_version": {Slug: "sodium"},
			},
		},
		{
			name: "missing slug",
			content: `
[sodium_version]
use_id = true
`,
			wantErr: ErrMissingSlug,
		},
		{
			name:    "invalid toml",
			content: `sodium_version =`,
			wantErr: ErrInvalidManifest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, "modup.toml", tt.content)

			m, err := LoadManifest(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assertManifest(t, m, tt.wantKeys, tt.wantDeps)
		})
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "modup.json"))
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}

func TestManifestOrderPreserved(t *testing.T) {
	content := `{
		"z_version": "zeta",
		"a_version": "alpha-mod",
		"m_version": "middle"
	}`
	path := writeManifest(t, "modup.json", content)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"z_version", "a_version", "m_version"}
	keys := m.Keys()
	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(keys))
	}
	for i, k := range expected {
		if keys[i] != k {
			t.Errorf("key %d: expected %q, got %q", i, k, keys[i])
		}
	}
}

func assertManifest(t *testing.T, m *Manifest, wantKeys []string, wantDeps map[string]Dependency) {
	t.Helper()

	keys := m.Keys()
	if len(keys) != len(wantKeys) {
		t.Fatalf("expected %d keys, got %d (%v)", len(wantKeys), len(keys), keys)
	}
	for i, k := range wantKeys {
		if keys[i] != k {
			t.Errorf("key %d: expected %q, got %q", i, k, keys[i])
		}
	}
	for key, want := range wantDeps {
		dep, ok := m.Get(key)
		if !ok {
			t.Errorf("missing dependency %q", key)
			continue
		}
		if dep != want {
			t.Errorf("dependency %q: expected %+v, got %+v", key, want, dep)
		}
	}
}
