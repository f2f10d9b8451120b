package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

const versionsPayload = `[
	{
		"id": "newbeta1",
		"version_number": "0.6.1-beta.1",
		"name": "Sodium 0.6.1 Beta 1",
		"date_published": "2026-02-10T12:00:00Z",
		"version_type": "beta",
		"game_versions": ["1.21.4"],
		"loaders": ["fabric"]
	},
	{
		"id": "rel1",
		"version_number": "0.6.0",
		"name": "Sodium 0.6.0",
		"date_published": "2026-01-01T08:30:00Z",
		"version_type": "release",
		"game_versions": ["1.21.4"],
		"loaders": ["fabric"]
	}
]`

// newTestClient builds a client against a test server without rate limiting.
func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, "modup-test", WithLimiter(rate.NewLimiter(rate.Inf, 1)))
}

func TestProjectVersions(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"game_versions": r.URL.Query().Get("game_versions"),
			"loaders":       r.URL.Query().Get("loaders"),
		}
		if r.Header.Get("User-Agent") != "modup-test" {
			t.Errorf("expected custom user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(versionsPayload))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	versions, err := client.ProjectVersions(context.Background(), "sodium", "1.21.4", "Fabric")
	if err != nil {
		t.Fatalf("ProjectVersions failed: %v", err)
	}

	if gotPath != "/project/sodium/version" {
		t.Errorf("expected versions endpoint path, got %q", gotPath)
	}
	if gotQuery["game_versions"] != `["1.21.4"]` {
		t.Errorf("expected JSON-encoded game_versions filter, got %q", gotQuery["game_versions"])
	}
	// Loader must be lowercased before encoding
	if gotQuery["loaders"] != `["fabric"]` {
		t.Errorf("expected JSON-encoded lowercase loaders filter, got %q", gotQuery["loaders"])
	}

	if len(versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(versions))
	}

	// Response order must be preserved (newest first per the registry)
	first := versions[0]
	if first.ID != "newbeta1" || first.VersionNumber != "0.6.1-beta.1" {
		t.Errorf("unexpected first version: %+v", first)
	}
	if first.VersionType != "beta" {
		t.Errorf("expected beta version type, got %q", first.VersionType)
	}
	want := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	if !first.DatePublished.Equal(want) {
		t.Errorf("expected publish date %v, got %v", want, first.DatePublished)
	}
}

func TestProjectVersionsErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"unauthorized", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.ProjectVersions(context.Background(), "ghost", "1.21.4", "fabric")
			if !errors.Is(err, ErrRegistry) {
				t.Errorf("expected ErrRegistry, got %v", err)
			}
		})
	}
}

func TestProjectVersionsInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ProjectVersions(context.Background(), "sodium", "1.21.4", "fabric")
	if !errors.Is(err, ErrRegistry) {
		t.Errorf("expected ErrRegistry for bad payload, got %v", err)
	}
}

func TestVersionValue(t *testing.T) {
	v := Version{ID: "abc123", VersionNumber: "1.0.0"}

	if got := v.Value(true); got != "abc123" {
		t.Errorf("expected id value, got %q", got)
	}
	if got := v.Value(false); got != "1.0.0" {
		t.Errorf("expected version-number value, got %q", got)
	}
}

func TestVersionMatches(t *testing.T) {
	v := Version{ID: "abc123", VersionNumber: "1.0.0"}

	tests := []struct {
		pinned   string
		expected bool
	}{
		{"abc123", true},
		{"1.0.0", true},
		{"2.0.0", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := v.Matches(tt.pinned); got != tt.expected {
			t.Errorf("Matches(%q): expected %v, got %v", tt.pinned, tt.expected, got)
		}
	}
}
