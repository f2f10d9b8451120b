package gh

import "testing"

func TestParsePRState(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected string
	}{
		{"open pr", `{"state":"OPEN"}`, "OPEN"},
		{"merged pr", `{"state":"MERGED"}`, "MERGED"},
		{"closed pr", `{"state":"CLOSED"}`, "CLOSED"},
		{"empty output", "", ""},
		{"invalid json", "no pull requests found", ""},
		{"missing state field", `{"number":42}`, ""},
		{"extra fields", `{"state":"OPEN","number":42}`, "OPEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePRState(tt.output); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestMockClientRecordsCalls(t *testing.T) {
	m := NewMockClient()

	open, err := m.PRIsOpen("modrinth-deps/main/sodium")
	if err != nil || open {
		t.Errorf("expected default PRIsOpen false, got %v (%v)", open, err)
	}

	opts := PROptions{
		Title: "Update sodium to 0.6.0",
		Body:  "body",
		Base:  "main",
		Head:  "modrinth-deps/main/sodium",
	}
	if err := m.PRCreate(opts); err != nil {
		t.Fatalf("PRCreate failed: %v", err)
	}

	if len(m.Created) != 1 || m.Created[0].Title != opts.Title {
		t.Errorf("expected recorded PR creation, got %v", m.Created)
	}
	if len(m.Calls) != 2 {
		t.Errorf("expected 2 recorded calls, got %v", m.Calls)
	}
}
