package output

import (
	"testing"

	"github.com/fatih/color"
)

func TestOutcomeColor(t *testing.T) {
	tests := []struct {
		outcome  string
		expected *color.Color
	}{
		{"Updated", Updated},
		{"UpToDate", UpToDate},
		{"Skipped", Skipped},
		{"Failed", Failed},
	}

	for _, tt := range tests {
		t.Run(tt.outcome, func(t *testing.T) {
			if got := OutcomeColor(tt.outcome); got != tt.expected {
				t.Errorf("OutcomeColor(%q) returned unexpected color", tt.outcome)
			}
		})
	}
}

func TestOutcomeColorUnknown(t *testing.T) {
	if OutcomeColor("Unknown") == nil {
		t.Error("unknown outcome should still return a color")
	}
}

func TestNoColorToggle(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	NoColor()
	if !color.NoColor {
		t.Error("NoColor should disable colors")
	}

	ForceColor()
	if color.NoColor {
		t.Error("ForceColor should enable colors")
	}
}

func TestFormatMod(t *testing.T) {
	NoColor()
	defer ForceColor()

	if got := FormatMod("sodium"); got != "sodium" {
		t.Errorf("expected plain slug with colors disabled, got %q", got)
	}
}
