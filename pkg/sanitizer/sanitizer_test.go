package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "hello", "hello"},
		{"leading and trailing", "  hello  ", "hello"},
		{"internal runs", "hello   world", "hello world"},
		{"tabs and newlines", "hello\t\nworld", "hello world"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	if got := NormalizeLabel("  HairCut  "); got != "haircut" {
		t.Errorf("expected 'haircut', got %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"alice", "Alice"},
		{"MARY JANE", "Mary Jane"},
		{"bOb", "Bob"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TitleCase(tt.input); got != tt.expected {
			t.Errorf("TitleCase(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestIsAlphabetic(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"alice", true},
		{"Alice", true},
		{"xyz123", false},
		{"", false},
		{"mary jane", false},
	}

	for _, tt := range tests {
		if got := IsAlphabetic(tt.input); got != tt.expected {
			t.Errorf("IsAlphabetic(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}
