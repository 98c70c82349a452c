package timeparse

import (
	"errors"
	"testing"
	"time"
)

// anchor is a Monday.
var anchor = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func TestRuleParserParse(t *testing.T) {
	p := NewRuleParser()

	tests := []struct {
		name     string
		input    string
		expected Result
	}{
		{"tomorrow with meridiem", "tomorrow at 2 PM", Result{"2026-03-03", "02:00 PM"}},
		{"today with morning hour", "today 9 am", Result{"2026-03-02", "09:00 AM"}},
		{"weekday with clock time", "friday at 10:30 am", Result{"2026-03-06", "10:30 AM"}},
		{"same weekday rolls a week", "monday 9am", Result{"2026-03-09", "09:00 AM"}},
		{"two weekdays resolve in week order", "monday or tuesday at 2 pm", Result{"2026-03-09", "02:00 PM"}},
		{"explicit iso date", "2026-03-15 at 2pm", Result{"2026-03-15", "02:00 PM"}},
		{"time only defaults to anchor day", "at 2", Result{"2026-03-02", "02:00 AM"}},
		{"twenty-four hour clock", "14:00 tomorrow", Result{"2026-03-03", "02:00 PM"}},
		{"noon", "today at 12 pm", Result{"2026-03-02", "12:00 PM"}},
		{"midnight", "today at 12 am", Result{"2026-03-02", "12:00 AM"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input, anchor)
			if err != nil {
				t.Fatalf("Parse(%q): unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("Parse(%q): expected %+v, got %+v", tt.input, tt.expected, got)
			}
		})
	}
}

func TestRuleParserParseErrors(t *testing.T) {
	p := NewRuleParser()

	inputs := []string{
		"",
		"whenever works",
		"tomorrow",
		"next week sometime",
	}

	for _, input := range inputs {
		if _, err := p.Parse(input, anchor); !errors.Is(err, ErrUnparseable) {
			t.Errorf("Parse(%q): expected ErrUnparseable, got %v", input, err)
		}
	}
}

func TestFallbackParser(t *testing.T) {
	p := &FallbackParser{Inner: NewRuleParser(), Slot: "09:00 AM"}

	got, err := p.Parse("whenever works", anchor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := Result{Date: "2026-03-03", Slot: "09:00 AM"}
	if got != expected {
		t.Errorf("expected %+v, got %+v", expected, got)
	}

	got, err = p.Parse("tomorrow at 2 PM", anchor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected = Result{Date: "2026-03-03", Slot: "02:00 PM"}
	if got != expected {
		t.Errorf("expected %+v, got %+v", expected, got)
	}
}
