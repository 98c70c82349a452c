// Package intent maps free-text caller input to coarse intent labels with
// ordered keyword matching. Classification is deliberately rule-based; the
// priority order is part of the contract because inputs can match several
// keyword sets.
package intent

import "strings"

type Label string

const (
	Greeting     Label = "greeting"
	Booking      Label = "booking"
	Availability Label = "availability"
	Cancel       Label = "cancel"
	Update       Label = "update"
	ShowBookings Label = "show_bookings"
	Help         Label = "help"
	Confirm      Label = "confirm"
	Deny         Label = "deny"
	Unknown      Label = "unknown"
)

// Rule binds one intent label to its keyword set. Rules are evaluated in
// slice order.
type Rule struct {
	Label    Label
	Keywords []string
}

type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier with the default ruleset. Order
// matters: "cancel" appears in both the cancel and deny keyword sets, and
// the first match wins.
func NewClassifier() *Classifier {
	return NewClassifierWithRules([]Rule{
		{Greeting, []string{"hi", "hello", "hey", "good morning", "good afternoon"}},
		{Booking, []string{"book", "appointment", "schedule", "reserve"}},
		{Availability, []string{"available", "slots", "when", "time"}},
		{Cancel, []string{"cancel", "remove", "delete"}},
		{Update, []string{"change", "update", "reschedule"}},
		{ShowBookings, []string{"show my bookings", "my bookings", "list bookings", "current bookings"}},
		{Help, []string{"help", "assist", "what can you do"}},
		{Confirm, []string{"yes", "confirm", "ok", "sure", "correct"}},
		{Deny, []string{"no", "cancel", "wrong", "incorrect"}},
	})
}

// NewClassifierWithRules builds a classifier over an explicit ordered
// ruleset.
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the first intent whose keyword set has a substring match
// in the normalized text, or Unknown.
func (c *Classifier) Classify(text string) Label {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, r := range c.rules {
		for _, keyword := range r.Keywords {
			if strings.Contains(text, keyword) {
				return r.Label
			}
		}
	}
	return Unknown
}

var goodbyeKeywords = []string{"bye", "goodbye", "see you", "exit", "quit"}

// IsGoodbye reports whether the input contains a goodbye phrase. Goodbye is
// checked before everything else on every turn and short-circuits both
// global intents and state routing.
func IsGoodbye(text string) bool {
	text = strings.ToLower(text)
	for _, keyword := range goodbyeKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
