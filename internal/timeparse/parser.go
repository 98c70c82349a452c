// Package timeparse turns free-text date/time phrases into a booking date
// and a slot label. Dates render as "2006-01-02" and slots as zero-padded
// twelve-hour labels like "09:00 AM" so they compare directly against a
// service's published slots.
package timeparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is returned when no recognizable date or time could be
// extracted from the input.
var ErrUnparseable = errors.New("could not extract a date and time")

// Result is a parsed booking slot reference.
type Result struct {
	Date string
	Slot string
}

// Parser extracts a date and slot label from free text. now anchors
// relative phrases like "tomorrow".
type Parser interface {
	Parse(text string, now time.Time) (Result, error)
}

var (
	isoDateRe  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	clockRe    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`)
	hourOnlyRe = regexp.MustCompile(`\b(\d{1,2})\s*(am|pm)\b`)
	bareHourRe = regexp.MustCompile(`\bat\s+(\d{1,2})\b`)
)

// weekdays is an ordered slice, not a map: input naming several days
// ("monday or tuesday") must always resolve to the same one.
var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// RuleParser recognizes relative day words (today, tomorrow, weekday
// names), explicit ISO dates, and common time forms ("2 PM", "14:00",
// "at 2"). When the text names a time but no date, the date defaults to
// the anchor day.
type RuleParser struct{}

func NewRuleParser() *RuleParser {
	return &RuleParser{}
}

func (p *RuleParser) Parse(text string, now time.Time) (Result, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return Result{}, ErrUnparseable
	}

	slot, ok := extractSlot(text)
	if !ok {
		return Result{}, ErrUnparseable
	}

	date, err := extractDate(text, now)
	if err != nil {
		return Result{}, err
	}

	return Result{Date: date, Slot: slot}, nil
}

func extractDate(text string, now time.Time) (string, error) {
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		parsed, err := time.Parse("2006-01-02", m[0])
		if err != nil {
			return "", fmt.Errorf("%w: bad date %q", ErrUnparseable, m[0])
		}
		return parsed.Format("2006-01-02"), nil
	}

	if strings.Contains(text, "tomorrow") {
		return now.AddDate(0, 0, 1).Format("2006-01-02"), nil
	}
	if strings.Contains(text, "today") {
		return now.Format("2006-01-02"), nil
	}

	for _, wd := range weekdays {
		if strings.Contains(text, wd.name) {
			return nextWeekday(now, wd.day).Format("2006-01-02"), nil
		}
	}

	// A time with no date means the anchor day.
	return now.Format("2006-01-02"), nil
}

// nextWeekday returns the next occurrence of day strictly after the anchor,
// so "monday" said on a Monday means a week out.
func nextWeekday(now time.Time, day time.Weekday) time.Time {
	delta := (int(day) - int(now.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return now.AddDate(0, 0, delta)
}

func extractSlot(text string) (string, bool) {
	if m := clockRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if minute > 59 {
			return "", false
		}
		if m[3] != "" {
			return meridiemSlot(hour, minute, m[3])
		}
		return clockSlot(hour, minute)
	}

	if m := hourOnlyRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return meridiemSlot(hour, 0, m[2])
	}

	if m := bareHourRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return clockSlot(hour, 0)
	}

	return "", false
}

// meridiemSlot formats an explicit twelve-hour time; hour must be 1 to 12.
func meridiemSlot(hour, minute int, meridiem string) (string, bool) {
	if hour < 1 || hour > 12 {
		return "", false
	}
	if meridiem == "pm" && hour != 12 {
		hour += 12
	}
	if meridiem == "am" && hour == 12 {
		hour = 0
	}
	return formatSlot(hour, minute), true
}

// clockSlot formats a 24-hour time with no meridiem given.
func clockSlot(hour, minute int) (string, bool) {
	if hour < 0 || hour > 23 {
		return "", false
	}
	return formatSlot(hour, minute), true
}

func formatSlot(hour24, minute int) string {
	t := time.Date(2000, 1, 1, hour24, minute, 0, 0, time.UTC)
	return t.Format("03:04 PM")
}

// FallbackParser wraps a parser and substitutes the day after the anchor
// with a fixed slot whenever the inner parser fails. It mirrors the
// "tomorrow morning" guess some deployments prefer over re-prompting.
type FallbackParser struct {
	Inner Parser
	Slot  string
}

func (p *FallbackParser) Parse(text string, now time.Time) (Result, error) {
	res, err := p.Inner.Parse(text, now)
	if err != nil {
		return Result{
			Date: now.AddDate(0, 0, 1).Format("2006-01-02"),
			Slot: p.Slot,
		}, nil
	}
	return res, nil
}
