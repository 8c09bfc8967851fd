package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// datetimeLayouts are the ISO shapes accepted for activity timestamps.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	dateLayout,
}

// ParseError reports a malformed date or datetime in a request. Malformed
// values are rejected outright, never coerced to "unscheduled".
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// Date is a calendar day with no time component.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &ParseError{Field: "date", Value: s}
	}
	parsed, err := ParseDate("date", s[1:len(s)-1])
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

// ParseDate parses a YYYY-MM-DD string. The field name is carried into the
// ParseError so callers can surface which input was bad.
func ParseDate(field, value string) (*Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, &ParseError{Field: field, Value: value}
	}
	d := DateOf(t)
	return &d, nil
}

// ParseDateTime parses an ISO datetime, tolerating the common variants
// emitted by date pickers (with or without seconds and offset).
func ParseDateTime(field, value string) (*time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, &ParseError{Field: field, Value: value}
}
