package apijson

import (
	"bytes"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/reoring/straddle-go/i18n"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time zone, encoded as YYYY-MM-DD.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }

func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day) }

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return Issues{{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Cause: err}}
	}
	v, err := ParseDate(s)
	if err != nil {
		return Issues{{Path: "/", Code: CodeInvalidFormat, Message: i18n.T(CodeInvalidFormat, nil), Cause: err}}
	}
	*d = v
	return nil
}

// ParseTimestamp accepts RFC 3339 with or without fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// FormatTimestamp renders t in UTC using RFC3339Nano (trailing zeros trimmed).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
