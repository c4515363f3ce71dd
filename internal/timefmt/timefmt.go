// Package timefmt normalizes the heterogeneous timestamp strings that appear
// in chart payloads (ISO-like forms with T or space separators, optional
// seconds/milliseconds, and Z or signed zone suffixes) into structured
// calendar components, and re-serializes them into the one canonical display
// form used across all charts and reports.
//
// Parsing never fails loudly: unparseable input yields a nil Components, and
// Reformat falls back to the trimmed raw string so a bad label degrades to
// itself instead of breaking a render.
package timefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Components is the structured form of a parsed timestamp. OffsetMinutes is
// nil when the raw string carried no zone token, meaning "unknown/local, do
// not convert".
type Components struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
	// OffsetMinutes is the explicit UTC offset of the raw string, east
	// positive, e.g. +05:30 -> 330. Zero for a literal Z.
	OffsetMinutes *int
}

// strictPattern matches YYYY-MM-DD(T| )HH:MM[:SS[.fff]][zone] where zone is
// Z/z or a signed HH:MM / HHMM offset.
var strictPattern = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2})(?::(\d{2})(?:\.(\d+))?)?(Z|z|[+-]\d{2}:?\d{2})?$`)

// fallbackLayouts is the ordered free-form parse attempted when the strict
// pattern does not match.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
}

// Parse normalizes a possibly-empty raw timestamp string. It returns nil for
// empty or unparseable input.
//
// When the raw string carries an explicit zone, the literal numeric fields
// are treated as UTC, the offset is subtracted to reconstruct an absolute
// instant, and the calendar fields are re-extracted from that instant in the
// runtime's local zone. Downstream display logic depends on this exact
// adjustment; do not replace it with direct offset arithmetic on the fields.
func Parse(raw string) *Components {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	m := strictPattern.FindStringSubmatch(s)
	if m == nil {
		return parseFallback(s)
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second := 0
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}
	millis := 0
	if m[7] != "" {
		// Truncate/pad the fractional part to exactly 3 digits.
		frac := m[7]
		if len(frac) > 3 {
			frac = frac[:3]
		}
		for len(frac) < 3 {
			frac += "0"
		}
		millis, _ = strconv.Atoi(frac)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 60 {
		return parseFallback(s)
	}

	c := &Components{
		Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, Second: second, Millisecond: millis,
	}

	zone := m[8]
	if zone == "" {
		return c
	}

	offset := 0
	if zone != "Z" && zone != "z" {
		sign := 1
		if zone[0] == '-' {
			sign = -1
		}
		digits := strings.ReplaceAll(zone[1:], ":", "")
		oh, _ := strconv.Atoi(digits[:2])
		om, _ := strconv.Atoi(digits[2:])
		offset = sign * (oh*60 + om)
	}
	c.OffsetMinutes = &offset

	// Treat the literal fields as UTC, subtract the offset to obtain the
	// instant, then re-extract the calendar fields in the local zone.
	utc := time.Date(year, time.Month(month), day, hour, minute, second, millis*int(time.Millisecond), time.UTC)
	adjusted := utc.Add(-time.Duration(offset) * time.Minute).In(time.Local)
	c.Year = adjusted.Year()
	c.Month = int(adjusted.Month())
	c.Day = adjusted.Day()
	c.Hour = adjusted.Hour()
	c.Minute = adjusted.Minute()
	c.Second = adjusted.Second()
	c.Millisecond = adjusted.Nanosecond() / int(time.Millisecond)
	return c
}

func parseFallback(s string) *Components {
	for _, layout := range fallbackLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return &Components{
			Year:        t.Year(),
			Month:       int(t.Month()),
			Day:         t.Day(),
			Hour:        t.Hour(),
			Minute:      t.Minute(),
			Second:      t.Second(),
			Millisecond: t.Nanosecond() / int(time.Millisecond),
		}
	}
	return nil
}

// Format serializes the components into "YYYY-MM-DD HH:MM:SS", suffixed with
// " UTC±HH:MM" when the offset is known.
func (c *Components) Format() string {
	s := fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
	if c.OffsetMinutes != nil {
		off := *c.OffsetMinutes
		sign := "+"
		if off < 0 {
			sign = "-"
			off = -off
		}
		s += fmt.Sprintf(" UTC%s%02d:%02d", sign, off/60, off%60)
	}
	return s
}

// DateAndTime returns the calendar date and time-of-day halves separately,
// used for the two-line heatmap column labels.
func (c *Components) DateAndTime() (string, string) {
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, c.Month, c.Day),
		fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Reformat is the raw-in, display-out convenience: empty input yields "",
// unparseable input yields the trimmed input unchanged, anything else yields
// the canonical form. It never fails.
func Reformat(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	c := Parse(s)
	if c == nil {
		return s
	}
	return c.Format()
}
