package timefmt

import (
	"fmt"
	"testing"
	"time"
)

// expectedAdjusted mirrors the documented offset adjustment: literal fields as
// UTC, minus offset, re-read in the local zone.
func expectedAdjusted(y, mo, d, h, mi, s, ms, offsetMin int) time.Time {
	utc := time.Date(y, time.Month(mo), d, h, mi, s, ms*int(time.Millisecond), time.UTC)
	return utc.Add(-time.Duration(offsetMin) * time.Minute).In(time.Local)
}

func TestParse_StrictZulu(t *testing.T) {
	c := Parse("2024-01-01T00:00:00Z")
	if c == nil {
		t.Fatalf("expected parse to succeed")
	}
	if c.OffsetMinutes == nil || *c.OffsetMinutes != 0 {
		t.Fatalf("expected offset 0, got %v", c.OffsetMinutes)
	}
	want := expectedAdjusted(2024, 1, 1, 0, 0, 0, 0, 0)
	if c.Year != want.Year() || c.Month != int(want.Month()) || c.Day != want.Day() ||
		c.Hour != want.Hour() || c.Minute != want.Minute() || c.Second != want.Second() {
		t.Fatalf("calendar fields mismatch: got %+v want %v", c, want)
	}
	got := c.Format()
	wantStr := fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d UTC+00:00",
		want.Year(), want.Month(), want.Day(), want.Hour(), want.Minute(), want.Second())
	if got != wantStr {
		t.Fatalf("format mismatch: got %q want %q", got, wantStr)
	}
}

func TestParse_SignedOffsets(t *testing.T) {
	cases := []struct {
		raw    string
		offset int
	}{
		{"2024-06-15 08:30:00+05:30", 330},
		{"2024-06-15T08:30:00-0700", -420},
		{"2024-06-15T08:30+02:00", 120},
	}
	for _, tc := range cases {
		c := Parse(tc.raw)
		if c == nil {
			t.Fatalf("%q: expected parse to succeed", tc.raw)
		}
		if c.OffsetMinutes == nil || *c.OffsetMinutes != tc.offset {
			t.Fatalf("%q: expected offset %d, got %v", tc.raw, tc.offset, c.OffsetMinutes)
		}
		want := expectedAdjusted(2024, 6, 15, 8, 30, 0, 0, tc.offset)
		if c.Hour != want.Hour() || c.Minute != want.Minute() || c.Day != want.Day() {
			t.Fatalf("%q: fields mismatch: got %+v want %v", tc.raw, c, want)
		}
		suffix := " UTC+05:30"
		switch tc.offset {
		case -420:
			suffix = " UTC-07:00"
		case 120:
			suffix = " UTC+02:00"
		}
		got := c.Format()
		if len(got) < len(suffix) || got[len(got)-len(suffix):] != suffix {
			t.Fatalf("%q: expected suffix %q, got %q", tc.raw, suffix, got)
		}
	}
}

func TestParse_NoZoneKeepsLiteralFields(t *testing.T) {
	c := Parse("2024-03-05 14:45:30.25")
	if c == nil {
		t.Fatalf("expected parse to succeed")
	}
	if c.OffsetMinutes != nil {
		t.Fatalf("expected nil offset, got %d", *c.OffsetMinutes)
	}
	if c.Year != 2024 || c.Month != 3 || c.Day != 5 || c.Hour != 14 || c.Minute != 45 || c.Second != 30 {
		t.Fatalf("literal fields changed: %+v", c)
	}
	// fractional part padded to milliseconds
	if c.Millisecond != 250 {
		t.Fatalf("expected 250 ms, got %d", c.Millisecond)
	}
	if got := c.Format(); got != "2024-03-05 14:45:30" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestParse_MissingSecondsDefaultToZero(t *testing.T) {
	c := Parse("2024-03-05T14:45")
	if c == nil {
		t.Fatalf("expected parse to succeed")
	}
	if c.Second != 0 || c.Millisecond != 0 {
		t.Fatalf("expected zero seconds/millis, got %d/%d", c.Second, c.Millisecond)
	}
}

func TestParse_FractionTruncatedToMillis(t *testing.T) {
	c := Parse("2024-03-05T14:45:30.123456")
	if c == nil || c.Millisecond != 123 {
		t.Fatalf("expected 123 ms, got %+v", c)
	}
}

func TestParse_FallbackLayouts(t *testing.T) {
	c := Parse("2024-03-05")
	if c == nil {
		t.Fatalf("expected fallback parse to succeed")
	}
	if c.OffsetMinutes != nil {
		t.Fatalf("fallback parse must not claim an offset")
	}
	if c.Year != 2024 || c.Month != 3 || c.Day != 5 {
		t.Fatalf("unexpected fields: %+v", c)
	}
}

func TestParse_Unparseable(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a date", "99:99:99"} {
		if c := Parse(raw); c != nil {
			t.Fatalf("%q: expected nil, got %+v", raw, c)
		}
	}
}

func TestReformat_EmptyReturnsEmpty(t *testing.T) {
	if got := Reformat(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := Reformat("   "); got != "" {
		t.Fatalf("expected empty for whitespace, got %q", got)
	}
}

func TestReformat_UnparseablePassthrough(t *testing.T) {
	if got := Reformat("  garbage-stamp  "); got != "garbage-stamp" {
		t.Fatalf("expected trimmed passthrough, got %q", got)
	}
}

func TestReformat_RoundTripSuffix(t *testing.T) {
	got := Reformat("2024-01-01T12:00:00+01:00")
	suffix := " UTC+01:00"
	if len(got) < len(suffix) || got[len(got)-len(suffix):] != suffix {
		t.Fatalf("expected %q suffix, got %q", suffix, got)
	}
	if got2 := Reformat("2024-01-01T12:00:00"); len(got2) != len("2024-01-01 12:00:00") {
		t.Fatalf("expected no suffix without zone, got %q", got2)
	}
}

func TestDateAndTime(t *testing.T) {
	c := Parse("2024-03-05T14:45:00")
	d, tm := c.DateAndTime()
	if d != "2024-03-05" || tm != "14:45" {
		t.Fatalf("unexpected halves: %q %q", d, tm)
	}
}
