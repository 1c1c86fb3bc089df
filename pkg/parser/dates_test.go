package parser

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)

	inputs := []any{
		"05/11/2025",
		"5/11/2025",
		"05/11/25",
		"05-11-2025",
		"05.11.2025",
		"2025-11-05",
		"05/11/2025 14:30:00",
		"2025-11-05 00:00:00",
		" 05/11/2025 ",
		45966.0,
		45966.75,
		time.Date(2025, time.November, 5, 18, 0, 0, 0, time.Local),
	}
	for _, in := range inputs {
		got, err := parseDate(in)
		if err != nil {
			t.Errorf("parseDate(%#v) failed: %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("parseDate(%#v) = %v, want %v", in, got, want)
		}
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, in := range []any{nil, "", "amanhã", "31/02/2025", 0.0, -3.0, true} {
		if _, err := parseDate(in); err == nil {
			t.Errorf("parseDate(%#v): expected error", in)
		}
	}
}
