package util

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	got, ok := ParseDay("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDay(got) != "2024-10-10" {
		t.Fatalf("unexpected day %v", got)
	}
	for _, s := range []string{"", "2024-1-1", "2024-10-10T10:10:10Z", "2024-13-01"} {
		if _, ok := ParseDay(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestParseDayDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	got := ParseDayDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 10, 10, 23, 59, 0, 0, time.UTC)
	if got := Today(now); FormatDay(got) != "2024-10-10" || got.Hour() != 0 {
		t.Fatalf("unexpected today %v", got)
	}
}
