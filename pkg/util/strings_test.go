package util

import (
	"reflect"
	"testing"
)

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" AAPL, MSFT,,AAPL ,SPY ")
	want := []string{"AAPL", "MSFT", "SPY"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := SplitCSV(""); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestParseIntDefault(t *testing.T) {
	if ParseIntDefault("x", 5) != 5 || ParseIntDefault("7", 5) != 7 {
		t.Fatalf("unexpected parse")
	}
}
