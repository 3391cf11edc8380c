package util

import (
	"testing"
	"time"
)

func TestOutputFileName(t *testing.T) {
	runAt := time.Date(2024, 3, 7, 15, 4, 5, 0, time.UTC)
	tests := []struct {
		symbol, typ, ext, want string
	}{
		{"spy", "CALL", "csv", "SPY_CALL_2024_03_07.csv"},
		{"QQQ", "put", ".json", "QQQ_PUT_2024_03_07.json"},
		{"AAPL", "", "csv", "AAPL_2024_03_07.csv"},
	}
	for _, tt := range tests {
		if got := OutputFileName(tt.symbol, tt.typ, runAt, tt.ext); got != tt.want {
			t.Fatalf("OutputFileName(%q, %q) = %q, want %q", tt.symbol, tt.typ, got, tt.want)
		}
	}
}

func TestNormalizeSymbols(t *testing.T) {
	got := NormalizeSymbols([]string{" spy", "QQQ", "", "SPY", "iwm "})
	want := []string{"SPY", "QQQ", "IWM"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
