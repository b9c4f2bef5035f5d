package adventure

import (
	"testing"
	"time"
)

func TestOrdinal(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd", 101: "101st", 111: "111th"}
	for n, want := range cases {
		if got := Ordinal(n); got != want {
			t.Fatalf("Ordinal(%d)=%q want %q", n, got, want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	if got := FormatCountdown(29*time.Second + 400*time.Millisecond); got != "00:29s" {
		t.Fatalf("unexpected countdown: %q", got)
	}
	if got := FormatCountdown(125 * time.Second); got != "02:05s" {
		t.Fatalf("unexpected countdown: %q", got)
	}
	if got := FormatCountdown(-time.Second); got != "00:00s" {
		t.Fatalf("unexpected countdown: %q", got)
	}
}

func TestRemainingSecondsRoundsUp(t *testing.T) {
	if got := RemainingSeconds(1500 * time.Millisecond); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := RemainingSeconds(0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestProgress(t *testing.T) {
	s := DefaultState()
	s.AddEnergy(15)
	start := time.UnixMilli(0)
	_ = s.Start(start)
	if got := s.Progress(start.Add(15 * time.Second)); got != 50 {
		t.Fatalf("expected 50%%, got %d", got)
	}
	if got := s.Progress(start.Add(time.Minute)); got != 100 {
		t.Fatalf("expected 100%%, got %d", got)
	}
}
