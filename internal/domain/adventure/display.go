package adventure

import (
	"fmt"
	"strconv"
	"time"
)

// RemainingSeconds rounds a countdown up to whole seconds.
func RemainingSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// FormatCountdown renders d as "MM:SSs".
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02ds", secs/60, secs%60)
}

// Ordinal renders n with its English suffix, e.g. 1st, 12th, 23rd.
func Ordinal(n int) string {
	suffix := "th"
	switch last2 := n % 100; {
	case last2 >= 11 && last2 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}
