// Package format provides the cosmetic string helpers used in server
// notices: list joining, pluralization, and date/duration formatting.
package format

import (
	"fmt"
	"strings"
	"time"
)

// List joins items into an english list ("a, b, and c"). With useOr the
// final conjunction becomes "or".
func List(items []string, useOr bool) string {
	conj := "and"
	if useOr {
		conj = "or"
	}
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s %s %s", items[0], conj, items[1])
	default:
		return fmt.Sprintf("%s, %s %s", strings.Join(items[:len(items)-1], ", "), conj, items[len(items)-1])
	}
}

// Ordinal returns n with its english ordinal indicator (1st, 2nd, 3rd,
// 4th, 11th, 21st, ...).
func Ordinal(n int) string {
	s := fmt.Sprintf("%d", n)
	last := s[len(s)-1]
	if last >= '1' && last <= '3' && (len(s) == 1 || s[len(s)-2] != '1') {
		switch last {
		case '1':
			return s + "st"
		case '2':
			return s + "nd"
		case '3':
			return s + "rd"
		}
	}
	return s + "th"
}

// Amount renders a count with a pluralized unit ("1 user", "2 users").
// Counts of 1000 or more get thousands separators.
func Amount(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%s %ss", Thousands(n), word)
}

// Thousands formats n with comma thousands separators.
func Thousands(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// Date formats a timestamp as YYYY-MM-DD.
func Date(t time.Time) string {
	return t.Format("2006-01-02")
}

// DateWordly formats a timestamp as "January 2nd, 2006".
func DateWordly(t time.Time, includeYear bool) string {
	s := fmt.Sprintf("%s %s", t.Month().String(), Ordinal(t.Day()))
	if includeYear {
		s = fmt.Sprintf("%s, %d", s, t.Year())
	}
	return s
}

// Clock formats a timestamp as HH:MM:SS.
func Clock(t time.Time) string {
	return t.Format("15:04:05")
}

// Duration renders the difference between two instants in words, from
// weeks down to seconds, skipping zero components ("1 week, 2 days, and
// 5 minutes"). Sub-second differences render as milliseconds and a zero
// difference as "no time".
func Duration(a, b time.Time) string {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}

	weeks := diff / (7 * 24 * time.Hour)
	diff %= 7 * 24 * time.Hour
	days := diff / (24 * time.Hour)
	diff %= 24 * time.Hour
	hours := diff / time.Hour
	diff %= time.Hour
	minutes := diff / time.Minute
	diff %= time.Minute
	seconds := diff / time.Second
	diff %= time.Second

	var parts []string
	add := func(n time.Duration, word string) {
		if n != 0 {
			parts = append(parts, Amount(int(n), word))
		}
	}
	add(weeks, "week")
	add(days, "day")
	add(hours, "hour")
	add(minutes, "minute")
	add(seconds, "second")

	switch {
	case len(parts) > 0:
		return List(parts, false)
	case diff >= time.Millisecond:
		return Amount(int(diff/time.Millisecond), "millisecond")
	default:
		return "no time"
	}
}
