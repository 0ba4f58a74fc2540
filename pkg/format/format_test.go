package format

import (
	"testing"
	"time"
)

func TestList(t *testing.T) {
	tcases := map[string]struct {
		items []string
		useOr bool
		want  string
	}{
		"empty":     {items: nil, want: ""},
		"single":    {items: []string{"a"}, want: "a"},
		"pair":      {items: []string{"a", "b"}, want: "a and b"},
		"pair_or":   {items: []string{"a", "b"}, useOr: true, want: "a or b"},
		"triple":    {items: []string{"a", "b", "c"}, want: "a, b, and c"},
		"triple_or": {items: []string{"a", "b", "c"}, useOr: true, want: "a, b, or c"},
	}
	for name, tc := range tcases {
		t.Run(name, func(t *testing.T) {
			if got := List(tc.items, tc.useOr); got != tc.want {
				t.Errorf("List(%v, %t) = %q, want %q", tc.items, tc.useOr, got, tc.want)
			}
		})
	}
}

func TestOrdinal(t *testing.T) {
	tcases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 111: "111th", 121: "121st",
	}
	for n, want := range tcases {
		if got := Ordinal(n); got != want {
			t.Errorf("Ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestAmount(t *testing.T) {
	if got := Amount(1, "user"); got != "1 user" {
		t.Errorf("Amount(1) = %q", got)
	}
	if got := Amount(2, "user"); got != "2 users" {
		t.Errorf("Amount(2) = %q", got)
	}
	if got := Amount(1234, "line"); got != "1,234 lines" {
		t.Errorf("Amount(1234) = %q", got)
	}
}

func TestThousands(t *testing.T) {
	tcases := map[int]string{
		0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4321: "-4,321",
	}
	for n, want := range tcases {
		if got := Thousands(n); got != want {
			t.Errorf("Thousands(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestDuration(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tcases := map[string]struct {
		d    time.Duration
		want string
	}{
		"zero":       {d: 0, want: "no time"},
		"seconds":    {d: 5 * time.Second, want: "5 seconds"},
		"mixed_pair": {d: time.Hour + 2*time.Minute, want: "1 hour and 2 minutes"},
		"full": {
			d:    7*24*time.Hour + 24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second,
			want: "1 week, 1 day, 3 hours, 4 minutes, and 5 seconds",
		},
		"millis":   {d: 250 * time.Millisecond, want: "250 milliseconds"},
		"negative": {d: -90 * time.Second, want: "1 minute and 30 seconds"},
	}
	for name, tc := range tcases {
		t.Run(name, func(t *testing.T) {
			if got := Duration(base.Add(tc.d), base); got != tc.want {
				t.Errorf("Duration(%v) = %q, want %q", tc.d, got, tc.want)
			}
		})
	}
}

func TestDateWordly(t *testing.T) {
	d := time.Date(2024, 3, 21, 14, 30, 9, 0, time.UTC)
	if got := DateWordly(d, true); got != "March 21st, 2024" {
		t.Errorf("DateWordly = %q", got)
	}
	if got := DateWordly(d, false); got != "March 21st" {
		t.Errorf("DateWordly no year = %q", got)
	}
	if got := Date(d); got != "2024-03-21" {
		t.Errorf("Date = %q", got)
	}
	if got := Clock(d); got != "14:30:09" {
		t.Errorf("Clock = %q", got)
	}
}
