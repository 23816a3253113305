package core

import "testing"

func TestNextDue(t *testing.T) {
	cases := []struct {
		name string
		freq Frequency
		from Date
		want string
	}{
		{"weekly", Weekly, NewDate(2025, 1, 5), "2025-01-12"},
		{"weekly across month end", Weekly, NewDate(2025, 1, 28), "2025-02-04"},
		{"monthly same day", Monthly, NewDate(2025, 3, 10), "2025-04-10"},
		{"monthly clamps to February", Monthly, NewDate(2025, 1, 31), "2025-02-28"},
		{"monthly clamps to leap February", Monthly, NewDate(2024, 1, 31), "2024-02-29"},
		{"monthly across year end", Monthly, NewDate(2025, 12, 15), "2026-01-15"},
		{"yearly", Yearly, NewDate(2025, 6, 1), "2026-06-01"},
		{"yearly from leap day", Yearly, NewDate(2024, 2, 29), "2025-02-28"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextDue(tc.freq, tc.from)
			if err != nil {
				t.Fatalf("NextDue() error = %v", err)
			}
			if got.String() != tc.want {
				t.Errorf("NextDue() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestNextDueRejectsBiweekly(t *testing.T) {
	if _, err := NextDue(Biweekly, NewDate(2025, 1, 5)); err == nil {
		t.Fatal("expected error for biweekly frequency")
	}
	if _, err := NextDue(Frequency("daily"), NewDate(2025, 1, 5)); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
}

func TestBiweeklySmart(t *testing.T) {
	cases := []struct {
		from string
		want string
	}{
		{"2025-01-05", "2025-01-15"},
		{"2025-01-14", "2025-01-15"},
		{"2025-01-15", "2025-02-01"},
		{"2025-01-20", "2025-02-01"},
		{"2025-01-31", "2025-02-01"},
		{"2025-12-20", "2026-01-01"},
	}
	for _, tc := range cases {
		from, err := ParseDate(tc.from)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.from, err)
		}
		if got := BiweeklySmart(from); got.String() != tc.want {
			t.Errorf("BiweeklySmart(%s) = %s, want %s", tc.from, got, tc.want)
		}
	}
}

func TestBiweeklyExact(t *testing.T) {
	cases := []struct {
		from string
		want string
	}{
		{"2025-01-05", "2025-01-20"},
		{"2025-01-20", "2025-02-04"},
		{"2024-02-20", "2024-03-06"}, // leap February has 29 days
	}
	for _, tc := range cases {
		from, err := ParseDate(tc.from)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.from, err)
		}
		if got := BiweeklyExact(from); got.String() != tc.want {
			t.Errorf("BiweeklyExact(%s) = %s, want %s", tc.from, got, tc.want)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year, month, want int
	}{
		{2025, 1, 31},
		{2025, 2, 28},
		{2024, 2, 29},
		{2025, 4, 30},
		{2025, 12, 31},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}
