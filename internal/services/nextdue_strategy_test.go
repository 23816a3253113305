package services

import (
	"testing"

	"finanzas/internal/core"
)

func TestGetNextDueComputer(t *testing.T) {
	tests := []struct {
		name      string
		frequency core.Frequency
		mode      core.BiweeklyMode
		from      core.Date
		want      core.Date
	}{
		{"weekly", core.Weekly, "", core.NewDate(2025, 3, 10), core.NewDate(2025, 3, 17)},
		{"monthly", core.Monthly, "", core.NewDate(2025, 3, 10), core.NewDate(2025, 4, 10)},
		{"monthly clamps", core.Monthly, "", core.NewDate(2025, 1, 31), core.NewDate(2025, 2, 28)},
		{"yearly", core.Yearly, "", core.NewDate(2025, 3, 10), core.NewDate(2026, 3, 10)},
		{"yearly leap day clamps", core.Yearly, "", core.NewDate(2024, 2, 29), core.NewDate(2025, 2, 28)},
		{"biweekly smart before mid-month", core.Biweekly, core.BiweeklySmartMode, core.NewDate(2025, 1, 5), core.NewDate(2025, 1, 15)},
		{"biweekly smart after mid-month", core.Biweekly, core.BiweeklySmartMode, core.NewDate(2025, 1, 20), core.NewDate(2025, 2, 1)},
		{"biweekly smart defaulted mode", core.Biweekly, "", core.NewDate(2025, 1, 5), core.NewDate(2025, 1, 15)},
		{"biweekly exact", core.Biweekly, core.BiweeklyExactMode, core.NewDate(2025, 1, 20), core.NewDate(2025, 2, 4)},
		{"mode ignored for non-biweekly", core.Weekly, core.BiweeklyExactMode, core.NewDate(2025, 3, 10), core.NewDate(2025, 3, 17)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			computer, err := GetNextDueComputer(tt.frequency, tt.mode)
			if err != nil {
				t.Fatalf("GetNextDueComputer(%s, %s): %v", tt.frequency, tt.mode, err)
			}
			if got := computer.NextDue(tt.from); got != tt.want {
				t.Errorf("NextDue(%s) = %s, want %s", tt.from, got, tt.want)
			}
		})
	}
}

func TestGetNextDueComputerUnknownFrequency(t *testing.T) {
	if _, err := GetNextDueComputer(core.Frequency("daily"), ""); err == nil {
		t.Error("expected error for unknown frequency")
	}
}

func TestRegisterNextDueComputer(t *testing.T) {
	custom := core.Frequency("quarterly")
	RegisterNextDueComputer(custom, "", computerFunc(func(from core.Date) core.Date {
		next, _ := core.NextDue(core.Monthly, from)
		next, _ = core.NextDue(core.Monthly, next)
		next, _ = core.NextDue(core.Monthly, next)
		return next
	}))
	defer delete(nextDueStrategies, scheduleKey{custom, ""})

	computer, err := GetNextDueComputer(custom, "")
	if err != nil {
		t.Fatalf("GetNextDueComputer: %v", err)
	}
	if got := computer.NextDue(core.NewDate(2025, 1, 15)); got != core.NewDate(2025, 4, 15) {
		t.Errorf("quarterly NextDue = %s, want 2025-04-15", got)
	}
}

type computerFunc func(core.Date) core.Date

func (f computerFunc) NextDue(from core.Date) core.Date { return f(from) }
