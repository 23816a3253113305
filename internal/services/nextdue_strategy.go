// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for computing the next due date
// of a recurring payment. Each frequency (and each biweekly mode) has its own
// strategy that encapsulates the date arithmetic.

package services

import (
	"fmt"

	"finanzas/internal/core"
)

// NextDueComputer is the strategy interface for advancing a due date.
type NextDueComputer interface {
	// NextDue returns the due date that follows `from` for this schedule.
	NextDue(from core.Date) core.Date
}

type weeklyComputer struct{}

func (weeklyComputer) NextDue(from core.Date) core.Date {
	return from.AddDays(7)
}

type monthlyComputer struct{}

func (monthlyComputer) NextDue(from core.Date) core.Date {
	next, _ := core.NextDue(core.Monthly, from)
	return next
}

type yearlyComputer struct{}

func (yearlyComputer) NextDue(from core.Date) core.Date {
	next, _ := core.NextDue(core.Yearly, from)
	return next
}

type biweeklySmartComputer struct{}

func (biweeklySmartComputer) NextDue(from core.Date) core.Date {
	return core.BiweeklySmart(from)
}

type biweeklyExactComputer struct{}

func (biweeklyExactComputer) NextDue(from core.Date) core.Date {
	return core.BiweeklyExact(from)
}

type scheduleKey struct {
	frequency core.Frequency
	mode      core.BiweeklyMode
}

// nextDueStrategies maps each schedule to its computer. The biweekly entries
// are keyed by mode; every other frequency uses an empty mode.
var nextDueStrategies = map[scheduleKey]NextDueComputer{
	{core.Weekly, ""}:                       weeklyComputer{},
	{core.Monthly, ""}:                      monthlyComputer{},
	{core.Yearly, ""}:                       yearlyComputer{},
	{core.Biweekly, core.BiweeklySmartMode}: biweeklySmartComputer{},
	{core.Biweekly, core.BiweeklyExactMode}: biweeklyExactComputer{},
}

// GetNextDueComputer returns the computer for a frequency and biweekly mode.
// A biweekly schedule with no mode defaults to smart.
func GetNextDueComputer(frequency core.Frequency, mode core.BiweeklyMode) (NextDueComputer, error) {
	if frequency != core.Biweekly {
		mode = ""
	} else if mode == "" {
		mode = core.BiweeklySmartMode
	}
	computer, ok := nextDueStrategies[scheduleKey{frequency, mode}]
	if !ok {
		return nil, fmt.Errorf("unknown schedule: frequency=%s mode=%s", frequency, mode)
	}
	return computer, nil
}

// RegisterNextDueComputer registers a custom computer for a schedule,
// allowing extension without modifying the dispatch table.
func RegisterNextDueComputer(frequency core.Frequency, mode core.BiweeklyMode, computer NextDueComputer) {
	nextDueStrategies[scheduleKey{frequency, mode}] = computer
}
