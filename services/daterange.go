package services

import (
	"time"
)

// Calendar views supported by the scheduler.
const (
	ViewDay   = "Day"
	ViewWeek  = "Week"
	ViewMonth = "Month"
	ViewYear  = "Year"
)

// TimeHeader describes one tier of the scheduler's time header row.
type TimeHeader struct {
	GroupBy string `json:"groupBy"`
	Format  string `json:"format"`
}

// Window is the visible slice of the timeline for a view and anchor date.
type Window struct {
	DisplayStart time.Time    `json:"-"`
	StartDate    string       `json:"startDate"`
	DaySpan      int          `json:"days"`
	Scale        string       `json:"scale"`
	TimeHeaders  []TimeHeader `json:"timeHeaders"`
}

const startDateLayout = "2006-01-02"

// ComputeWindow returns the visible window for a view anchored at the given
// date. Weeks start on Monday. Year windows cover the whole calendar year,
// so leap years span 366 days. Unknown views fall back to the week window.
func ComputeWindow(view string, anchor time.Time) Window {
	anchor = truncateToDay(anchor)

	var w Window
	switch view {
	case ViewDay:
		w = Window{
			DisplayStart: anchor,
			DaySpan:      1,
			TimeHeaders: []TimeHeader{
				{GroupBy: "Day", Format: "dddd, d MMMM yyyy"},
			},
		}
	case ViewMonth:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		w = Window{
			DisplayStart: first,
			DaySpan:      daysInMonth(anchor),
			TimeHeaders: []TimeHeader{
				{GroupBy: "Month", Format: "MMMM yyyy"},
				{GroupBy: "Day", Format: "d"},
			},
		}
	case ViewYear:
		first := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, anchor.Location())
		span := 365
		if isLeapYear(anchor.Year()) {
			span = 366
		}
		w = Window{
			DisplayStart: first,
			DaySpan:      span,
			TimeHeaders: []TimeHeader{
				{GroupBy: "Year", Format: "yyyy"},
				{GroupBy: "Month", Format: "MMM"},
			},
		}
	default: // ViewWeek and anything unrecognized
		w = Window{
			DisplayStart: startOfWeek(anchor),
			DaySpan:      7,
			TimeHeaders: []TimeHeader{
				{GroupBy: "Month", Format: "MMMM yyyy"},
				{GroupBy: "Day", Format: "d"},
			},
		}
	}

	w.Scale = "Day"
	w.StartDate = w.DisplayStart.Format(startDateLayout)
	return w
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday on or before t.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func daysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, 1, -1).Day()
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
