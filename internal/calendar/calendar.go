package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"planner/internal/model"
)

// Month identifies a displayed month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the month containing d.
func MonthOf(d model.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

// Add shifts m by delta months, rolling over year boundaries in both
// directions.
func (m Month) Add(delta int) Month {
	idx := m.Year*12 + int(m.Month-1) + delta
	year := idx / 12
	mon := idx % 12
	if mon < 0 {
		mon += 12
		year--
	}
	return Month{Year: year, Month: time.Month(mon + 1)}
}

// First is day 1 of the month.
func (m Month) First() model.Date {
	return model.Date{Year: m.Year, Month: m.Month, Day: 1}
}

func (m Month) Contains(d model.Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// Label renders e.g. "January 2025".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth is "day 0 of the next month".
func DaysInMonth(m Month) int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LeadingBlanks is the weekday index (0=Sunday) of day 1.
func LeadingBlanks(m Month) int {
	return int(m.First().Weekday())
}

// Cell is one position of the 7-column week grid. Blank cells pad the first
// row and carry a zero Date.
type Cell struct {
	Blank bool       `json:"blank"`
	Date  model.Date `json:"date"`
}

// Grid returns the leading blanks followed by every date of m in order.
// There is no trailing padding after the last day.
func Grid(m Month) []Cell {
	blanks := LeadingBlanks(m)
	days := monthDays(m)

	cells := make([]Cell, 0, blanks+len(days))
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for _, t := range days {
		cells = append(cells, Cell{Date: model.DateOf(t)})
	}
	return cells
}

// Weeks splits a grid into rows of seven; the last row may be short.
func Weeks(cells []Cell) [][]Cell {
	rows := make([][]Cell, 0, (len(cells)+6)/7)
	for start := 0; start < len(cells); start += 7 {
		end := start + 7
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, cells[start:end])
	}
	return rows
}

func monthDays(m Month) []time.Time {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: m.First().Time(time.UTC),
		Count:   DaysInMonth(m),
	})
	if err != nil {
		// A daily rule with a positive count is always valid.
		panic(fmt.Sprintf("calendar: daily rule for %s: %v", m, err))
	}
	return r.All()
}
