package workload

import (
	"errors"
	"fmt"
	"time"
)

type ViewMode string

const (
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

var ErrInvalidViewMode = errors.New("invalid view mode")

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewWeek, ViewMonth:
		return ViewMode(s), nil
	case "":
		return ViewWeek, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidViewMode, s)
}

type CalendarDay struct {
	Date           time.Time `json:"-"`
	Key            string    `json:"date"`
	Workloads      []Unified `json:"workloads"`
	IsCurrentMonth bool      `json:"is_current_month"`
	IsToday        bool      `json:"is_today"`
	IsSelected     bool      `json:"is_selected"`
	IsPast         bool      `json:"is_past"`
	IsWeekend      bool      `json:"is_weekend"`
}

// GridGenerator builds Monday-first week and month grids.
type GridGenerator struct {
	codec *DateCodec
}

func NewGridGenerator(codec *DateCodec) *GridGenerator {
	return &GridGenerator{codec: codec}
}

// Generate builds the grid for ref using the codec's notion of today.
func (g *GridGenerator) Generate(ref time.Time, mode ViewMode, selectedKey string) []CalendarDay {
	return g.GenerateWithToday(ref, mode, selectedKey, g.codec.Today())
}

// GenerateWithToday builds the grid for ref. Only the calendar fields of ref
// are used; its time of day and offset are ignored. todayKey drives the
// IsToday and IsPast flags.
func (g *GridGenerator) GenerateWithToday(ref time.Time, mode ViewMode, selectedKey, todayKey string) []CalendarDay {
	start, end := g.bounds(ref, mode)
	_, refMonth, _ := ref.Date()

	endKey := Key(end)
	days := make([]CalendarDay, 0, 42)
	for t := start; Compare(Key(t), endKey) != After; t = addDays(t, 1, g.codec.loc) {
		key := Key(t)
		_, month, _ := t.Date()
		wd := t.Weekday()
		days = append(days, CalendarDay{
			Date:           g.codec.Midnight(t),
			Key:            key,
			IsCurrentMonth: mode == ViewWeek || month == refMonth,
			IsToday:        key == todayKey,
			IsSelected:     key == selectedKey,
			IsPast:         Compare(key, todayKey) == Before,
			IsWeekend:      wd == time.Saturday || wd == time.Sunday,
		})
	}
	return days
}

// Range reports the first and last keys of the grid Generate would produce,
// so callers can fetch exactly that span.
func (g *GridGenerator) Range(ref time.Time, mode ViewMode) (string, string) {
	start, end := g.bounds(ref, mode)
	return Key(start), Key(end)
}

func (g *GridGenerator) bounds(ref time.Time, mode ViewMode) (time.Time, time.Time) {
	loc := g.codec.loc
	y, m, d := ref.Date()
	anchor := time.Date(y, m, d, 12, 0, 0, 0, loc)

	if mode == ViewMonth {
		first := time.Date(y, m, 1, 12, 0, 0, 0, loc)
		last := time.Date(y, m+1, 0, 12, 0, 0, 0, loc)
		return addDays(first, daysToMonday(first.Weekday()), loc),
			addDays(last, daysToSunday(last.Weekday()), loc)
	}

	monday := addDays(anchor, daysToMonday(anchor.Weekday()), loc)
	return monday, addDays(monday, 6, loc)
}

func daysToMonday(wd time.Weekday) int {
	if wd == time.Sunday {
		return -6
	}
	return 1 - int(wd)
}

func daysToSunday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 0
	}
	return 7 - int(wd)
}

// Populate attaches reconciled workloads to the grid days with a matching
// date. Workloads outside the grid are ignored.
func Populate(days []CalendarDay, unified []Unified) []CalendarDay {
	byDate := GroupByDate(unified)
	for i := range days {
		if days[i].Workloads == nil {
			days[i].Workloads = []Unified{}
		}
		days[i].Workloads = append(days[i].Workloads, byDate[days[i].Key]...)
	}
	return days
}
