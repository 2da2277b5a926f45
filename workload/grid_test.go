package workload

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGrid(t *testing.T, loc *time.Location, now time.Time) *GridGenerator {
	t.Helper()
	return NewGridGenerator(NewDateCodec(loc, FixedClock(now)))
}

func TestGenerate_WeekAlwaysSevenDaysFromMonday(t *testing.T) {
	g := newGrid(t, time.UTC, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	ref := time.Date(2024, time.January, 1, 15, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		d := ref.AddDate(0, 0, i)
		days := g.Generate(d, ViewWeek, "")

		require.Len(t, days, 7, Key(d))
		assert.Equal(t, time.Monday, days[0].Date.Weekday(), Key(d))
		assert.Equal(t, time.Sunday, days[6].Date.Weekday(), Key(d))

		found := false
		for _, day := range days {
			assert.True(t, day.IsCurrentMonth, "week view marks every day current")
			if day.Key == Key(d) {
				found = true
			}
		}
		assert.True(t, found, "week of %s must contain it", Key(d))
	}
}

func TestGenerate_SundayAnchorsToPrecedingMonday(t *testing.T) {
	g := newGrid(t, time.UTC, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))

	sunday := time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC)
	days := g.Generate(sunday, ViewWeek, "")

	assert.Equal(t, "2024-03-11", days[0].Key)
	assert.Equal(t, "2024-03-17", days[6].Key)
}

func TestGenerate_MonthCompleteness(t *testing.T) {
	g := newGrid(t, time.UTC, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	for year := 2023; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			ref := time.Date(year, month, 10, 8, 0, 0, 0, time.UTC)
			days := g.Generate(ref, ViewMonth, "")

			require.Zero(t, len(days)%7, "%d-%02d", year, month)
			assert.Equal(t, time.Monday, days[0].Date.Weekday())
			assert.Equal(t, time.Sunday, days[len(days)-1].Date.Weekday())

			seen := map[string]int{}
			inMonth := 0
			for _, day := range days {
				seen[day.Key]++
				_, m, _ := day.Date.Date()
				assert.Equal(t, m == month, day.IsCurrentMonth, day.Key)
				if day.IsCurrentMonth {
					inMonth++
				}
			}
			daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			assert.Equal(t, daysInMonth, inMonth)
			for key, n := range seen {
				assert.Equal(t, 1, n, key)
			}
		}
	}
}

func TestGenerate_MonthScenarioMarch2024(t *testing.T) {
	g := newGrid(t, time.UTC, time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))

	days := g.Generate(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), ViewMonth, "2024-03-15")

	require.Len(t, days, 35)
	assert.Equal(t, "2024-02-26", days[0].Key)
	assert.False(t, days[0].IsCurrentMonth)
	assert.Equal(t, "2024-03-31", days[34].Key)

	var friday CalendarDay
	for _, d := range days {
		if d.Key == "2024-03-15" {
			friday = d
		}
	}
	assert.True(t, friday.IsCurrentMonth)
	assert.True(t, friday.IsToday)
	assert.True(t, friday.IsSelected)
	assert.False(t, friday.IsPast)
	assert.False(t, friday.IsWeekend)
}

func TestGenerate_MonthStartingOnMonday(t *testing.T) {
	g := newGrid(t, time.UTC, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	// January 2024 starts on a Monday and ends on a Wednesday.
	days := g.Generate(time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC), ViewMonth, "")

	assert.Equal(t, "2024-01-01", days[0].Key)
	assert.True(t, days[0].IsCurrentMonth)
	assert.Equal(t, "2024-02-04", days[len(days)-1].Key)
	assert.Len(t, days, 35)
}

func TestGenerate_MonthEndingOnSunday(t *testing.T) {
	g := newGrid(t, time.UTC, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	// March 2024 ends on a Sunday: no trailing padding.
	start, end := g.Range(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), ViewMonth)
	assert.Equal(t, "2024-02-26", start)
	assert.Equal(t, "2024-03-31", end)

	// February 2026 starts Sunday, ends Saturday.
	start, end = g.Range(time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC), ViewMonth)
	assert.Equal(t, "2026-01-26", start)
	assert.Equal(t, "2026-03-01", end)
}

func TestGenerate_PastAndTodayIgnoreTimeOfDay(t *testing.T) {
	loc := time.FixedZone("minus8", -8*3600)
	// 23:59 local; the UTC instant is already the 16th.
	now := time.Date(2024, time.March, 15, 23, 59, 0, 0, loc)
	g := newGrid(t, loc, now.UTC())

	days := g.Generate(time.Date(2024, time.March, 15, 0, 0, 0, 0, loc), ViewWeek, "")

	byKey := map[string]CalendarDay{}
	for _, d := range days {
		byKey[d.Key] = d
	}
	assert.True(t, byKey["2024-03-14"].IsPast)
	assert.True(t, byKey["2024-03-15"].IsToday)
	assert.False(t, byKey["2024-03-15"].IsPast)
	assert.False(t, byKey["2024-03-16"].IsPast)
	assert.False(t, byKey["2024-03-16"].IsToday)
	assert.True(t, byKey["2024-03-16"].IsWeekend)
	assert.True(t, byKey["2024-03-17"].IsWeekend)
	assert.False(t, byKey["2024-03-11"].IsWeekend)
}

func TestGenerate_ReferenceTimeOfDayAndOffsetIgnored(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	g := newGrid(t, berlin, time.Date(2024, time.June, 1, 0, 0, 0, 0, berlin))

	late := time.Date(2024, time.March, 31, 23, 59, 0, 0, berlin)
	days := g.Generate(late, ViewWeek, "")
	assert.Equal(t, "2024-03-25", days[0].Key)
	assert.Equal(t, "2024-03-31", days[6].Key)

	for i, d := range days {
		h, m, _ := d.Date.Clock()
		assert.Zero(t, h, "day %d", i)
		assert.Zero(t, m, "day %d", i)
	}
}

func TestGenerateWithToday_ExplicitToday(t *testing.T) {
	g := newGrid(t, time.UTC, time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC))

	days := g.GenerateWithToday(time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC), ViewWeek, "2024-03-12", "2024-03-13")

	assert.True(t, days[0].IsPast)
	assert.True(t, days[1].IsPast)
	assert.True(t, days[1].IsSelected)
	assert.True(t, days[2].IsToday)
	assert.False(t, days[3].IsPast)
}

func TestPopulate(t *testing.T) {
	g := newGrid(t, time.UTC, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	days := g.Generate(time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC), ViewWeek, "")

	unified := Reconcile(
		[]Plan{{ID: 1, UserID: 1, ProjectID: 1, Date: "2024-03-12"}, {ID: 2, UserID: 1, ProjectID: 1, Date: "2024-04-01"}},
		[]Actual{{ID: 9, UserID: 2, ProjectID: 1, Date: "2024-03-12", HoursWorked: 4}},
	)
	days = Populate(days, unified)

	assert.Len(t, days[1].Workloads, 2)
	assert.NotNil(t, days[0].Workloads)
	assert.Empty(t, days[0].Workloads)
}

func TestParseViewMode(t *testing.T) {
	m, err := ParseViewMode("month")
	require.NoError(t, err)
	assert.Equal(t, ViewMonth, m)

	m, err = ParseViewMode("")
	require.NoError(t, err)
	assert.Equal(t, ViewWeek, m)

	_, err = ParseViewMode("year")
	assert.ErrorIs(t, err, ErrInvalidViewMode)
}
