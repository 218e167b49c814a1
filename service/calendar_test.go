package service

import (
	"testing"
	"time"

	"github.com/ghprofile/profile-api/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventAt(t *testing.T, createdAt string) model.ActivityEvent {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, createdAt)
	require.NoError(t, err)

	return model.ActivityEvent{Type: "PushEvent", CreatedAt: ts}
}

func TestIsLeapYear(t *testing.T) {
	tests := map[int]bool{
		2023: false,
		2024: true,
		1900: false,
		2000: true,
		2100: false,
	}

	for year, expected := range tests {
		assert.Equal(t, expected, IsLeapYear(year), "year %d", year)
	}

	assert.Equal(t, 366, DaysInYear(2024))
	assert.Equal(t, 365, DaysInYear(2023))
}

func TestDayIndexLength(t *testing.T) {
	// 2024-03-01 is a Friday, 2023-03-01 a Wednesday
	assert.Equal(t, 366+5, DayIndexLength(model.Date{Year: 2024, Month: time.March, Day: 1}))
	assert.Equal(t, 365+3, DayIndexLength(model.Date{Year: 2023, Month: time.March, Day: 1}))
	// Sunday has no padding
	assert.Equal(t, 365, DayIndexLength(model.Date{Year: 2023, Month: time.March, Day: 5}))
}

func TestTierFor(t *testing.T) {
	tests := map[int]model.Tier{
		0:  model.TierNone,
		1:  model.TierLow,
		2:  model.TierLow,
		3:  model.TierLow,
		4:  model.TierMedium,
		6:  model.TierMedium,
		7:  model.TierHigh,
		9:  model.TierHigh,
		10: model.TierVeryHigh,
		42: model.TierVeryHigh,
	}

	for count, expected := range tests {
		assert.Equal(t, expected, TierFor(count), "count %d", count)
	}
}

func TestTallyEvents(t *testing.T) {
	events := []model.ActivityEvent{
		eventAt(t, "2024-03-01T10:00:00Z"),
		eventAt(t, "2024-03-01T12:00:00Z"),
		eventAt(t, "2024-03-02T08:00:00Z"),
	}

	tally := TallyEvents(events, time.UTC)

	assert.Equal(t, map[model.Date]int{
		{Year: 2024, Month: time.March, Day: 1}: 2,
		{Year: 2024, Month: time.March, Day: 2}: 1,
	}, tally)

	// 10:00 and 12:00 UTC are already March 2nd in UTC+14
	kiribati := time.FixedZone("UTC+14", 14*60*60)
	assert.Equal(t, 3, TallyEvents(events, kiribati)[model.Date{Year: 2024, Month: time.March, Day: 2}])
}

func TestBuildCalendarLeapYear(t *testing.T) {
	events := []model.ActivityEvent{
		eventAt(t, "2024-03-01T10:00:00Z"),
		eventAt(t, "2024-03-01T12:00:00Z"),
		eventAt(t, "2024-03-02T08:00:00Z"),
		// outside of the window
		eventAt(t, "2022-01-01T08:00:00Z"),
	}

	// Saturday
	now := time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC)

	calendar := BuildCalendar(events, now, time.UTC)

	assert.Equal(t, 2024, calendar.Year)
	assert.Equal(t, model.Date{Year: 2024, Month: time.March, Day: 2}, calendar.Today)
	assert.Equal(t, 3, calendar.Total)

	length := 366 + 6
	require.Len(t, calendar.Weeks, (length+6)/7)

	cells := make([]model.CalendarDay, 0, length)
	for i, week := range calendar.Weeks {
		if i < len(calendar.Weeks)-1 {
			assert.Len(t, week, 7)
		}

		cells = append(cells, week...)
	}

	require.Len(t, cells, length)

	last := cells[length-1]
	assert.Equal(t, calendar.Today, last.Date)
	assert.Equal(t, 1, last.Count)
	assert.Equal(t, model.TierLow, last.Tier)
	assert.Equal(t, 366, last.Index)
	assert.False(t, last.Padding)

	beforeLast := cells[length-2]
	assert.Equal(t, model.Date{Year: 2024, Month: time.March, Day: 1}, beforeLast.Date)
	assert.Equal(t, 2, beforeLast.Count)
	assert.Equal(t, "Friday, March 1. 2024.", beforeLast.Label)
	assert.Equal(t, "2 contributions on Friday, March 1. 2024.", beforeLast.Tooltip)

	first := cells[0]
	assert.Equal(t, calendar.Today.AddDays(-(length - 1)), first.Date)
	assert.Equal(t, -5, first.Index)
	assert.True(t, first.Padding)
	assert.False(t, cells[6].Padding)
	assert.Equal(t, 1, cells[6].Index)
}

func TestBuildCalendarNonLeapYear(t *testing.T) {
	// Thursday
	now := time.Date(2023, time.June, 15, 9, 0, 0, 0, time.UTC)

	calendar := BuildCalendar(nil, now, time.UTC)

	length := 365 + 4
	require.Len(t, calendar.Weeks, 53)
	assert.Len(t, calendar.Weeks[52], length-52*7)
	assert.Equal(t, 0, calendar.Total)

	// the window of a non leap year starts on a Sunday
	firstWeek := calendar.Weeks[0]
	assert.Equal(t, time.Sunday, firstWeek[0].Date.Weekday())

	expectedStart := model.Date{Year: 2022, Month: time.June, Day: 12}
	expected := make(model.CalendarWeek, 0, 7)
	for i := 0; i < 7; i++ {
		date := expectedStart.AddDays(i)
		expected = append(expected, model.CalendarDay{
			Date:    date,
			Index:   i - 4 + 1,
			Padding: i < 4,
			Count:   0,
			Tier:    model.TierNone,
			Label:   date.Label(),
			Tooltip: "0 contributions on " + date.Label(),
		})
	}

	if diff := cmp.Diff(expected, firstWeek); diff != "" {
		t.Errorf("first week mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCalendarUsesLocationForToday(t *testing.T) {
	// still Saturday March 2nd in UTC, already Sunday March 3rd in UTC+14
	now := time.Date(2024, time.March, 2, 23, 0, 0, 0, time.UTC)
	kiribati := time.FixedZone("UTC+14", 14*60*60)

	calendar := BuildCalendar(nil, now, kiribati)

	assert.Equal(t, model.Date{Year: 2024, Month: time.March, Day: 3}, calendar.Today)
	assert.Len(t, calendar.Weeks, 366/7+1)
}
