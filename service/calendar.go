package service

import (
	"fmt"
	"time"

	"github.com/ghprofile/profile-api/model"
)

const daysPerWeek = 7

// IsLeapYear applies the gregorian rule
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}

	return 365
}

// DayIndexLength is the number of cells of the calendar ending on today:
// the days of the current year plus the weekday offset of today, Sunday being 0
func DayIndexLength(today model.Date) int {
	return DaysInYear(today.Year) + int(today.Weekday())
}

// TierFor classifies a day event count into the 5 heat-map tiers
func TierFor(count int) model.Tier {
	switch {
	case count > 9:
		return model.TierVeryHigh
	case count > 6:
		return model.TierHigh
	case count > 3:
		return model.TierMedium
	case count > 0:
		return model.TierLow
	default:
		return model.TierNone
	}
}

// TallyEvents counts events per calendar day, timestamps are truncated in loc
func TallyEvents(events []model.ActivityEvent, loc *time.Location) map[model.Date]int {
	tally := make(map[model.Date]int)

	for _, e := range events {
		tally[model.DateOf(e.CreatedAt, loc)]++
	}

	return tally
}

// BuildCalendar lays the events out as week rows ending on the day of now.
// Position p of the day index is the day now - (length-1-p), the first
// weekday(today) positions being the left padding.
func BuildCalendar(events []model.ActivityEvent, now time.Time, loc *time.Location) model.Calendar {
	today := model.DateOf(now, loc)
	tally := TallyEvents(events, loc)

	length := DayIndexLength(today)
	offset := int(today.Weekday())
	rows := (length + daysPerWeek - 1) / daysPerWeek

	calendar := model.Calendar{
		Year:  today.Year,
		Today: today,
		Weeks: make([]model.CalendarWeek, 0, rows),
	}

	for row := 0; row < rows; row++ {
		week := make(model.CalendarWeek, 0, daysPerWeek)

		for p := row * daysPerWeek; p < min((row+1)*daysPerWeek, length); p++ {
			date := today.AddDays(-(length - 1 - p))
			count := tally[date]
			label := date.Label()

			week = append(week, model.CalendarDay{
				Date:    date,
				Index:   p - offset + 1,
				Padding: p < offset,
				Count:   count,
				Tier:    TierFor(count),
				Label:   label,
				Tooltip: fmt.Sprintf("%d contributions on %s", count, label),
			})

			calendar.Total += count
		}

		calendar.Weeks = append(calendar.Weeks, week)
	}

	return calendar
}
