package model

import (
	"fmt"
	"time"
)

// Date is a calendar day without time of day nor timezone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day as seen in loc
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}

	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the day, only meant for day arithmetic
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays normalises overflowing days through time.Date
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC), time.UTC)
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// String formats as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Label is the human readable form shown on the heat-map, e.g. "Friday, March 1. 2024."
func (d Date) Label() string {
	return fmt.Sprintf("%s, %s %d. %d.", d.Weekday(), d.Month, d.Day, d.Year)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse(time.DateOnly, string(text))
	if err != nil {
		return err
	}

	*d = DateOf(t, time.UTC)
	return nil
}

// Tier is one of the 5 visual intensity levels of a day
type Tier int

const (
	TierNone Tier = iota + 1
	TierLow
	TierMedium
	TierHigh
	TierVeryHigh
)

type CalendarDay struct {
	Date    Date   `json:"date"`
	Index   int    `json:"index"` // day of the window, <= 0 for the left padding
	Padding bool   `json:"padding"`
	Count   int    `json:"count"`
	Tier    Tier   `json:"tier"`
	Label   string `json:"label"`
	Tooltip string `json:"tooltip"`
}

type CalendarWeek []CalendarDay

type Calendar struct {
	Year  int            `json:"year"`
	Today Date           `json:"today"`
	Total int            `json:"total"`
	Weeks []CalendarWeek `json:"weeks"`
}
