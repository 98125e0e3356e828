// Package schedule implements the weekly business-hours calendar used for
// SLA windows that only count working time.
package schedule

import "time"

// DayWindow is the working interval for one weekday, expressed as minutes
// from midnight. A zero window means a non-working day.
type DayWindow struct {
	StartMinute int
	EndMinute   int
}

// Calendar maps weekdays to working windows. One window per day is enough
// for the complexes this serves; lunch breaks do not pause the SLA clock.
type Calendar struct {
	Days map[time.Weekday]DayWindow
}

// DefaultCalendar is Monday-Friday 08:00-18:00 and Saturday 08:00-12:00.
func DefaultCalendar() *Calendar {
	weekday := DayWindow{StartMinute: 8 * 60, EndMinute: 18 * 60}
	return &Calendar{
		Days: map[time.Weekday]DayWindow{
			time.Monday:    weekday,
			time.Tuesday:   weekday,
			time.Wednesday: weekday,
			time.Thursday:  weekday,
			time.Friday:    weekday,
			time.Saturday:  {StartMinute: 8 * 60, EndMinute: 12 * 60},
		},
	}
}

func (c *Calendar) window(day time.Weekday) (DayWindow, bool) {
	w, ok := c.Days[day]
	if !ok || w.EndMinute <= w.StartMinute {
		return DayWindow{}, false
	}
	return w, true
}

// MinutesBetween counts the business minutes elapsed between from and to.
func (c *Calendar) MinutesBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	total := 0
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for day.Before(to) {
		w, ok := c.window(day.Weekday())
		if ok {
			open := day.Add(time.Duration(w.StartMinute) * time.Minute)
			close := day.Add(time.Duration(w.EndMinute) * time.Minute)
			start := maxTime(open, from)
			end := minTime(close, to)
			if end.After(start) {
				total += int(end.Sub(start) / time.Minute)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return total
}

// AddMinutes advances from by the given number of business minutes.
// Intervals outside working windows do not count toward the deadline.
func (c *Calendar) AddMinutes(from time.Time, minutes int) time.Time {
	if minutes <= 0 {
		return from
	}
	remaining := time.Duration(minutes) * time.Minute
	cursor := from
	// Bounded walk: an empty calendar would otherwise never terminate.
	for i := 0; i < 366*2; i++ {
		day := time.Date(cursor.Year(), cursor.Month(), cursor.Day(), 0, 0, 0, 0, cursor.Location())
		w, ok := c.window(day.Weekday())
		if ok {
			open := day.Add(time.Duration(w.StartMinute) * time.Minute)
			close := day.Add(time.Duration(w.EndMinute) * time.Minute)
			if cursor.Before(open) {
				cursor = open
			}
			if cursor.Before(close) {
				available := close.Sub(cursor)
				if available >= remaining {
					return cursor.Add(remaining)
				}
				remaining -= available
			}
		}
		cursor = day.AddDate(0, 0, 1)
	}
	return cursor.Add(remaining)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
