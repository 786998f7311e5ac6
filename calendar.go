package rrule

import "time"

// IsLeap reports whether year is a leap year in the proleptic Gregorian
// calendar.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var daysInMonthTable = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in the given month (1..12) of
// year, accounting for leap years in February.
func DaysInMonth(year, month int) int {
	for month < 1 {
		month += 12
		year--
	}
	for month > 12 {
		month -= 12
		year++
	}
	n := daysInMonthTable[month-1]
	if month == 2 && IsLeap(year) {
		n = 29
	}
	return n
}

// DaysInYear returns 366 for a leap year, 365 otherwise.
func DaysInYear(year int) int {
	if IsLeap(year) {
		return 366
	}
	return 365
}

// weekdayIndex maps a Go stdlib time.Weekday (Sunday=0) to the RFC 5545
// index used throughout this package (Monday=0 .. Sunday=6).
func weekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// WeekdayOf returns the Weekday that m's date falls on.
func WeekdayOf(m Moment) Weekday {
	t := time.Date(m.year, time.Month(m.month), m.day, 0, 0, 0, 0, time.UTC)
	return Weekday(weekdayIndex(t.Weekday()))
}

// WeekdayIndex returns 0..6 (0=MO) for w; it exists alongside the Weekday
// type itself so callers that only have an int can still participate in
// the same index space as WeekdayOf.
func WeekdayIndex(w Weekday) int { return int(w) }

// DayOfYear returns m's 1-based ordinal day within its year.
func DayOfYear(m Moment) int {
	t := time.Date(m.year, time.Month(m.month), m.day, 0, 0, 0, 0, time.UTC)
	return t.YearDay()
}

// ISOWeek returns the ISO-8601 week number (1..53) of m's date: the week
// number of the week containing the nearest Thursday.
func ISOWeek(m Moment) int {
	t := time.Date(m.year, time.Month(m.month), m.day, 0, 0, 0, 0, time.UTC)
	_, week := t.ISOWeek()
	return week
}

// WeeksInYear returns the number of BYWEEKNO-addressable weeks (52 or 53)
// in year, given wkst as the week-start day: 53 iff Jan 1 falls on wkst,
// or the year is a leap year and Jan 1 falls on the day before wkst.
func WeeksInYear(year int, wkst Weekday) int {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	jan1Idx := weekdayIndex(jan1.Weekday())
	if jan1Idx == int(wkst) {
		return 53
	}
	if IsLeap(year) && jan1Idx == pymod(int(wkst)-1, 7) {
		return 53
	}
	return 52
}

// StartOfYear returns the Moment for January 1 of m's year, preserving
// m's time fields.
func StartOfYear(m Moment) Moment {
	return m.With(WithMonth(1), WithDay(1))
}

// EndOfYear returns the Moment for December 31 of m's year, preserving m's
// time fields.
func EndOfYear(m Moment) Moment {
	return m.With(WithMonth(12), WithDay(31))
}

// StartOfWeek returns the Moment for the first day (per wkst) of the week
// containing m, by subtracting (index(m) - index(wkst)) mod 7 days.
func StartOfWeek(m Moment, wkst Weekday) Moment {
	idx := WeekdayIndex(WeekdayOf(m))
	back := pymod(idx-int(wkst), 7)
	if back == 0 {
		return m
	}
	return Subtract(m, Duration{Days: back})
}

// pymod is modulo whose result is never negative: it always lies in
// [0, |b|), which for the positive divisors used here is Python's sign
// convention, matching the arithmetic the dateutil-derived RRULE
// algorithms rely on throughout.
func pymod(a, b int) int {
	m := a % b
	if m < 0 {
		m += abs(b)
	}
	return m
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// divmod returns (a/b, a%b) using Go's truncating division, matching the
// teacher's helper of the same name.
func divmod(a, b int) (int, int) {
	return a / b, a % b
}
