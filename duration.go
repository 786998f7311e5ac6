package rrule

// Duration is a calendar-aware offset: years and months are applied with
// constrain semantics (clamped to the last valid day of the target month)
// before weeks/days/hours/minutes/seconds/milliseconds are applied as exact
// elapsed time. All fields may be negative; Subtract negates every field
// and delegates to Add.
type Duration struct {
	Years        int
	Months       int
	Weeks        int
	Days         int
	Hours        int
	Minutes      int
	Seconds      int
	Milliseconds int
}

func (d Duration) negate() Duration {
	return Duration{
		Years:        -d.Years,
		Months:       -d.Months,
		Weeks:        -d.Weeks,
		Days:         -d.Days,
		Hours:        -d.Hours,
		Minutes:      -d.Minutes,
		Seconds:      -d.Seconds,
		Milliseconds: -d.Milliseconds,
	}
}

// addMonthsConstrained advances (year, month) by months total calendar
// months and clamps day to the last valid day of the landing month:
// Jan 31 + 1 month lands on Feb 28 (or 29), not March 3.
func addMonthsConstrained(year, month, day, months int) (int, int, int) {
	total := (year*12 + (month - 1)) + months
	y := total / 12
	m := total % 12
	if m < 0 {
		m += 12
		y--
	}
	m++ // back to 1..12
	dim := DaysInMonth(y, m)
	if day > dim {
		day = dim
	}
	return y, m, day
}
