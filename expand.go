package rrule

import "sort"

// expandPeriod grows the period anchored at cursor into its date-level
// candidate set, per the per-frequency expansion rules. The returned
// Moments carry cursor's own time fields (a no-op for PlainDate cursors);
// time expansion (BYHOUR/BYMINUTE/BYSECOND) happens separately in
// timeExpand.
func expandPeriod(freq Frequency, cursor Moment, r *Rule) []Moment {
	switch freq {
	case YEARLY:
		return expandYearly(cursor, r)
	case MONTHLY:
		return expandMonthly(cursor, r)
	case WEEKLY:
		return expandWeekly(cursor, r)
	default: // DAILY, HOURLY, MINUTELY, SECONDLY
		if passesDateLimiters(cursor, r) {
			return []Moment{cursor}
		}
		return nil
	}
}

// passesDateLimiters implements the DAILY/HOURLY/MINUTELY/SECONDLY
// candidacy test: bymonth, bymonthday (normalised to positive days) and
// any bare weekday in byweekday. Ordinal BYDAY terms are meaningless at
// this granularity (RFC 5545 §3.3.10) and are treated as bare.
func passesDateLimiters(c Moment, r *Rule) bool {
	if len(r.bymonth) > 0 && !containsInt(r.bymonth, c.Month()) {
		return false
	}
	if len(r.bymonthday) > 0 {
		dim := DaysInMonth(c.Year(), c.Month())
		if !dayMatchesAny(c.Day(), dim, r.bymonthday) {
			return false
		}
	}
	if len(r.byweekday) > 0 {
		wd := WeekdayOf(c)
		matched := false
		for _, t := range r.byweekday {
			if t.Day == wd {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// dayMatchesAny reports whether day (1..dim) matches any entry of
// candidates, where a positive entry matches literally and a negative
// entry n matches dim+n+1 (the n-th-from-last day of the month/year).
func dayMatchesAny(day, length int, candidates []int) bool {
	for _, v := range candidates {
		if v > 0 && v == day {
			return true
		}
		if v < 0 && length+v+1 == day {
			return true
		}
	}
	return false
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

// expandWeekly implements the WEEKLY expansion rule.
func expandWeekly(cursor Moment, r *Rule) []Moment {
	start := StartOfWeek(cursor, r.wkst)
	var out []Moment
	for i := 0; i < 7; i++ {
		day := Add(start, Duration{Days: i})
		wd := WeekdayOf(day)
		matches := false
		if len(r.byweekday) > 0 {
			for _, t := range r.byweekday {
				if t.Day == wd {
					matches = true
					break
				}
			}
		} else {
			matches = wd == WeekdayOf(cursor)
		}
		if !matches {
			continue
		}
		if len(r.bymonth) > 0 && !containsInt(r.bymonth, day.Month()) {
			continue
		}
		if len(r.bymonthday) > 0 {
			dim := DaysInMonth(day.Year(), day.Month())
			if !dayMatchesAny(day.Day(), dim, r.bymonthday) {
				continue
			}
		}
		out = append(out, day)
	}
	return out
}

// expandMonthly implements the MONTHLY expansion rule, including the
// BYMONTHDAY/BYDAY combination table.
func expandMonthly(cursor Moment, r *Rule) []Moment {
	if len(r.bymonth) > 0 && !containsInt(r.bymonth, cursor.Month()) {
		return nil
	}
	dim := DaysInMonth(cursor.Year(), cursor.Month())

	var dMD []int
	if len(r.bymonthday) > 0 {
		seen := make(map[int]bool)
		for _, v := range r.bymonthday {
			var day int
			if v > 0 {
				day = v
			} else {
				day = dim + v + 1
			}
			if day < 1 || day > dim || seen[day] {
				continue
			}
			seen[day] = true
			dMD = append(dMD, day)
		}
		sort.Ints(dMD)
	}

	var dBD []int
	if len(r.byweekday) > 0 {
		dBD = expandByDayInMonth(cursor, dim, r.byweekday)
	}

	var days []int
	switch {
	case len(r.bymonthday) > 0 && len(r.byweekday) > 0:
		set := make(map[int]bool, len(dBD))
		for _, d := range dBD {
			set[d] = true
		}
		for _, d := range dMD {
			if set[d] {
				days = append(days, d)
			}
		}
	case len(r.bymonthday) > 0:
		days = dMD
	case len(r.byweekday) > 0:
		days = dBD
	default:
		days = []int{cursor.Day()}
	}

	out := make([]Moment, 0, len(days))
	for _, d := range days {
		if d < 1 || d > dim {
			continue
		}
		out = append(out, cursor.With(WithDay(d)))
	}
	return out
}

// expandByDayInMonth bucketises every day of the month by weekday and
// resolves each WeekdayTerm against its bucket: a bare weekday contributes
// every day in its bucket, (wd, n>0) contributes bucket element n-1, and
// (wd, n<0) contributes bucket element len+n.
func expandByDayInMonth(cursor Moment, dim int, terms []WeekdayTerm) []int {
	var buckets [7][]int
	for day := 1; day <= dim; day++ {
		wd := WeekdayOf(cursor.With(WithDay(day)))
		buckets[wd] = append(buckets[wd], day)
	}
	seen := make(map[int]bool)
	var out []int
	add := func(day int) {
		if !seen[day] {
			seen[day] = true
			out = append(out, day)
		}
	}
	for _, t := range terms {
		bucket := buckets[t.Day]
		if t.N == 0 {
			for _, day := range bucket {
				add(day)
			}
			continue
		}
		var idx int
		if t.N > 0 {
			idx = t.N - 1
		} else {
			idx = len(bucket) + t.N
		}
		if idx >= 0 && idx < len(bucket) {
			add(bucket[idx])
		}
	}
	sort.Ints(out)
	return out
}

// expandYearly implements the YEARLY expansion precedence.
func expandYearly(cursor Moment, r *Rule) []Moment {
	hasOrdinal := false
	for _, t := range r.byweekday {
		if t.N != 0 {
			hasOrdinal = true
			break
		}
	}

	switch {
	case hasOrdinal && len(r.bymonth) == 0:
		return expandByDayInYear(cursor, r.byweekday)
	case len(r.byyearday) > 0:
		return expandByYearDay(cursor, r)
	case len(r.byweekno) > 0:
		return expandByWeekNo(cursor, r)
	default:
		var months []int
		switch {
		case len(r.bymonth) > 0:
			months = r.bymonth
		case len(r.bymonthday) > 0 || len(r.byweekday) > 0:
			for m := 1; m <= 12; m++ {
				months = append(months, m)
			}
		default:
			months = []int{cursor.Month()}
		}
		var out []Moment
		for _, m := range months {
			synth := cursor.With(WithMonth(m))
			out = append(out, expandMonthly(synth, r)...)
		}
		sortMoments(out)
		return out
	}
}

// expandByDayInYear resolves ordinal/bare weekday terms against buckets of
// every day of the year (equivalent to, and simpler than, walking from the
// start/end of year and jumping 7*(|n|-1) days; restricting each bucket to
// days 1..yearlen already guarantees the result lies in the cursor's
// year).
func expandByDayInYear(cursor Moment, terms []WeekdayTerm) []Moment {
	yearStart := StartOfYear(cursor)
	yearlen := DaysInYear(cursor.Year())

	var buckets [7][]int // day-of-year, 1-indexed
	day := yearStart
	for i := 1; i <= yearlen; i++ {
		wd := WeekdayOf(day)
		buckets[wd] = append(buckets[wd], i)
		if i < yearlen {
			day = Add(day, Duration{Days: 1})
		}
	}

	seen := make(map[int]bool)
	var doys []int
	add := func(doy int) {
		if !seen[doy] {
			seen[doy] = true
			doys = append(doys, doy)
		}
	}
	for _, t := range terms {
		bucket := buckets[t.Day]
		if t.N == 0 {
			for _, doy := range bucket {
				add(doy)
			}
			continue
		}
		var idx int
		if t.N > 0 {
			idx = t.N - 1
		} else {
			idx = len(bucket) + t.N
		}
		if idx >= 0 && idx < len(bucket) {
			add(bucket[idx])
		}
	}
	sort.Ints(doys)

	out := make([]Moment, 0, len(doys))
	for _, doy := range doys {
		out = append(out, Add(yearStart, Duration{Days: doy - 1}))
	}
	return out
}

// expandByYearDay implements YEARLY precedence step 2: BYYEARDAY.
func expandByYearDay(cursor Moment, r *Rule) []Moment {
	yearStart := StartOfYear(cursor)
	yearlen := DaysInYear(cursor.Year())

	seen := make(map[int]bool)
	var out []Moment
	for _, v := range r.byyearday {
		var doy int
		if v > 0 {
			doy = v
		} else {
			doy = yearlen + v + 1
		}
		if doy < 1 || doy > yearlen || seen[doy] {
			continue
		}
		mo := Add(yearStart, Duration{Days: doy - 1})
		if len(r.bymonth) > 0 && !containsInt(r.bymonth, mo.Month()) {
			continue
		}
		seen[doy] = true
		out = append(out, mo)
	}
	sortMoments(out)
	return out
}

// expandByWeekNo implements YEARLY precedence step 3: BYWEEKNO, anchoring
// week 1 as the wkst-week containing January 4th.
func expandByWeekNo(cursor Moment, r *Rule) []Moment {
	jan4 := cursor.With(WithMonth(1), WithDay(4))
	week1Start := StartOfWeek(jan4, r.wkst)
	numWeeks := WeeksInYear(cursor.Year(), r.wkst)

	var out []Moment
	for _, n := range r.byweekno {
		week := n
		if week < 0 {
			week += numWeeks + 1
		}
		if week < 1 || week > numWeeks {
			continue
		}
		weekStart := Add(week1Start, Duration{Weeks: week - 1})
		for d := 0; d < 7; d++ {
			day := Add(weekStart, Duration{Days: d})
			if day.Year() != cursor.Year() {
				continue
			}
			if len(r.byweekday) > 0 {
				wd := WeekdayOf(day)
				matched := false
				for _, t := range r.byweekday {
					if t.Day == wd {
						matched = true
						break
					}
				}
				if !matched {
					continue
				}
			}
			out = append(out, day)
		}
	}
	sortMoments(out)
	return out
}

// timeExpand applies the cartesian product of BYHOUR x BYMINUTE x BYSECOND
// to each date-level candidate. It is a no-op on PlainDate moments and
// when a candidate set is empty.
func timeExpand(dates []Moment, r *Rule) []Moment {
	if len(dates) == 0 {
		return nil
	}
	if dates[0].Kind() == KindPlainDate {
		return dates
	}

	var out []Moment
	for _, d := range dates {
		hours := r.byhour
		if len(hours) == 0 {
			h, _ := d.Hour()
			hours = []int{h}
		}
		minutes := r.byminute
		if len(minutes) == 0 {
			mi, _ := d.Minute()
			minutes = []int{mi}
		}
		seconds := r.bysecond
		if len(seconds) == 0 {
			s, _ := d.Second()
			seconds = []int{s}
		}
		for _, h := range hours {
			for _, mi := range minutes {
				for _, s := range seconds {
					out = append(out, d.With(WithHour(h), WithMinute(mi), WithSecond(s)))
				}
			}
		}
	}
	sortMoments(out)
	return out
}

// applyBySetPos selects occurrences by their 1-indexed (or negative,
// from-the-end) position within the period's expanded set. An empty
// positions list is a no-op.
func applyBySetPos(expanded []Moment, positions []int) []Moment {
	if len(positions) == 0 {
		return expanded
	}
	n := len(expanded)
	seen := make(map[int]bool, len(positions))
	var indices []int
	for _, p := range positions {
		var idx int
		if p > 0 {
			idx = p - 1
		} else {
			idx = n + p
		}
		if idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	out := make([]Moment, 0, len(indices))
	for _, idx := range indices {
		out = append(out, expanded[idx])
	}
	return out
}

func sortMoments(moments []Moment) {
	sort.Slice(moments, func(i, j int) bool {
		return Compare(moments[i], moments[j]) < 0
	})
}
