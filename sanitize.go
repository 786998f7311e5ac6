package rrule

import "fmt"

// sanitize range-checks and dedups every selector (dropping invalid
// values silently), injects defaults, and enforces the structural
// cross-field invariants that fail construction outright.
func sanitize(opts RuleOptions) (Rule, error) {
	r := Rule{freq: opts.Freq}

	if opts.Interval <= 0 {
		r.interval = 1
	} else {
		r.interval = opts.Interval
	}

	if opts.Dtstart != nil {
		d := *opts.Dtstart
		r.dtstart = &d
	}

	// Structural: COUNT and UNTIL are mutually exclusive.
	if opts.Count > 0 && opts.Until != nil {
		return Rule{}, fmt.Errorf("%w: COUNT and UNTIL cannot both be set", ErrInvalidRule)
	}
	if opts.Count > 0 {
		r.count = opts.Count
	}
	if opts.Until != nil {
		u := *opts.Until
		// Structural: UNTIL < DTSTART is rejected at construction.
		if r.dtstart != nil && Compare(u, *r.dtstart) < 0 {
			return Rule{}, fmt.Errorf("%w: UNTIL is before DTSTART", ErrInvalidRule)
		}
		r.until = &u
	}

	if opts.Wkst != nil {
		r.wkst = *opts.Wkst
	} else {
		r.wkst = MO
	}

	r.bymonth = dedupFiltered(opts.Bymonth, 1, 12, false)
	r.bymonthday = dedupFiltered(opts.Bymonthday, -31, 31, true)
	r.byyearday = dedupFiltered(opts.Byyearday, -366, 366, true)
	r.byweekno = dedupFiltered(opts.Byweekno, -53, 53, true)
	r.byhour = dedupFiltered(opts.Byhour, 0, 23, false)
	r.byminute = dedupFiltered(opts.Byminute, 0, 59, false)
	r.bysecond = dedupFiltered(opts.Bysecond, 0, 59, false)
	r.bysetpos = dedupFiltered(opts.Bysetpos, -366, 366, true)
	r.byweekday = dedupWeekdayTerms(opts.Byweekday)

	// Structural: BYSETPOS requires at least one other BY* selector.
	if len(r.bysetpos) > 0 && !hasAnyBySelector(r) {
		return Rule{}, fmt.Errorf("%w: BYSETPOS requires another BY* selector", ErrInvalidRule)
	}

	return r, nil
}

func hasAnyBySelector(r Rule) bool {
	return len(r.bymonth) > 0 || len(r.bymonthday) > 0 || len(r.byyearday) > 0 ||
		len(r.byweekno) > 0 || len(r.byweekday) > 0 || len(r.byhour) > 0 ||
		len(r.byminute) > 0 || len(r.bysecond) > 0
}

// dedupFiltered drops values outside [lo, hi] (also allowing [-hi, -lo]
// when negatives is true), drops 0 when negatives is true (0 is never a
// valid ordinal selector value), then deduplicates preserving first-seen
// order.
func dedupFiltered(values []int, lo, hi int, negatives bool) []int {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if negatives && v == 0 {
			continue
		}
		inPositive := v >= lo && v <= hi
		inNegative := negatives && v >= -hi && v <= -lo
		if !inPositive && !inNegative {
			continue
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func dedupWeekdayTerms(terms []WeekdayTerm) []WeekdayTerm {
	if len(terms) == 0 {
		return nil
	}
	type key struct {
		day Weekday
		n   int
	}
	seen := make(map[key]bool, len(terms))
	out := make([]WeekdayTerm, 0, len(terms))
	for _, t := range terms {
		if t.Day < MO || t.Day > SU {
			continue
		}
		if t.N > 53 || t.N < -53 {
			continue
		}
		k := key{t.Day, t.N}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
