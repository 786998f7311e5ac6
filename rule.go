package rrule

// RuleOptions is the caller-facing construction record for a Rule.
// Selector slices need not be sorted, deduplicated or range-checked by the
// caller - NewRule sanitizes them before building the immutable Rule.
type RuleOptions struct {
	Freq       Frequency
	Dtstart    *Moment
	Interval   int
	Count      int // 0 means "not set"
	Until      *Moment
	Wkst       *Weekday // nil means "not set", defaults to MO
	Bymonth    []int
	Bymonthday []int
	Byyearday  []int
	Byweekno   []int
	Byweekday  []WeekdayTerm
	Byhour     []int
	Byminute   []int
	Bysecond   []int
	Bysetpos   []int
}

// Rule is the sanitized, immutable recurrence rule. Build one with NewRule
// or ParseText; query it with a Generator (generator.go) or one of the
// helpers in query.go. Field setters (WithX methods) return a new,
// re-validated Rule rather than mutating the receiver - a live Generator
// over the original Rule is unaffected.
type Rule struct {
	freq       Frequency
	dtstart    *Moment
	interval   int
	count      int
	until      *Moment
	wkst       Weekday
	bymonth    []int
	bymonthday []int
	byyearday  []int
	byweekno   []int
	byweekday  []WeekdayTerm
	byhour     []int
	byminute   []int
	bysecond   []int
	bysetpos   []int
}

// NewRule sanitizes opts and returns the resulting immutable Rule, or
// ErrInvalidRule if a structural cross-field constraint is violated.
func NewRule(opts RuleOptions) (*Rule, error) {
	clean, err := sanitize(opts)
	if err != nil {
		return nil, err
	}
	return &clean, nil
}

// Freq returns the rule's frequency.
func (r *Rule) Freq() Frequency { return r.freq }

// Dtstart returns the rule's start anchor and whether one is set.
func (r *Rule) Dtstart() (Moment, bool) {
	if r.dtstart == nil {
		return Moment{}, false
	}
	return *r.dtstart, true
}

// Interval returns the rule's step size in units of Freq (always >= 1).
func (r *Rule) Interval() int { return r.interval }

// Count returns the rule's occurrence cap and whether one is set.
func (r *Rule) Count() (int, bool) {
	if r.count == 0 {
		return 0, false
	}
	return r.count, true
}

// Until returns the rule's end anchor and whether one is set.
func (r *Rule) Until() (Moment, bool) {
	if r.until == nil {
		return Moment{}, false
	}
	return *r.until, true
}

// Wkst returns the effective week-start day (defaults to MO).
func (r *Rule) Wkst() Weekday { return r.wkst }

func cloneInts(s []int) []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s))
	copy(out, s)
	return out
}

func cloneWeekdayTerms(s []WeekdayTerm) []WeekdayTerm {
	if s == nil {
		return nil
	}
	out := make([]WeekdayTerm, len(s))
	copy(out, s)
	return out
}

// Bymonth, Bymonthday, Byyearday, Byweekno, Byweekday, Byhour, Byminute,
// Bysecond and Bysetpos return defensive copies of the corresponding
// selector lists (nil when unset).
func (r *Rule) Bymonth() []int    { return cloneInts(r.bymonth) }
func (r *Rule) Bymonthday() []int { return cloneInts(r.bymonthday) }
func (r *Rule) Byyearday() []int  { return cloneInts(r.byyearday) }
func (r *Rule) Byweekno() []int   { return cloneInts(r.byweekno) }
func (r *Rule) Byweekday() []WeekdayTerm {
	return cloneWeekdayTerms(r.byweekday)
}
func (r *Rule) Byhour() []int   { return cloneInts(r.byhour) }
func (r *Rule) Byminute() []int { return cloneInts(r.byminute) }
func (r *Rule) Bysecond() []int { return cloneInts(r.bysecond) }
func (r *Rule) Bysetpos() []int { return cloneInts(r.bysetpos) }

// toOptions renders r back into a RuleOptions, the inverse of sanitize
// modulo defaulting - used by the WithX setters.
func (r *Rule) toOptions() RuleOptions {
	opts := RuleOptions{
		Freq:       r.freq,
		Interval:   r.interval,
		Count:      r.count,
		Bymonth:    cloneInts(r.bymonth),
		Bymonthday: cloneInts(r.bymonthday),
		Byyearday:  cloneInts(r.byyearday),
		Byweekno:   cloneInts(r.byweekno),
		Byweekday:  cloneWeekdayTerms(r.byweekday),
		Byhour:     cloneInts(r.byhour),
		Byminute:   cloneInts(r.byminute),
		Bysecond:   cloneInts(r.bysecond),
		Bysetpos:   cloneInts(r.bysetpos),
	}
	if r.dtstart != nil {
		m := *r.dtstart
		opts.Dtstart = &m
	}
	if r.until != nil {
		m := *r.until
		opts.Until = &m
	}
	wkst := r.wkst
	opts.Wkst = &wkst
	return opts
}

// Clone returns an independent copy of r. Since Rule is treated as
// immutable once built, Clone exists for callers who want to derive a
// modified rule without disturbing a shared original.
func (r *Rule) Clone() *Rule {
	clone := *r
	clone.bymonth = cloneInts(r.bymonth)
	clone.bymonthday = cloneInts(r.bymonthday)
	clone.byyearday = cloneInts(r.byyearday)
	clone.byweekno = cloneInts(r.byweekno)
	clone.byweekday = cloneWeekdayTerms(r.byweekday)
	clone.byhour = cloneInts(r.byhour)
	clone.byminute = cloneInts(r.byminute)
	clone.bysecond = cloneInts(r.bysecond)
	clone.bysetpos = cloneInts(r.bysetpos)
	if r.dtstart != nil {
		m := *r.dtstart
		clone.dtstart = &m
	}
	if r.until != nil {
		m := *r.until
		clone.until = &m
	}
	return &clone
}

// WithDtstart returns a new Rule with Dtstart replaced, re-sanitized.
func (r *Rule) WithDtstart(dtstart Moment) (*Rule, error) {
	opts := r.toOptions()
	opts.Dtstart = &dtstart
	return NewRule(opts)
}

// WithUntil returns a new Rule with Until replaced, re-sanitized. Passing
// nil clears it.
func (r *Rule) WithUntil(until *Moment) (*Rule, error) {
	opts := r.toOptions()
	opts.Until = until
	opts.Count = 0
	return NewRule(opts)
}

// WithCount returns a new Rule with Count replaced, re-sanitized. Passing
// 0 clears it.
func (r *Rule) WithCount(count int) (*Rule, error) {
	opts := r.toOptions()
	opts.Count = count
	opts.Until = nil
	return NewRule(opts)
}
