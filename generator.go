package rrule

import "time"

// GeneratorOption configures a Generator at construction time.
type GeneratorOption func(*Generator)

// WithMaxIterations overrides the hard iteration cap. n must be >= 1;
// values <= 0 are ignored and the default is kept.
func WithMaxIterations(n int) GeneratorOption {
	return func(g *Generator) {
		if n >= 1 {
			g.maxIterations = n
		}
	}
}

// WithSeek supplies an optional seek target: the generator may advance its
// cursor by whole periods toward target before its first Next() call,
// without emitting, so long as it never skips an occurrence >= target. It
// is a performance concession, not a correctness requirement - a Generator
// built without it produces the same sequence, only slower to reach the
// neighbourhood of target. A rule with COUNT is never seeked, since the
// skipped periods would not be counted toward it.
func WithSeek(target Moment) GeneratorOption {
	return func(g *Generator) {
		t := target
		g.seekTarget = &t
	}
}

// Generator is the lazy, restartable occurrence sequence: single-threaded,
// cooperative, pull-based, and owned by one consumer at a time. Build one
// with NewGenerator and pull Moments with Next until it reports
// exhaustion.
type Generator struct {
	rule          *Rule
	cursor        Moment
	maxIterations int
	iterations    int
	consecutive   int
	emitted       int
	pending       []Moment
	finished      bool
	err           error
	seekTarget    *Moment
}

// NewGenerator builds a Generator over rule. It fails with
// ErrMissingDtstart if rule has no dtstart, since the generator cannot
// anchor its cursor without one.
func NewGenerator(rule *Rule, opts ...GeneratorOption) (*Generator, error) {
	dtstart, ok := rule.Dtstart()
	if !ok {
		return nil, ErrMissingDtstart
	}
	g := &Generator{
		rule:          rule,
		cursor:        dtstart,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(g)
	}
	if _, hasCount := rule.Count(); g.seekTarget != nil && !hasCount {
		g.cursor = seekCursor(g.cursor, rule.freq, rule.interval, *g.seekTarget)
	}
	return g, nil
}

// Next returns the next occurrence, or ok=false when the sequence is
// exhausted (COUNT reached, UNTIL exceeded, or the empty-period detector
// fired). err is non-nil only for ErrMaxIterationsExceeded; once it is
// returned, every subsequent call returns the same error.
func (g *Generator) Next() (Moment, bool, error) {
	if g.err != nil {
		return Moment{}, false, g.err
	}
	if len(g.pending) == 0 {
		if err := g.fill(); err != nil {
			g.err = err
			return Moment{}, false, err
		}
	}
	if len(g.pending) == 0 {
		return Moment{}, false, nil
	}
	next := g.pending[0]
	g.pending = g.pending[1:]
	return next, true, nil
}

// fill runs whole periods through the expand/time-expand/set-pos pipeline
// until at least one occurrence is buffered in pending, or the sequence
// terminates (normally or via the hard cap).
func (g *Generator) fill() error {
	dtstart, _ := g.rule.Dtstart()
	until, hasUntil := g.rule.Until()

	for len(g.pending) == 0 && !g.finished {
		g.iterations++
		if g.iterations > g.maxIterations {
			g.finished = true
			return ErrMaxIterationsExceeded
		}

		candidates := expandPeriod(g.rule.freq, g.cursor, g.rule)
		expanded := timeExpand(candidates, g.rule)
		survivors := applyBySetPos(expanded, g.rule.bysetpos)

		emittedThisPeriod := 0
		for _, mo := range survivors {
			if mo.Before(dtstart) {
				continue
			}
			if hasUntil && mo.After(until) {
				g.finished = true
				break
			}
			g.pending = append(g.pending, mo)
			emittedThisPeriod++
			g.emitted++
			if count, ok := g.rule.Count(); ok && g.emitted >= count {
				g.finished = true
				break
			}
		}

		if emittedThisPeriod == 0 {
			g.consecutive++
			if g.consecutive >= emptyPeriodLimit && g.emitted == 0 {
				g.finished = true
				return nil
			}
		} else {
			g.consecutive = 0
		}

		if g.finished {
			return nil
		}
		g.cursor = advanceCursor(g.cursor, g.rule.freq, g.rule.interval)
	}
	return nil
}

// advanceCursor steps cursor forward by interval units of freq.
// YEARLY/MONTHLY deliberately do not clamp the day-of-month field:
// carrying an out-of-range day forward (e.g. day 31 into a 30-day month)
// is what makes an invalid date expand to an empty period instead, by
// leaving expandMonthly to discover the day doesn't exist this period.
func advanceCursor(cursor Moment, freq Frequency, interval int) Moment {
	switch freq {
	case YEARLY:
		return cursor.With(WithYear(cursor.Year() + interval))
	case MONTHLY:
		total := cursor.Year()*12 + (cursor.Month() - 1) + interval
		y := total / 12
		m := total % 12
		if m < 0 {
			m += 12
			y--
		}
		return cursor.With(WithYear(y), WithMonth(m+1))
	case WEEKLY:
		return Add(cursor, Duration{Days: 7 * interval})
	case DAILY:
		return Add(cursor, Duration{Days: interval})
	case HOURLY:
		return Add(cursor, Duration{Hours: interval})
	case MINUTELY:
		return Add(cursor, Duration{Minutes: interval})
	default: // SECONDLY
		return Add(cursor, Duration{Seconds: interval})
	}
}

// seekCursor advances cursor toward target by whole periods, staying one
// period short so no emission >= target can be skipped: arithmetic period
// counting can land one period short near boundaries, so this errs
// conservative. Sub-daily frequencies are left unseeked.
func seekCursor(cursor Moment, freq Frequency, interval int, target Moment) Moment {
	if interval < 1 || !cursor.Before(target) {
		return cursor
	}
	switch freq {
	case YEARLY:
		periods := (target.Year() - cursor.Year()) / interval
		if periods > 0 {
			periods--
			return cursor.With(WithYear(cursor.Year() + periods*interval))
		}
	case MONTHLY:
		totalMonths := (target.Year()-cursor.Year())*12 + (target.Month() - cursor.Month())
		periods := totalMonths / interval
		if periods > 0 {
			periods--
			total := cursor.Year()*12 + (cursor.Month() - 1) + periods*interval
			y := total / 12
			m := total % 12
			if m < 0 {
				m += 12
				y--
			}
			return cursor.With(WithYear(y), WithMonth(m+1))
		}
	case WEEKLY:
		days := daysBetween(cursor, target)
		periods := days / (7 * interval)
		if periods > 0 {
			periods--
			return Add(cursor, Duration{Days: periods * interval * 7})
		}
	case DAILY:
		days := daysBetween(cursor, target)
		periods := days / interval
		if periods > 0 {
			periods--
			return Add(cursor, Duration{Days: periods * interval})
		}
	}
	return cursor
}

func daysBetween(a, b Moment) int {
	ta := time.Date(a.Year(), time.Month(a.Month()), a.Day(), 0, 0, 0, 0, time.UTC)
	tb := time.Date(b.Year(), time.Month(b.Month()), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(tb.Sub(ta).Hours() / 24)
}
