package rrule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseMode selects how the textual codec reacts to malformed input.
type ParseMode int

const (
	// Lenient drops unknown keys, unknown DTSTART parameters and malformed
	// or out-of-range values of FREQ, INTERVAL, COUNT, WKST and the BY*
	// lists, replacing an invalid FREQ with YEARLY. It still fails on
	// structural cross-field violations (COUNT+UNTIL, UNTIL<DTSTART,
	// BYSETPOS without a partner), on an unparsable DTSTART or UNTIL
	// literal, on a property line with no ':' and on text with no RRULE
	// line.
	Lenient ParseMode = iota
	// Strict rejects any malformed token, unknown key or out-of-range
	// value with a descriptive error naming the offending key.
	Strict
)

const (
	dateLayout        = "20060102"
	dateTimeLayout    = "20060102T150405"
	dateTimeUTCLayout = "20060102T150405Z"
)

// Unfold collapses RFC 5545 line folding: a CRLF or LF immediately
// followed by a single SPACE or TAB introduces a continuation and is
// removed so the line can be tokenised as one unit.
func Unfold(text string) string {
	text = strings.ReplaceAll(text, "\r\n ", "")
	text = strings.ReplaceAll(text, "\r\n\t", "")
	text = strings.ReplaceAll(text, "\n ", "")
	text = strings.ReplaceAll(text, "\n\t", "")
	return text
}

// splitPropertyLine splits a "NAME[;PARAM=VALUE...]:VALUE" line into its
// name, parameter list and trailing value.
func splitPropertyLine(line string) (name string, params []string, value string, err error) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return "", nil, "", fmt.Errorf("%w: missing ':' in property line %q", ErrMalformedText, line)
	}
	head, value := line[:colon], line[colon+1:]
	parts := strings.Split(head, ";")
	name = parts[0]
	params = parts[1:]
	return name, params, value, nil
}

// ParseDtstartLine parses a DTSTART line of the form
// DTSTART[;TZID=<zone>][;VALUE=DATE|DATE-TIME]:<value>.
func ParseDtstartLine(line string, mode ParseMode, resolver ZoneResolver) (Moment, error) {
	name, params, value, err := splitPropertyLine(line)
	if err != nil {
		return Moment{}, err
	}
	if !strings.EqualFold(name, "DTSTART") {
		return Moment{}, fmt.Errorf("%w: expected DTSTART, got %q", ErrMalformedText, name)
	}

	var tzid, valueType string
	for _, p := range params {
		k, v, found := strings.Cut(p, "=")
		if !found {
			if mode == Strict {
				return Moment{}, fmt.Errorf("%w: malformed DTSTART parameter %q", ErrMalformedText, p)
			}
			continue
		}
		switch strings.ToUpper(k) {
		case "TZID":
			tzid = v
		case "VALUE":
			valueType = strings.ToUpper(v)
		default:
			if mode == Strict {
				return Moment{}, fmt.Errorf("%w: unknown DTSTART parameter %q", ErrMalformedText, k)
			}
		}
	}

	switch len(value) {
	case len(dateLayout):
		if tzid != "" && mode == Strict {
			return Moment{}, fmt.Errorf("%w: TZID not allowed with a date-only DTSTART value", ErrMalformedText)
		}
		if valueType != "" && valueType != "DATE" && mode == Strict {
			return Moment{}, fmt.Errorf("%w: VALUE=%s conflicts with a date-only literal", ErrMalformedText, valueType)
		}
		t, err := time.ParseInLocation(dateLayout, value, time.UTC)
		if err != nil {
			return Moment{}, fmt.Errorf("%w: %v", ErrInvalidMoment, err)
		}
		return NewPlainDate(t.Year(), int(t.Month()), t.Day()), nil

	case len(dateTimeUTCLayout):
		if !strings.HasSuffix(value, "Z") {
			return Moment{}, fmt.Errorf("%w: unrecognised DTSTART value %q", ErrMalformedText, value)
		}
		if tzid != "" && mode == Strict {
			return Moment{}, fmt.Errorf("%w: TZID not allowed with a UTC DTSTART value", ErrMalformedText)
		}
		t, err := time.Parse(dateTimeUTCLayout, value)
		if err != nil {
			return Moment{}, fmt.Errorf("%w: %v", ErrInvalidMoment, err)
		}
		return NewZonedDateTime(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, "UTC", time.UTC), nil

	case len(dateTimeLayout):
		t, err := time.ParseInLocation(dateTimeLayout, value, time.UTC)
		if err != nil {
			return Moment{}, fmt.Errorf("%w: %v", ErrInvalidMoment, err)
		}
		if tzid != "" {
			if resolver == nil {
				resolver = UTCZoneResolver{}
			}
			plain := NewPlainDateTime(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), 0)
			zoned, err := resolver.ToZone(plain, tzid)
			if err != nil {
				return Moment{}, fmt.Errorf("%w: %v", ErrInvalidMoment, err)
			}
			return zoned, nil
		}
		return NewPlainDateTime(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), 0), nil

	default:
		return Moment{}, fmt.Errorf("%w: unrecognised DTSTART value %q", ErrMalformedText, value)
	}
}

// parseMomentLiteral parses a bare value in one of the three DTSTART/UNTIL
// literal forms, without any parameters, in loc for the naive-datetime
// case (used for UNTIL, which carries no TZID of its own and is emitted
// in a form compatible with DTSTART).
func parseMomentLiteral(value string, loc *time.Location) (Moment, error) {
	switch len(value) {
	case len(dateLayout):
		t, err := time.ParseInLocation(dateLayout, value, time.UTC)
		if err != nil {
			return Moment{}, fmt.Errorf("%w: %v", ErrInvalidMoment, err)
		}
		return NewPlainDate(t.Year(), int(t.Month()), t.Day()), nil
	case len(dateTimeUTCLayout):
		if !strings.HasSuffix(value, "Z") {
			return Moment{}, fmt.Errorf("%w: unrecognised literal %q", ErrMalformedText, value)
		}
		t, err := time.Parse(dateTimeUTCLayout, value)
		if err != nil {
			return Moment{}, fmt.Errorf("%w: %v", ErrInvalidMoment, err)
		}
		return NewZonedDateTime(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, "UTC", time.UTC), nil
	case len(dateTimeLayout):
		t, err := time.ParseInLocation(dateTimeLayout, value, loc)
		if err != nil {
			return Moment{}, fmt.Errorf("%w: %v", ErrInvalidMoment, err)
		}
		return NewPlainDateTime(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), 0), nil
	default:
		return Moment{}, fmt.Errorf("%w: unrecognised literal %q", ErrMalformedText, value)
	}
}

var rangeByKey = map[string][2]int{
	"BYMONTH":    {1, 12},
	"BYMONTHDAY": {1, 31},
	"BYYEARDAY":  {1, 366},
	"BYWEEKNO":   {1, 53},
	"BYHOUR":     {0, 23},
	"BYMINUTE":   {0, 59},
	"BYSECOND":   {0, 59},
	"BYSETPOS":   {1, 366},
}

var negativeAllowedKeys = map[string]bool{
	"BYMONTHDAY": true, "BYYEARDAY": true, "BYWEEKNO": true, "BYSETPOS": true,
}

func parseIntList(key, value string, mode ParseMode) ([]int, error) {
	bounds, hasBounds := rangeByKey[key]
	negatives := negativeAllowedKeys[key]
	var out []int
	for _, tok := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			if mode == Strict {
				return nil, fmt.Errorf("%w: %s value %q is not an integer", ErrMalformedText, key, tok)
			}
			continue
		}
		if hasBounds {
			inRange := n >= bounds[0] && n <= bounds[1]
			inNegRange := negatives && n <= -bounds[0] && n >= -bounds[1]
			if !inRange && !inNegRange {
				if mode == Strict {
					return nil, fmt.Errorf("%w: %s value %d out of range", ErrUnsupported, key, n)
				}
				continue
			}
		}
		out = append(out, n)
	}
	return out, nil
}

func parseWeekdayList(value string, mode ParseMode) ([]WeekdayTerm, error) {
	var out []WeekdayTerm
	for _, tok := range strings.Split(value, ",") {
		term, err := parseWeekdayTerm(tok)
		if err != nil {
			if mode == Strict {
				return nil, err
			}
			continue
		}
		out = append(out, term)
	}
	return out, nil
}

// ParseRRuleLine parses a single "RRULE:KEY=VALUE;..." line into a
// RuleOptions. Keys are case-insensitive; BYDAY and BYWEEKDAY are aliases.
func ParseRRuleLine(line string, mode ParseMode) (RuleOptions, error) {
	name, _, value, err := splitPropertyLine(line)
	if err != nil {
		return RuleOptions{}, err
	}
	if !strings.EqualFold(name, "RRULE") {
		return RuleOptions{}, fmt.Errorf("%w: expected RRULE, got %q", ErrMalformedText, name)
	}

	opts := RuleOptions{Interval: 1}
	freqSet := false

	for _, attr := range strings.Split(value, ";") {
		if attr == "" {
			continue
		}
		key, val, found := strings.Cut(attr, "=")
		if !found || val == "" {
			if mode == Strict {
				return RuleOptions{}, fmt.Errorf("%w: malformed RRULE attribute %q", ErrMalformedText, attr)
			}
			continue
		}
		key = strings.ToUpper(key)

		switch key {
		case "FREQ":
			freq, ok := parseFrequency(val)
			if !ok {
				if mode == Strict {
					return RuleOptions{}, fmt.Errorf("%w: invalid FREQ %q", ErrMalformedText, val)
				}
				freq = YEARLY
			}
			opts.Freq = freq
			freqSet = true
		case "INTERVAL":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				if mode == Strict {
					kind := ErrUnsupported
					if err != nil {
						kind = ErrMalformedText
					}
					return RuleOptions{}, fmt.Errorf("%w: invalid INTERVAL %q", kind, val)
				}
				continue
			}
			opts.Interval = n
		case "COUNT":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				if mode == Strict {
					kind := ErrUnsupported
					if err != nil {
						kind = ErrMalformedText
					}
					return RuleOptions{}, fmt.Errorf("%w: invalid COUNT %q", kind, val)
				}
				continue
			}
			opts.Count = n
		case "UNTIL":
			m, err := parseMomentLiteral(val, time.UTC)
			if err != nil {
				return RuleOptions{}, fmt.Errorf("UNTIL: %w", err)
			}
			opts.Until = &m
		case "WKST":
			wd, ok := parseWeekdayToken(val)
			if !ok {
				if mode == Strict {
					return RuleOptions{}, fmt.Errorf("%w: invalid WKST %q", ErrMalformedText, val)
				}
				continue
			}
			opts.Wkst = &wd
		case "BYMONTH":
			list, err := parseIntList(key, val, mode)
			if err != nil {
				return RuleOptions{}, err
			}
			opts.Bymonth = list
		case "BYMONTHDAY":
			list, err := parseIntList(key, val, mode)
			if err != nil {
				return RuleOptions{}, err
			}
			opts.Bymonthday = list
		case "BYYEARDAY":
			list, err := parseIntList(key, val, mode)
			if err != nil {
				return RuleOptions{}, err
			}
			opts.Byyearday = list
		case "BYWEEKNO":
			list, err := parseIntList(key, val, mode)
			if err != nil {
				return RuleOptions{}, err
			}
			opts.Byweekno = list
		case "BYDAY", "BYWEEKDAY":
			list, err := parseWeekdayList(val, mode)
			if err != nil {
				return RuleOptions{}, fmt.Errorf("%s: %w", key, err)
			}
			opts.Byweekday = list
		case "BYHOUR":
			list, err := parseIntList(key, val, mode)
			if err != nil {
				return RuleOptions{}, err
			}
			opts.Byhour = list
		case "BYMINUTE":
			list, err := parseIntList(key, val, mode)
			if err != nil {
				return RuleOptions{}, err
			}
			opts.Byminute = list
		case "BYSECOND":
			list, err := parseIntList(key, val, mode)
			if err != nil {
				return RuleOptions{}, err
			}
			opts.Bysecond = list
		case "BYSETPOS":
			list, err := parseIntList(key, val, mode)
			if err != nil {
				return RuleOptions{}, err
			}
			opts.Bysetpos = list
		default:
			if mode == Strict {
				return RuleOptions{}, fmt.Errorf("%w: unknown RRULE key %q", ErrMalformedText, key)
			}
		}
	}

	if !freqSet {
		opts.Freq = YEARLY
	}
	return opts, nil
}

// ParseText parses a text block containing an RRULE line and, optionally,
// a DTSTART line, in either order, with blank lines ignored. Line folding
// is unfolded first.
func ParseText(text string, mode ParseMode, resolver ZoneResolver) (*Rule, error) {
	text = Unfold(text)
	var opts RuleOptions
	var haveRRule bool

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "DTSTART"):
			m, err := ParseDtstartLine(line, mode, resolver)
			if err != nil {
				return nil, err
			}
			opts.Dtstart = &m
		case strings.HasPrefix(upper, "RRULE"):
			parsed, err := ParseRRuleLine(line, mode)
			if err != nil {
				return nil, err
			}
			opts.Freq = parsed.Freq
			opts.Interval = parsed.Interval
			opts.Count = parsed.Count
			opts.Until = parsed.Until
			opts.Wkst = parsed.Wkst
			opts.Bymonth = parsed.Bymonth
			opts.Bymonthday = parsed.Bymonthday
			opts.Byyearday = parsed.Byyearday
			opts.Byweekno = parsed.Byweekno
			opts.Byweekday = parsed.Byweekday
			opts.Byhour = parsed.Byhour
			opts.Byminute = parsed.Byminute
			opts.Bysecond = parsed.Bysecond
			opts.Bysetpos = parsed.Bysetpos
			haveRRule = true
		default:
			if mode == Strict {
				return nil, fmt.Errorf("%w: unrecognised line %q", ErrMalformedText, line)
			}
		}
	}

	if !haveRRule {
		return nil, fmt.Errorf("%w: no RRULE line found", ErrMalformedText)
	}
	return NewRule(opts)
}

// FormatRule serialises r to text: DTSTART+"\n"+RRULE if r has a dtstart,
// otherwise just RRULE.
func FormatRule(r *Rule) (string, error) {
	rruleLine, err := FormatRRuleLine(r)
	if err != nil {
		return "", err
	}
	if dtstart, ok := r.Dtstart(); ok {
		dtstartLine, err := FormatDtstartLine(dtstart)
		if err != nil {
			return "", err
		}
		return dtstartLine + "\n" + rruleLine, nil
	}
	return rruleLine, nil
}

// FormatDtstartLine renders a Moment as a DTSTART line.
func FormatDtstartLine(m Moment) (string, error) {
	switch m.Kind() {
	case KindPlainDate:
		return "DTSTART;VALUE=DATE:" + formatDateOnly(m), nil
	case KindPlainDateTime:
		return "DTSTART:" + formatDateTime(m), nil
	case KindZonedDateTime:
		if m.IsUTC() {
			return "DTSTART:" + formatUTC(m), nil
		}
		zone, _ := m.Zone()
		return fmt.Sprintf("DTSTART;TZID=%s:%s", zone, formatDateTime(m)), nil
	default:
		return "", fmt.Errorf("%w: unrecognised moment kind", ErrInvalidMoment)
	}
}

// FormatRRuleLine renders r's selectors in the canonical key order,
// omitting absent/empty/default fields. It fails if UNTIL is before
// DTSTART.
func FormatRRuleLine(r *Rule) (string, error) {
	if dtstart, ok := r.Dtstart(); ok {
		if until, ok := r.Until(); ok && until.Before(dtstart) {
			return "", fmt.Errorf("%w: UNTIL is before DTSTART", ErrInvalidRule)
		}
	}

	parts := []string{"FREQ=" + r.Freq().String()}
	if r.Interval() != 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(r.Interval()))
	}
	if count, ok := r.Count(); ok {
		parts = append(parts, "COUNT="+strconv.Itoa(count))
	}
	if until, ok := r.Until(); ok {
		parts = append(parts, "UNTIL="+formatUntil(r, until))
	}
	if r.Wkst() != MO {
		parts = append(parts, "WKST="+r.Wkst().String())
	}
	parts = appendIntList(parts, "BYMONTH", r.Bymonth())
	parts = appendIntList(parts, "BYMONTHDAY", r.Bymonthday())
	parts = appendIntList(parts, "BYYEARDAY", r.Byyearday())
	parts = appendIntList(parts, "BYWEEKNO", r.Byweekno())
	if terms := r.Byweekday(); len(terms) > 0 {
		strs := make([]string, len(terms))
		for i, t := range terms {
			strs[i] = t.String()
		}
		parts = append(parts, "BYDAY="+strings.Join(strs, ","))
	}
	parts = appendIntList(parts, "BYHOUR", r.Byhour())
	parts = appendIntList(parts, "BYMINUTE", r.Byminute())
	parts = appendIntList(parts, "BYSECOND", r.Bysecond())
	parts = appendIntList(parts, "BYSETPOS", r.Bysetpos())

	return "RRULE:" + strings.Join(parts, ";"), nil
}

func appendIntList(parts []string, key string, values []int) []string {
	if len(values) == 0 {
		return parts
	}
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = strconv.Itoa(v)
	}
	return append(parts, key+"="+strings.Join(strs, ","))
}

func formatDateOnly(m Moment) string {
	return fmt.Sprintf("%04d%02d%02d", m.Year(), m.Month(), m.Day())
}

func formatDateTime(m Moment) string {
	h, _ := m.Hour()
	mi, _ := m.Minute()
	s, _ := m.Second()
	return fmt.Sprintf("%04d%02d%02dT%02d%02d%02d", m.Year(), m.Month(), m.Day(), h, mi, s)
}

func formatUTC(m Moment) string {
	return formatDateTime(m) + "Z"
}

// formatUntil renders until in the form compatible with r's dtstart
// variant: date-only for a PlainDate rule, naive datetime for
// PlainDateTime, and UTC datetime (converting by the cached offset) for a
// zoned rule.
func formatUntil(r *Rule, until Moment) string {
	dtstart, _ := r.Dtstart()
	switch dtstart.Kind() {
	case KindPlainDate:
		return formatDateOnly(until)
	case KindPlainDateTime:
		return formatDateTime(until)
	default: // KindZonedDateTime
		if until.Kind() == KindZonedDateTime && !until.IsUTC() {
			offset, _ := until.OffsetMinutes()
			until = Add(until, Duration{Minutes: -offset})
		}
		return formatUTC(until)
	}
}
