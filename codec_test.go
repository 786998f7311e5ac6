package rrule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnfoldRemovesContinuations(t *testing.T) {
	folded := "RRULE:FREQ=DAILY;\n COUNT=5"
	assert.Equal(t, "RRULE:FREQ=DAILY;COUNT=5", Unfold(folded))
}

func TestParseDtstartLineDateOnly(t *testing.T) {
	m, err := ParseDtstartLine("DTSTART;VALUE=DATE:19970902", Lenient, nil)
	require.NoError(t, err)
	assert.Equal(t, KindPlainDate, m.Kind())
	assert.Equal(t, 1997, m.Year())
	assert.Equal(t, 9, m.Month())
	assert.Equal(t, 2, m.Day())
}

func TestParseDtstartLineNaiveDateTime(t *testing.T) {
	m, err := ParseDtstartLine("DTSTART:19970902T090000", Lenient, nil)
	require.NoError(t, err)
	assert.Equal(t, KindPlainDateTime, m.Kind())
	h, _ := m.Hour()
	assert.Equal(t, 9, h)
}

func TestParseDtstartLineUTC(t *testing.T) {
	m, err := ParseDtstartLine("DTSTART:19970902T090000Z", Lenient, nil)
	require.NoError(t, err)
	assert.True(t, m.IsUTC())
}

func TestParseDtstartLineTZID(t *testing.T) {
	m, err := ParseDtstartLine("DTSTART;TZID=America/New_York:19970902T090000", Lenient, UTCZoneResolver{})
	require.NoError(t, err)
	assert.Equal(t, KindZonedDateTime, m.Kind())
	zone, ok := m.Zone()
	assert.True(t, ok)
	assert.Equal(t, "America/New_York", zone)
}

func TestParseDtstartLineMalformed(t *testing.T) {
	_, err := ParseDtstartLine("DTSTART;TZID=America/New_York:not-a-date", Lenient, UTCZoneResolver{})
	assert.Error(t, err)
}

func TestParseRRuleLineBasic(t *testing.T) {
	opts, err := ParseRRuleLine("RRULE:FREQ=DAILY;COUNT=10", Lenient)
	require.NoError(t, err)
	assert.Equal(t, DAILY, opts.Freq)
	assert.Equal(t, 10, opts.Count)
}

func TestParseRRuleLineByday(t *testing.T) {
	opts, err := ParseRRuleLine("RRULE:FREQ=MONTHLY;BYDAY=MO,+2FR", Lenient)
	require.NoError(t, err)
	require.Len(t, opts.Byweekday, 2)
	assert.Equal(t, MO, opts.Byweekday[0].Day)
	assert.Equal(t, FR, opts.Byweekday[1].Day)
	assert.Equal(t, 2, opts.Byweekday[1].N)
}

func TestParseRRuleLineByweekdayAlias(t *testing.T) {
	opts, err := ParseRRuleLine("RRULE:FREQ=WEEKLY;BYWEEKDAY=TU", Lenient)
	require.NoError(t, err)
	require.Len(t, opts.Byweekday, 1)
	assert.Equal(t, TU, opts.Byweekday[0].Day)
}

func TestParseRRuleLineLenientDropsUnknownKey(t *testing.T) {
	opts, err := ParseRRuleLine("RRULE:FREQ=DAILY;BYEASTER=-1", Lenient)
	require.NoError(t, err)
	assert.Equal(t, DAILY, opts.Freq)
}

func TestParseRRuleLineStrictRejectsUnknownKey(t *testing.T) {
	_, err := ParseRRuleLine("RRULE:FREQ=DAILY;BYEASTER=-1", Strict)
	assert.ErrorIs(t, err, ErrMalformedText)
}

func TestParseRRuleLineLenientDefaultsInvalidFreq(t *testing.T) {
	opts, err := ParseRRuleLine("RRULE:FREQ=FORTNIGHTLY", Lenient)
	require.NoError(t, err)
	assert.Equal(t, YEARLY, opts.Freq)
}

func TestParseRRuleLineStrictRejectsInvalidFreq(t *testing.T) {
	_, err := ParseRRuleLine("RRULE:FREQ=FORTNIGHTLY", Strict)
	assert.ErrorIs(t, err, ErrMalformedText)
}

func TestParseRRuleLineStrictRejectsOutOfRangeValue(t *testing.T) {
	_, err := ParseRRuleLine("RRULE:FREQ=MONTHLY;BYMONTH=13", Strict)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestParseRRuleLineLenientDropsOutOfRangeValue(t *testing.T) {
	opts, err := ParseRRuleLine("RRULE:FREQ=MONTHLY;BYMONTH=13,6", Lenient)
	require.NoError(t, err)
	assert.Equal(t, []int{6}, opts.Bymonth)
}

func TestParseTextBothOrders(t *testing.T) {
	text1 := "DTSTART:19970902T090000\nRRULE:FREQ=DAILY;COUNT=5"
	text2 := "RRULE:FREQ=DAILY;COUNT=5\nDTSTART:19970902T090000"
	r1, err := ParseText(text1, Lenient, nil)
	require.NoError(t, err)
	r2, err := ParseText(text2, Lenient, nil)
	require.NoError(t, err)
	assert.Equal(t, r1.Freq(), r2.Freq())
	d1, _ := r1.Dtstart()
	d2, _ := r2.Dtstart()
	assert.True(t, d1.Equal(d2))
}

func TestParseTextRequiresRRule(t *testing.T) {
	_, err := ParseText("DTSTART:19970902T090000", Lenient, nil)
	assert.ErrorIs(t, err, ErrMalformedText)
}

func TestFormatRuleRoundTrip(t *testing.T) {
	text := "DTSTART:19970902T090000\nRRULE:FREQ=WEEKLY;INTERVAL=2;COUNT=4;WKST=SU;BYDAY=TU,TH"
	r, err := ParseText(text, Lenient, nil)
	require.NoError(t, err)
	out, err := FormatRule(r)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestFormatRuleOmitsDefaults(t *testing.T) {
	dtstart := NewPlainDateTime(2024, 1, 1, 9, 0, 0, 0)
	r := mustRule(t, RuleOptions{Freq: DAILY, Dtstart: &dtstart, Count: 5})
	line, err := FormatRRuleLine(r)
	require.NoError(t, err)
	assert.Equal(t, "RRULE:FREQ=DAILY;COUNT=5", line)
}

func TestFormatRuleUntilZonedConvertsToUTC(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	dtstart := NewZonedDateTime(2024, 1, 1, 9, 0, 0, 0, "America/New_York", loc)
	until := NewZonedDateTime(2024, 6, 1, 9, 0, 0, 0, "America/New_York", loc)
	r := mustRule(t, RuleOptions{Freq: DAILY, Dtstart: &dtstart, Until: &until})
	line, err := FormatRRuleLine(r)
	require.NoError(t, err)
	assert.Contains(t, line, "UNTIL=20240601T130000Z") // EDT is UTC-4 in June
}

func TestFormatRuleRejectsUntilBeforeDtstartAtFormat(t *testing.T) {
	dtstart := NewPlainDate(2024, 6, 1)
	r := mustRule(t, RuleOptions{Freq: DAILY, Dtstart: &dtstart})
	earlierUntil := NewPlainDate(2023, 1, 1)
	r.until = &earlierUntil
	_, err := FormatRRuleLine(r)
	assert.ErrorIs(t, err, ErrInvalidRule)
}
