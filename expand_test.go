package rrule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayMatchesAnyPositiveAndNegative(t *testing.T) {
	assert.True(t, dayMatchesAny(31, 31, []int{31}))
	assert.True(t, dayMatchesAny(31, 31, []int{-1}))
	assert.False(t, dayMatchesAny(30, 31, []int{-1}))
}

func TestExpandMonthlyBareDay(t *testing.T) {
	r := mustRule(t, RuleOptions{Freq: MONTHLY})
	cursor := NewPlainDate(2024, 2, 15)
	out := expandMonthly(cursor, r)
	require.Len(t, out, 1)
	assert.Equal(t, 15, out[0].Day())
}

func TestExpandMonthlyBymonthdayOutOfRangeSkipped(t *testing.T) {
	r := mustRule(t, RuleOptions{Freq: MONTHLY, Bymonthday: []int{30}})
	cursor := NewPlainDate(2024, 2, 1) // February has no 30th, even in a leap year
	out := expandMonthly(cursor, r)
	assert.Empty(t, out)
}

func TestExpandByDayInMonthOrdinal(t *testing.T) {
	// September 1997: Mondays fall on 1, 8, 15, 22, 29.
	cursor := NewPlainDate(1997, 9, 1)
	days := expandByDayInMonth(cursor, DaysInMonth(1997, 9), []WeekdayTerm{MO.Nth(-2)})
	require.Len(t, days, 1)
	assert.Equal(t, 22, days[0])
}

func TestApplyBySetPosPositiveAndNegative(t *testing.T) {
	moments := []Moment{
		NewPlainDate(2024, 1, 1),
		NewPlainDate(2024, 1, 2),
		NewPlainDate(2024, 1, 3),
	}
	first := applyBySetPos(moments, []int{1})
	require.Len(t, first, 1)
	assert.Equal(t, 1, first[0].Day())

	last := applyBySetPos(moments, []int{-1})
	require.Len(t, last, 1)
	assert.Equal(t, 3, last[0].Day())
}

func TestApplyBySetPosNoopWhenEmpty(t *testing.T) {
	moments := []Moment{NewPlainDate(2024, 1, 1)}
	out := applyBySetPos(moments, nil)
	assert.Equal(t, moments, out)
}

func TestTimeExpandCartesianProduct(t *testing.T) {
	r := mustRule(t, RuleOptions{Freq: DAILY, Byhour: []int{9, 10}, Byminute: []int{0, 30}})
	dates := []Moment{NewPlainDateTime(2024, 1, 1, 0, 0, 0, 0)}
	out := timeExpand(dates, r)
	assert.Len(t, out, 4)
}

func TestTimeExpandNoopOnPlainDate(t *testing.T) {
	r := mustRule(t, RuleOptions{Freq: DAILY, Byhour: []int{9}})
	dates := []Moment{NewPlainDate(2024, 1, 1)}
	out := timeExpand(dates, r)
	assert.Equal(t, dates, out)
}

func TestExpandByWeekNoAnchorsOnJan4(t *testing.T) {
	r := mustRule(t, RuleOptions{Freq: YEARLY, Byweekno: []int{1}})
	cursor := NewPlainDate(2024, 1, 1)
	out := expandByWeekNo(cursor, r)
	require.NotEmpty(t, out)
	for _, mo := range out {
		assert.Equal(t, 2024, mo.Year())
	}
}

func TestExpandByYearDayNegativeIndex(t *testing.T) {
	r := mustRule(t, RuleOptions{Freq: YEARLY, Byyearday: []int{-1}})
	cursor := NewPlainDate(2024, 1, 1)
	out := expandByYearDay(cursor, r)
	require.Len(t, out, 1)
	assert.Equal(t, 12, out[0].Month())
	assert.Equal(t, 31, out[0].Day())
}
