package rrule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuleDefaults(t *testing.T) {
	dtstart := NewPlainDate(2024, 1, 1)
	r, err := NewRule(RuleOptions{Freq: WEEKLY, Dtstart: &dtstart})
	require.NoError(t, err)
	assert.Equal(t, WEEKLY, r.Freq())
	assert.Equal(t, 1, r.Interval())
	assert.Equal(t, MO, r.Wkst())
	_, hasCount := r.Count()
	assert.False(t, hasCount)
}

func TestNewRuleRejectsCountAndUntil(t *testing.T) {
	dtstart := NewPlainDate(2024, 1, 1)
	until := NewPlainDate(2024, 12, 31)
	_, err := NewRule(RuleOptions{Freq: DAILY, Dtstart: &dtstart, Count: 5, Until: &until})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestNewRuleRejectsUntilBeforeDtstart(t *testing.T) {
	dtstart := NewPlainDate(2024, 6, 1)
	until := NewPlainDate(2024, 1, 1)
	_, err := NewRule(RuleOptions{Freq: DAILY, Dtstart: &dtstart, Until: &until})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestNewRuleRejectsBysetposWithoutSelector(t *testing.T) {
	dtstart := NewPlainDate(2024, 1, 1)
	_, err := NewRule(RuleOptions{Freq: MONTHLY, Dtstart: &dtstart, Bysetpos: []int{1}})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestNewRuleAcceptsBysetposWithSelector(t *testing.T) {
	dtstart := NewPlainDate(2024, 1, 1)
	r, err := NewRule(RuleOptions{
		Freq: MONTHLY, Dtstart: &dtstart,
		Byweekday: []WeekdayTerm{MO.Nth(0)},
		Bysetpos:  []int{1},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, r.Bysetpos())
}

func TestRuleCloneIsIndependent(t *testing.T) {
	dtstart := NewPlainDate(2024, 1, 1)
	r, err := NewRule(RuleOptions{Freq: MONTHLY, Dtstart: &dtstart, Bymonth: []int{1, 2}})
	require.NoError(t, err)
	clone := r.Clone()
	clone.bymonth[0] = 99
	assert.Equal(t, 1, r.Bymonth()[0])
}

func TestWithCountClearsUntil(t *testing.T) {
	dtstart := NewPlainDate(2024, 1, 1)
	until := NewPlainDate(2024, 12, 31)
	r, err := NewRule(RuleOptions{Freq: DAILY, Dtstart: &dtstart, Until: &until})
	require.NoError(t, err)

	withCount, err := r.WithCount(5)
	require.NoError(t, err)
	_, hasUntil := withCount.Until()
	assert.False(t, hasUntil)
	count, ok := withCount.Count()
	assert.True(t, ok)
	assert.Equal(t, 5, count)
}

func TestWithUntilClearsCount(t *testing.T) {
	dtstart := NewPlainDate(2024, 1, 1)
	r, err := NewRule(RuleOptions{Freq: DAILY, Dtstart: &dtstart, Count: 5})
	require.NoError(t, err)

	until := NewPlainDate(2024, 6, 1)
	withUntil, err := r.WithUntil(&until)
	require.NoError(t, err)
	_, hasCount := withUntil.Count()
	assert.False(t, hasCount)
}

func TestWeekdayTermNth(t *testing.T) {
	term := MO.Nth(2)
	assert.Equal(t, MO, term.Day)
	assert.Equal(t, 2, term.N)
}
