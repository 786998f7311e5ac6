package rrule

import (
	"fmt"
	"strings"
)

// Frequency denotes the period over which a Rule is evaluated.
type Frequency int

// Frequency constants, ordered coarsest to finest. Their values index
// frequencyNames, so the order matches the FREQ tokens below.
const (
	YEARLY Frequency = iota
	MONTHLY
	WEEKLY
	DAILY
	HOURLY
	MINUTELY
	SECONDLY
)

var frequencyNames = [...]string{
	"YEARLY", "MONTHLY", "WEEKLY", "DAILY", "HOURLY", "MINUTELY", "SECONDLY",
}

// String renders the RFC 5545 FREQ token.
func (f Frequency) String() string {
	if f < YEARLY || f > SECONDLY {
		return fmt.Sprintf("Frequency(%d)", int(f))
	}
	return frequencyNames[f]
}

func parseFrequency(s string) (Frequency, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range frequencyNames {
		if s == name {
			return Frequency(i), true
		}
	}
	return 0, false
}
