// Package rrule implements RFC 5545 recurrence rules: parsing, sanitizing,
// and lazily expanding a Rule into its occurrence sequence.
package rrule
