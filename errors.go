package rrule

import "errors"

// Sentinel errors for the rrule package. Callers compare with errors.Is;
// the wrapped text carries the offending key/value, the sentinel carries
// the kind.
var (
	// ErrMalformedText is returned for lexical failures in parsing: in
	// strict mode for an unparsable token, an unknown key or a bad grammar
	// shape; in either mode for a property line with no ':', an
	// unrecognised DTSTART/UNTIL literal, or text with no RRULE line.
	ErrMalformedText = errors.New("malformed text")

	// ErrInvalidRule is returned for structural violations caught at
	// sanitization: COUNT and UNTIL both set, UNTIL before DTSTART,
	// BYSETPOS present without another BY* selector.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrInvalidMoment is returned for a malformed date/time literal.
	ErrInvalidMoment = errors.New("invalid moment")

	// ErrMissingDtstart is returned when a generator is driven without a
	// dtstart anchor.
	ErrMissingDtstart = errors.New("missing dtstart")

	// ErrMaxIterationsExceeded is returned when the generator's hard
	// iteration cap is hit before termination.
	ErrMaxIterationsExceeded = errors.New("max iterations exceeded")

	// ErrUnsupported is returned in strict mode for a rule field whose
	// value lies outside its declared range.
	ErrUnsupported = errors.New("unsupported value")
)
