package rrule

// Safety bound constants. Two complementary mechanisms prevent a runaway
// generator: a hard cap on total period advances, and a detector for long
// runs of periods that produce no emissions at all.
const (
	// DefaultMaxIterations is the default hard cap on cursor advances
	// before a generator fails with ErrMaxIterationsExceeded.
	DefaultMaxIterations = 10000

	// emptyPeriodLimit is the number of consecutive empty periods, before
	// any occurrence has been emitted, that causes a generator to
	// terminate normally rather than error (e.g. MONTHLY;BYMONTHDAY=31;
	// BYMONTH=4, which can never produce an occurrence).
	emptyPeriodLimit = 1000
)
