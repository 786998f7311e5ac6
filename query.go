package rrule

// Query surface: materialisation helpers layered on Generator. Each
// constructs its own Generator, so two queries against the same Rule never
// share iteration state.

// All collects occurrences until the generator is exhausted or limit items
// have been collected. limit <= 0 means no limit - the rule itself (via
// COUNT, UNTIL or the safety bound) must terminate the sequence.
func All(r *Rule, limit int) ([]Moment, error) {
	g, err := NewGenerator(r)
	if err != nil {
		return nil, err
	}
	var out []Moment
	for {
		if limit > 0 && len(out) >= limit {
			return out, nil
		}
		mo, ok, err := g.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, mo)
	}
}

// Between returns the occurrences in [a, b] (inclusive=true) or (a, b)
// (inclusive=false).
func Between(r *Rule, a, b Moment, inclusive bool) ([]Moment, error) {
	g, err := NewGenerator(r, WithSeek(a))
	if err != nil {
		return nil, err
	}
	var out []Moment
	for {
		mo, ok, err := g.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		if inclusive {
			if mo.Before(a) {
				continue
			}
		} else if !mo.After(a) {
			continue
		}
		if inclusive {
			if mo.After(b) {
				return out, nil
			}
		} else if !mo.Before(b) {
			return out, nil
		}
		out = append(out, mo)
	}
}

// Before collects occurrences strictly before t (inclusive=false) or at-or
// -before t (inclusive=true), stopping at the first that fails - so it
// always scans from the start of the sequence. limit <= 0 means no limit.
func Before(r *Rule, t Moment, inclusive bool, limit int) ([]Moment, error) {
	g, err := NewGenerator(r)
	if err != nil {
		return nil, err
	}
	var out []Moment
	for {
		if limit > 0 && len(out) >= limit {
			return out, nil
		}
		mo, ok, err := g.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		if inclusive {
			if mo.After(t) {
				return out, nil
			}
		} else if !mo.Before(t) {
			return out, nil
		}
		out = append(out, mo)
	}
}

// After collects up to limit occurrences at-or-after t (inclusive=true) or
// strictly after t (inclusive=false), seeking ahead to t first.
// limit <= 0 means no limit.
func After(r *Rule, t Moment, inclusive bool, limit int) ([]Moment, error) {
	g, err := NewGenerator(r, WithSeek(t))
	if err != nil {
		return nil, err
	}
	var out []Moment
	for {
		if limit > 0 && len(out) >= limit {
			return out, nil
		}
		mo, ok, err := g.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		if inclusive {
			if mo.Before(t) {
				continue
			}
		} else if !mo.After(t) {
			continue
		}
		out = append(out, mo)
	}
}

// Next returns the first occurrence satisfying After's predicate.
func Next(r *Rule, t Moment, inclusive bool) (Moment, bool, error) {
	got, err := After(r, t, inclusive, 1)
	if err != nil {
		return Moment{}, false, err
	}
	if len(got) == 0 {
		return Moment{}, false, nil
	}
	return got[0], true, nil
}

// Previous returns the last occurrence before t (inclusive=false) or
// at-or-before t (inclusive=true), or ok=false if no occurrence qualifies
// (including when dtstart itself does not qualify).
func Previous(r *Rule, t Moment, inclusive bool) (Moment, bool, error) {
	g, err := NewGenerator(r)
	if err != nil {
		return Moment{}, false, err
	}
	var last Moment
	found := false
	for {
		mo, ok, err := g.Next()
		if err != nil {
			return Moment{}, false, err
		}
		if !ok {
			break
		}
		qualifies := mo.Before(t)
		if inclusive {
			qualifies = !mo.After(t)
		}
		if !qualifies {
			break
		}
		last, found = mo, true
	}
	return last, found, nil
}
