package pillars

// clamp bounds v to [lo, hi]. Every pillar score passes through this before
// leaving the evaluator.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampScore bounds a pillar score to the canonical [0,100] range.
func clampScore(v float64) float64 { return clamp(v, 0, 100) }

// deref returns *p or def when p is nil.
func deref(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
