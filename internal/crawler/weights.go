package crawler

// pairKey identifies an undirected edge by its two names in sorted order
type pairKey struct {
	lo, hi string
}

func makePairKey(a, b string) pairKey {
	if a < b {
		return pairKey{lo: a, hi: b}
	}
	return pairKey{lo: b, hi: a}
}

// sides holds the latest one-directional occurrence count for each end of a pair
type sides struct {
	fromLo, fromHi int
	seenLo, seenHi bool
}

// weightAccumulator aggregates one-sided link counts into edge weights.
// The weight of u-v is the mean of the latest count of v on u's page and of u on v's page;
// a pair observed from one side only weighs that side's count.
type weightAccumulator struct {
	pairs map[pairKey]*sides
}

func newWeightAccumulator() *weightAccumulator {
	return &weightAccumulator{
		pairs: make(map[pairKey]*sides),
	}
}

// observe records that to's name occurs count times on from's page and returns the edge weight
func (wa *weightAccumulator) observe(from, to string, count int) float64 {
	key := makePairKey(from, to)
	s, ok := wa.pairs[key]
	if !ok {
		s = &sides{}
		wa.pairs[key] = s
	}

	if from == key.lo {
		s.fromLo, s.seenLo = count, true
	} else {
		s.fromHi, s.seenHi = count, true
	}

	return s.weight()
}

func (s *sides) weight() float64 {
	switch {
	case s.seenLo && s.seenHi:
		return float64(s.fromLo+s.fromHi) / 2
	case s.seenLo:
		return float64(s.fromLo)
	default:
		return float64(s.fromHi)
	}
}
