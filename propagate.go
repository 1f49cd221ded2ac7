package lookahead

// propagate is C3: the fixed-point unit propagation engine. Each round
// exhausts binary propagation over the current trail window before
// processing the ternary/n-ary watches of that same window, then re-checks
// whether the n-ary pass produced more binary work before advancing qhead
// past it (§4.3, §5). Binary propagation never derives ternary/n-ary
// conflicts directly -- it can only ever extend the trail further, which is
// why the two passes run window-by-window rather than literal-by-literal.
func (s *Solver) propagate() error {
	for !s.inconsistent && s.tr.qhead < len(s.tr.lits) {
		sz := len(s.tr.lits)
		i := s.tr.qhead
		for ; i < sz && !s.inconsistent; i++ {
			s.propagateBinary(s.tr.lits[i])
		}
		i = s.tr.qhead
		for ; i < sz && !s.inconsistent; i++ {
			s.propagateClauses(s.tr.lits[i])
		}
		s.tr.qhead = sz
	}
	return nil
}

// assign sets l true at the current level, flags a conflict if l is already
// false, and is a no-op if l is already true. It never touches the windfall
// stack: it is the path used by binary propagation and by hyper-binary
// resolution's unit derivations, neither of which count as a ternary/n-ary
// "windfall" (§4.3, §4.4).
func (s *Solver) assign(l Lit) bool {
	switch s.tr.value(l) {
	case LTrue:
		return true
	case LFalse:
		s.inconsistent = true
		s.metrics.Conflict()
		s.logger.WithField("lit", l.Int()).Trace("conflict")
		return false
	default:
		s.tr.push(l, s.level)
		return true
	}
}

// propagated assigns l and, during a lookahead1 probe, additionally records
// it on the windfall stack for later promotion to a permanent binary if the
// probe succeeds (§4.6 "Windfalls"). Ternary and n-ary unit derivations go
// through this path.
func (s *Solver) propagated(l Lit) {
	s.assign(l)
	if s.mode == modeLookahead1 {
		s.wstack = append(s.wstack, l)
	}
}

// propagateBinary walks the implication-graph neighbours of l (just assigned
// true) and assigns each in turn, stopping at the first conflict.
func (s *Solver) propagateBinary(l Lit) {
	for _, w := range s.bg.adj[l] {
		if s.inconsistent {
			return
		}
		s.assign(w)
	}
}

// propagateClauses processes the ternary and n-ary watch lists filed under
// l, the literal that just became true (§4.3 items 2-3).
func (s *Solver) propagateClauses(l Lit) {
	s.propagateTernary(l)
	if s.inconsistent {
		return
	}
	s.propagateNary(l)
}

// propagateTernary processes the ternary clauses watched at l -- each
// carries the other two literals directly, with no indirection through the
// clause allocator (§4.1 "Ternary watch").
func (s *Solver) propagateTernary(l Lit) {
	ws := s.cs.ternaryWatch[l]
	out := ws[:0]
	for _, w := range ws {
		if s.inconsistent {
			out = append(out, w)
			continue
		}
		l1, l2 := w.t1, w.t2
		keep := true
		switch {
		case s.tr.value(l1) == LFalse:
			if s.tr.value(l2) == LUndef {
				s.propagated(l2)
			} else if s.tr.value(l2) == LFalse {
				s.inconsistent = true
				s.metrics.Conflict()
			}
		case s.tr.value(l1) == LTrue:
			// satisfied; watch stays as-is
		case s.tr.value(l2) == LFalse:
			s.propagated(l1)
		case s.tr.value(l2) == LTrue:
			// satisfied; watch stays as-is
		default:
			// both undefined
			switch s.mode {
			case modeSearching:
				s.cs.detachTernary(l.Not(), l1, l2)
				s.bg.tryAddBinary(s.tr, &s.cfg, l1, l2, s.assign, s.updatePrefix)
				keep = false
			case modeLookahead1:
				s.weightedNewBinaries += s.hScore(l1) * s.hScore(l2)
			case modeLookahead2:
				// no-op: speculative pass never mutates the permanent store
			}
		}
		if keep {
			out = append(out, w)
		}
	}
	s.cs.ternaryWatch[l] = out
}

// pendingWatch is a watch entry discovered while scanning one literal's list
// that must be filed under a *different* literal once the scan finishes, so
// that appending to it cannot alias the slice currently being compacted.
type pendingWatch struct {
	lit Lit
	w   watch
}

// propagateNary processes the n-ary (size > 3) clauses and extension watches
// filed at l, using the standard two-watched-literal scheme with a
// blocking-literal shortcut (§4.1 "Watched clauses").
func (s *Solver) propagateNary(l Lit) {
	falsified := l.Not()
	ws := s.cs.watches[l]
	out := ws[:0]
	var pending []pendingWatch

	for _, w := range ws {
		if s.inconsistent {
			out = append(out, w)
			continue
		}

		if w.tag == watchExt {
			consistent, keepExt := s.ext.Propagate(s, l, w.extIdx)
			if !consistent {
				s.inconsistent = true
				s.metrics.Conflict()
				continue
			}
			if keepExt {
				out = append(out, w)
			}
			continue
		}

		if w.tag != watchClause {
			invariantViolation("unexpected watch tag in n-ary propagation")
		}
		if s.tr.value(w.blocker) == LTrue {
			out = append(out, w)
			continue
		}

		c := s.cs.alloc.get(w.handle)
		if c.removed {
			continue
		}
		if c.lits[0] == falsified {
			c.lits[0], c.lits[1] = c.lits[1], c.lits[0]
		}
		if s.tr.value(c.lits[0]) == LTrue {
			out = append(out, watch{tag: watchClause, blocker: c.lits[0], handle: w.handle})
			continue
		}

		replacedAt := -1
		for j := 2; j < len(c.lits); j++ {
			if s.tr.value(c.lits[j]) != LFalse {
				replacedAt = j
				break
			}
		}
		if replacedAt == -1 {
			// No replacement: the watch stays filed here either way.
			if s.tr.value(c.lits[0]) == LFalse {
				s.inconsistent = true
				s.metrics.Conflict()
			} else {
				s.propagated(c.lits[0])
			}
			out = append(out, w)
			continue
		}

		newWatched := c.lits[replacedAt]
		c.lits[1] = newWatched
		c.lits[replacedAt] = falsified
		pending = append(pending, pendingWatch{
			lit: newWatched.Not(),
			w:   watch{tag: watchClause, blocker: c.lits[0], handle: w.handle},
		})
		// Dropped from this list: the new watch is filed under newWatched.Not().

		secondFound := false
		for j := replacedAt + 1; j < len(c.lits); j++ {
			if s.tr.value(c.lits[j]) != LFalse {
				secondFound = true
				break
			}
		}
		switch {
		case !secondFound && s.tr.value(c.lits[0]) == LUndef && s.tr.value(c.lits[1]) == LUndef:
			// The clause has shrunk to a virtual binary over its two
			// remaining watched, undefined literals.
			a, b := c.lits[0], c.lits[1]
			switch s.mode {
			case modeSearching:
				s.cs.detachClause(w.handle)
				s.bg.tryAddBinary(s.tr, &s.cfg, a, b, s.assign, s.updatePrefix)
			case modeLookahead1:
				s.weightedNewBinaries += s.hScore(a) * s.hScore(b)
			case modeLookahead2:
			}
		case secondFound && s.mode == modeLookahead1 && s.weightedNewBinaries == 0:
			// The clause shrank but kept some slack; leave a trace that it
			// was touched even though no autarky-relevant binary emerged.
			sawTrue := false
			for j := 2; j < len(c.lits); j++ {
				if s.tr.value(c.lits[j]) == LTrue {
					sawTrue = true
					break
				}
			}
			if !sawTrue {
				s.weightedNewBinaries = 0.001
			}
		}
	}

	s.cs.watches[l] = out
	for _, p := range pending {
		s.cs.watches[p.lit] = append(s.cs.watches[p.lit], p.w)
	}
}
