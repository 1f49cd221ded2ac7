package lookahead

// computeWNB is C7's main sweep: probe every entry of the lookahead table
// built by preSelect, one-step (and occasionally two-step) at a time, and
// turn the outcome of each probe into either a permanent unit/binary
// (conflict, autarky, or equivalence) or an updated WNB score feeding
// selectLiteral (§4.7 "compute_wnb").
//
// Each candidate's probe runs at its own level, base+offset, so that the
// probes of one round carry distinct stamps. base moves only when doDouble
// runs a double_look (which leaves it past every level it used); otherwise
// later rounds of the sweep reuse the same base+offset levels.
func (s *Solver) computeWNB() {
	s.initWNB()
	base := int32(2)
	change := true
	first := true
	for change && !s.inconsistent {
		change = false
		for i := 0; i < len(s.table) && !s.inconsistent; i++ {
			if err := s.Checkpoint(); err != nil {
				invariantViolation("checkpoint failed during computeWNB: " + err.Error())
			}
			entry := s.table[i]
			lit := entry.lit
			if s.tr.isAssigned(lit) {
				continue
			}
			level := base + entry.offset
			s.seedWNB(lit)
			s.PushLookahead1(lit, level)
			if !first {
				s.doDouble(lit, &base)
			}
			unsat := s.inconsistent
			s.PopLookahead1(lit)
			if unsat {
				s.resetWNB()
				s.assign(lit.Not())
				if err := s.propagate(); err != nil {
					invariantViolation("propagate failed during computeWNB backtrack: " + err.Error())
				}
				s.initWNB()
				change = true
			} else {
				s.updateWNB(lit, level)
			}
		}
		if cFixedTruth-2*int32(len(s.table)) < base {
			break
		}
		if first && !change {
			first = false
			change = true
		}
		s.resetWNB()
		s.initWNB()
	}
	s.resetWNB()
}

// initWNB and resetWNB bracket a trail-only checkpoint: plain assignments
// and their propagation consequences made directly at the decision level
// during computeWNB (as opposed to inside a PushLookahead1/2 probe) are
// undone here, while any clause/binary-store mutations those propagations
// triggered are left in place for the enclosing decision's own PopScope to
// unwind (§4.7 "init_wnb"/"reset_wnb").
func (s *Solver) initWNB() {
	s.wnbQHead = append(s.wnbQHead, s.tr.qhead)
	s.wnbTrail = append(s.wnbTrail, len(s.tr.lits))
}

func (s *Solver) resetWNB() {
	n := len(s.wnbTrail) - 1
	trailLen := s.wnbTrail[n]
	s.wnbTrail = s.wnbTrail[:n]
	qhead := s.wnbQHead[n]
	s.wnbQHead = s.wnbQHead[:n]
	for i := len(s.tr.lits) - 1; i >= trailLen; i-- {
		s.tr.setUndef(s.tr.lits[i])
	}
	s.tr.lits = s.tr.lits[:trailLen]
	s.tr.qhead = qhead
}

// seedWNB resets the running WNB accumulator for an upcoming probe of l and
// seeds wnbScore(l) from its forest parent's already-settled score, so
// equivalence-class members inherit their representative's accumulated
// weight instead of starting cold (§4.7 "reset_wnb(literal)").
func (s *Solver) seedWNB(l Lit) {
	s.weightedNewBinaries = 0
	p := s.parent[l]
	if p == NullLit {
		s.setWNB(l, 0)
	} else {
		s.setWNB(l, s.getWNB(p))
	}
}

func (s *Solver) getWNB(l Lit) float64        { return s.wnbScore[l] }
func (s *Solver) setWNB(l Lit, v float64)     { s.wnbScore[l] = v }
func (s *Solver) incWNB(l Lit, delta float64) { s.wnbScore[l] += delta }

// updateWNB folds one probe's outcome into l's running score. A probe that
// accumulated no WNB at all is either a genuine autarky (promote l to a
// permanent unit), a detected equivalence with l's forest parent (add the
// binary closing the loop), or neither (skip); otherwise the WNB is simply
// added to l's running total (§4.7 "update_wnb").
func (s *Solver) updateWNB(l Lit, level int32) {
	if s.weightedNewBinaries != 0 {
		s.incWNB(l, s.weightedNewBinaries)
		return
	}
	if !s.checkAutarky(l, level) {
		return
	}
	if s.getWNB(l) == 0 {
		s.metrics.Autarky()
		s.logger.WithField("lit", l.Int()).Debug("autarky")
		s.resetWNB()
		s.assign(l)
		if err := s.propagate(); err != nil {
			invariantViolation("propagate failed during autarky promotion: " + err.Error())
		}
		s.initWNB()
		return
	}
	p := s.parent[l]
	if p != NullLit && s.tr.stampOf(p) > s.tr.stampOf(l) {
		s.bg.addBinary(s.tr, l.Not(), p)
	}
}

// checkAutarky reports whether setting l true is guaranteed not to reduce
// any clause: every clause containing l's negation must already be
// satisfied, and every literal l directly implies must already be true.
// Resolves the §9/§13 open question over the teacher's own check_autarky,
// whose body unconditionally returned false upstream -- here gated by
// Config.EnableAutarky instead, defaulting on (§4.7 "check_autarky").
func (s *Solver) checkAutarky(l Lit, level int32) bool {
	if !s.cfg.EnableAutarky {
		return false
	}
	for _, h := range s.cs.fullWatches[l] {
		c := s.cs.alloc.get(h)
		if c.removed {
			continue
		}
		satisfied := false
		for _, lit := range c.lits {
			if s.tr.value(lit) == LTrue {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	for _, w := range s.bg.adj[l] {
		if s.tr.value(w) != LTrue {
			return false
		}
	}
	return true
}

// doDouble decides whether to spend a nested double-look probe on l: only
// once per decision node (gated by the istamp-backed doubleLookEnabled
// flag), and only once l's one-step WNB has grown past the adaptive
// deltaTrigger threshold, which itself decays geometrically whenever a
// candidate falls short (§4.7 "do_double").
func (s *Solver) doDouble(l Lit, base *int32) {
	if s.inconsistent || len(s.scopeMarks) <= 1 || !s.bg.doubleLookEnabled(l) {
		return
	}
	if s.getWNB(l) > s.deltaTrigger {
		if s.dlNoOverflow(*base) {
			s.metrics.DoubleLookTrigger()
			s.logger.WithField("lit", l.Int()).Debug("double-look trigger")
			s.doubleLook(l, base)
			s.deltaTrigger = s.getWNB(l)
			s.bg.disableDoubleLook(l)
		}
		return
	}
	s.deltaTrigger *= s.cfg.DeltaRho
}

// dlNoOverflow reports whether a double_look rooted at base would still
// leave room below the fixed-truth sentinel for every nested probe level it
// could need.
func (s *Solver) dlNoOverflow(base int32) bool {
	span := 2 * int32(len(s.table)) * (int32(s.cfg.DLMaxIterations) + 1)
	return cFixedTruth-span > base
}

// doubleLook runs a fixed-point sweep of nested lookahead2 probes under l,
// each of which can only report sat/unsat (§4.7, §9 "Mode switch"): an
// unsat nested probe at lit forces ~lit permanently for the remainder of
// this call, which can cascade into further candidates shrinking on later
// iterations, up to Config.DLMaxIterations rounds. base is advanced by the
// full table width each round and left at dl_truth on return, so every
// level used here and by future probes stays globally distinct
// (§4.7 "double_look").
func (s *Solver) doubleLook(l Lit, base *int32) {
	dlTruth := *base + 2*int32(len(s.table))*(int32(s.cfg.DLMaxIterations)+1)
	s.initWNB()
	s.assign(l)
	if err := s.propagate(); err != nil {
		invariantViolation("propagate failed during doubleLook: " + err.Error())
	}
	change := true
	var iterations uint
	for change && iterations < s.cfg.DLMaxIterations && !s.inconsistent {
		change = false
		iterations++
		*base += 2 * int32(len(s.table))
		for i := 0; i < len(s.table) && !s.inconsistent; i++ {
			entry := s.table[i]
			lit := entry.lit
			if s.tr.isAssigned(lit) {
				continue
			}
			if s.PushLookahead2(lit, *base+entry.offset) {
				s.resetWNB()
				s.assign(lit.Not())
				if err := s.propagate(); err != nil {
					invariantViolation("propagate failed during doubleLook cascade: " + err.Error())
				}
				change = true
				s.initWNB()
			}
		}
	}
	s.resetWNB()
	*base = dlTruth
}

// mixDiff combines a literal's two polarity-specific WNB scores into the
// single figure of merit selectLiteral ranks candidates by. Resolves the
// §9/§13 open question left by the teacher's own configurable mix_diff:
// pinned to the classic a*b + a + b product-plus-sum form.
func mixDiff(a, b float64) float64 {
	return a*b + a + b
}

// selectLiteral picks the free variable whose mixDiff is largest across the
// lookahead table, returned in the polarity with the smaller WNB score of
// the two (~v on a tie), breaking ties between variables by
// reservoir sampling so repeated runs over tied formulas don't always
// favour the same index (§4.7 "select_literal").
func (s *Solver) selectLiteral() Lit {
	best := NullLit
	var bestMix float64
	count := 1
	for _, entry := range s.table {
		lit := entry.lit
		if lit.Sign() || s.tr.isAssigned(lit) {
			continue
		}
		diff1, diff2 := s.getWNB(lit), s.getWNB(lit.Not())
		mixd := mixDiff(diff1, diff2)
		if mixd == bestMix {
			count++
		}
		if mixd > bestMix || (mixd == bestMix && s.rng.Intn(count) == 0) {
			if mixd > bestMix {
				count = 1
			}
			bestMix = mixd
			if diff1 < diff2 {
				best = lit
			} else {
				best = lit.Not()
			}
		}
	}
	return best
}
