package lookahead

// Equivalence records that variable V was found equivalent to the literal
// Root during scc's equivalence elimination, so the embedding solver can
// substitute V ≔ Root in its own clause database (§4.9 "scc()", §6 "a list
// of equivalences (for scc)").
type Equivalence struct {
	V    Var
	Root Lit
}

// Simplify runs one pass of choose() at c_fixed_truth and reports the whole
// trail afterwards -- the input and Init units as well as every unit that
// pass derived -- so the embedding solver can push each back onto its own
// trail and re-run its subsumer -- both deliberately out of scope for this
// core (§1, §4.9 "simplify()"). An empty, non-nil slice distinguishes
// "ran cleanly, found nothing" from inconsistent (nil, with the bool false).
func (s *Solver) Simplify() ([]Lit, bool) {
	if s.inconsistent {
		return nil, false
	}
	s.mode = modeSearching
	s.level = cFixedTruth
	s.bg.incIstamp()
	s.choose() // the chosen literal itself is unneeded; units land on the trail as a side effect
	if s.inconsistent {
		return nil, false
	}
	units := make([]Lit, len(s.tr.lits))
	copy(units, s.tr.lits)
	return units, true
}

// EliminateEquivalences runs select(0) to gather every free variable, runs
// SCC over the unrestricted candidate set, and reports, for every variable
// whose root differs from itself, the substitution the embedding solver
// should apply -- skipping the pair when either variable is eliminated or
// when V itself is external; an external Root is not skipped (§4.9 "scc()
// equivalence elimination").
func (s *Solver) EliminateEquivalences() ([]Equivalence, bool) {
	if s.inconsistent {
		return nil, false
	}
	s.mode = modeSearching
	s.level = cFixedTruth
	s.bg.incIstamp()
	if !s.selectCandidates(0) {
		// Nothing left to relate: either every variable is already fixed
		// (selectCandidates' own isSat check) or it was starved for some
		// other reason; either way there is nothing to eliminate.
		return nil, true
	}
	s.computeSCC()
	if s.inconsistent {
		return nil, false
	}

	var out []Equivalence
	for _, c := range s.candidates {
		v := c.v
		p := s.getRoot(v)
		if p == NullLit || p.Var() == v || s.external[v] || s.eliminated[v] || s.eliminated[p.Var()] {
			continue
		}
		out = append(out, Equivalence{V: v, Root: p})
	}
	return out, true
}

// getRoot picks, between the Tarjan-settled component root of v's positive
// literal and that root's own component root, the one belonging to the
// higher-indexed variable -- the same tie-break z3's get_root uses to settle
// on a single representative when a variable's two polarities ended up in
// related but distinct components (§4.9 "get_root").
func (s *Solver) getRoot(v Var) Lit {
	lit := NewLit(v, false)
	r1 := s.dfsParent[lit]
	r2 := s.dfsParent[NewLit(r1.Var(), false)]
	if r1.Var() >= r2.Var() {
		return r1
	}
	if r1.Sign() {
		return r2.Not()
	}
	return r2
}

// SelectLookahead restricts candidates to vars (1-indexed DIMACS variable
// numbers, matching Clause/BuildInput's convention), pushes assumptions
// (signed DIMACS literals) as cooperative sub-assignments, and returns the
// literal choose() settles on -- used by the embedding solver to pick a
// branching variable without running a full Solve (§4.9 "select_lookahead").
func (s *Solver) SelectLookahead(assumptions []int, vars []int) Lit {
	s.mode = modeSearching
	s.level = cFixedTruth
	if s.inconsistent {
		return NullLit
	}
	s.bg.incIstamp()

	s.selectVars = make([]bool, s.numVars)
	for _, v := range vars {
		s.selectVars[Var(v-1)] = true
	}
	defer func() { s.selectVars = nil }()

	pushed := 0
	for _, a := range assumptions {
		if s.inconsistent {
			break
		}
		s.PushScope(LitFromInt(a), cFixedTruth)
		pushed++
	}

	var l Lit
	if !s.inconsistent {
		l = s.choose()
	} else {
		l = NullLit
	}

	for i := 0; i < pushed; i++ {
		if err := s.PopScope(); err != nil {
			invariantViolation("PopScope failed while unwinding SelectLookahead assumptions: " + err.Error())
		}
	}
	return l
}
