package lookahead

import "github.com/pkg/errors"

// pushMark records, at PushScope time, where each of the clause store's
// retirement lists and the binary trail stood, so PopScope can replay the
// exact sequence of undo steps C1/C4 require (§4.2).
type pushMark struct {
	binaryTrailLen    int
	retiredClausesLen int
	retiredTernaryLen int
}

// PushScope opens a new reversible scope across the trail, the clause
// store's watch retirement, and the binary implication graph. It is the
// single entry point search.go and the lookahead probe use to descend a
// level (§4.2 "push_scope").
func (s *Solver) PushScope(lit Lit, level int32) {
	s.scopeMarks = append(s.scopeMarks, pushMark{
		binaryTrailLen:    len(s.tr.binaryTrail),
		retiredClausesLen: len(s.cs.retiredClauses),
		retiredTernaryLen: len(s.cs.retiredTernary),
	})
	s.tr.pushScope()
	savedLevel := s.level
	s.level = level
	s.assumptions = append(s.assumptions, assumptionFrame{lit: lit.Not(), savedLevel: savedLevel})
	s.assign(lit)
	if err := s.propagate(); err != nil {
		invariantViolation("propagate failed during PushScope: " + err.Error())
	}
}

// assumptionFrame remembers the negated decision literal pushed by
// PushScope and the assignment level it temporarily replaced, so PopScope
// can restore the latter (§4.2, mirroring the parent solver's own
// assumption stack).
type assumptionFrame struct {
	lit        Lit
	savedLevel int32
}

// PopScope reverses the most recent PushScope, in the precise order the
// lookahead core requires: undo trail assignments (restoring free
// variables implicitly, since C5 recomputes candidates from scratch each
// probe) together with qhead and the TC1 budget, re-attach clauses and
// ternaries retired since the mark, delete binaries added since the mark,
// and finally restore the saved level (§4.2 "pop").
func (s *Solver) PopScope() error {
	n := len(s.scopeMarks) - 1
	if n < 0 {
		return errors.WithStack(errPopUnderflow)
	}
	pm := s.scopeMarks[n]
	s.scopeMarks = s.scopeMarks[:n]

	an := len(s.assumptions) - 1
	af := s.assumptions[an]
	s.assumptions = s.assumptions[:an]

	s.inconsistent = false

	if _, err := s.tr.popScope(); err != nil {
		return err
	}

	for i := pm.retiredClausesLen; i < len(s.cs.retiredClauses); i++ {
		s.cs.reattachClause(s.cs.retiredClauses[i])
	}
	s.cs.retiredClauses = s.cs.retiredClauses[:pm.retiredClausesLen]

	for i := pm.retiredTernaryLen; i < len(s.cs.retiredTernary); i++ {
		s.cs.reattachTernary(s.cs.retiredTernary[i])
	}
	s.cs.retiredTernary = s.cs.retiredTernary[:pm.retiredTernaryLen]

	s.bg.popBinaries(s.tr, pm.binaryTrailLen)

	s.level = af.savedLevel
	return nil
}

// PushLookahead1 opens a speculative probe scope: the search mode switches
// to lookahead1 so propagation accumulates weighted-new-binaries instead of
// mutating the permanent clause/ternary store, and the windfall stack
// starts empty (§4.6).
func (s *Solver) PushLookahead1(lit Lit, level int32) {
	s.mode = modeLookahead1
	s.metrics.Probe()
	s.PushScope(lit, level)
}

// PopLookahead1 closes a lookahead1 probe. If the probe did not conflict,
// every literal accumulated on the windfall stack is promoted to a
// permanent binary (~lit OR windfall) right after PopScope has undone the
// probe's own assignments -- these derived binaries are added outside that
// scope and so survive it, matching the teacher's own handling of persistent learned
// facts surviving the scope that discovered them (§4.6 "Windfalls").
func (s *Solver) PopLookahead1(lit Lit) bool {
	unsat := s.inconsistent
	s.mode = modeSearching
	if err := s.PopScope(); err != nil {
		invariantViolation("PopScope failed during PopLookahead1: " + err.Error())
	}
	if !unsat {
		nlit := lit.Not()
		for _, w := range s.wstack {
			s.bg.addBinary(s.tr, nlit, w)
			s.metrics.Windfall()
		}
		if len(s.wstack) > 0 {
			s.logger.WithField("lit", lit.Int()).WithField("count", len(s.wstack)).Trace("windfalls")
		}
	}
	s.wstack = s.wstack[:0]
	return unsat
}

// PushLookahead2 runs a nested double-look probe entirely within an already
// open lookahead1 probe: search mode becomes lookahead2, so even the
// weighted-new-binaries accumulation of lookahead1 is suppressed and this
// nested probe can only ever report sat/unsat (§4.7 "Double-look").
func (s *Solver) PushLookahead2(lit Lit, level int32) bool {
	s.mode = modeLookahead2
	s.PushScope(lit, level)
	unsat := s.inconsistent
	s.mode = modeLookahead1
	s.inconsistent = false
	if err := s.PopScope(); err != nil {
		invariantViolation("PopScope failed during PushLookahead2: " + err.Error())
	}
	return unsat
}
