package lookahead

// Solve runs C8's top-level decision loop to completion: repeatedly choose a
// literal via preSelect/computeWNB/selectLiteral, push it as a full-strength
// decision, and backtrack on conflict, until either the decision stack empties
// with a conflict still present (UNSAT) or choose finds nothing left to branch
// on (SAT) (§4.8 "search()"). A non-nil error means a checkpoint fired
// (cancellation or the memory ceiling); the solver is left fully unwound
// (every scope this call opened has been popped) so it is fit to be resumed
// via the embedding solver's own recovery or simply dropped.
func (s *Solver) Solve() (LBool, error) {
	s.mode = modeSearching
	s.level = cFixedTruth
	var decisions []Lit

	for {
		s.bg.incIstamp()
		if err := s.Checkpoint(); err != nil {
			return LUndef, s.unwindOnError(&decisions, err)
		}
		if s.inconsistent {
			ok, err := s.backtrack(&decisions)
			if err != nil {
				return LUndef, err
			}
			if !ok {
				return LFalse, nil
			}
			continue
		}
		l := s.choose()
		if s.inconsistent {
			ok, err := s.backtrack(&decisions)
			if err != nil {
				return LUndef, err
			}
			if !ok {
				return LFalse, nil
			}
			continue
		}
		if l == NullLit {
			return LTrue, nil
		}
		s.numDecisions++
		s.metrics.Decision()
		s.PushScope(l, cFixedTruth)
		decisions = append(decisions, l)
	}
}

// unwindOnError pops every decision Solve opened before a checkpoint error
// fired, so the solver is left consistent for the caller (§5 "Cancellation").
func (s *Solver) unwindOnError(decisions *[]Lit, err error) error {
	for range *decisions {
		if popErr := s.PopScope(); popErr != nil {
			invariantViolation("PopScope failed while unwinding a cancelled search: " + popErr.Error())
		}
	}
	*decisions = nil
	return err
}

// backtrack is C8's conflict-recovery loop: while the solver remains
// inconsistent, pop the most recent decision's scope, flip that depth's
// prefix bit (so pre_select can tell its candidates were re-scored under the
// flipped branch), force the decision's negation, and propagate; reports
// false once the decision stack empties with the conflict unresolved (§4.8
// "backtrack").
func (s *Solver) backtrack(decisions *[]Lit) (bool, error) {
	for s.inconsistent {
		n := len(*decisions)
		if n == 0 {
			return false, nil
		}
		if err := s.PopScope(); err != nil {
			return false, err
		}
		s.flipPrefix()
		last := (*decisions)[n-1]
		*decisions = (*decisions)[:n-1]
		s.assign(last.Not())
		if err := s.propagate(); err != nil {
			return false, err
		}
		s.numConflicts++
	}
	return true, nil
}

// choose is C8's glue atop C5-C7: keep building a fresh lookahead table and
// probing it until either the table comes out empty (every free variable is
// already satisfied -- nothing left to branch on) or a probe round yields a
// literal whose mixDiff beats every other candidate (§4.8 "choose()").
func (s *Solver) choose() Lit {
	l := NullLit
	for l == NullLit {
		s.preSelect()
		if len(s.table) == 0 {
			break
		}
		s.computeWNB()
		if s.inconsistent {
			break
		}
		l = s.selectLiteral()
	}
	return l
}
