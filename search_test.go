package lookahead

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func satisfies(clauses []Clause, m Model) bool {
	for _, c := range clauses {
		ok := false
		for _, n := range c {
			v := n
			if v < 0 {
				v = -v
			}
			want := LTrue
			if n < 0 {
				want = LFalse
			}
			if m.Value(v) == want {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func TestSolveTrivialSAT(t *testing.T) {
	in := Input{NumVars: 2}
	s := Init(in, DefaultConfig())
	res, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, LTrue, res)
	m := s.ExtractModel()
	require.Len(t, m, 2)
}

func TestSolveImmediateUnsat(t *testing.T) {
	in := Input{
		NumVars: 1,
		Clauses: []Clause{{1}, {-1}},
	}
	s := Init(in, DefaultConfig())
	res, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, LFalse, res)
}

func TestSolveChainedUnsatPropagation(t *testing.T) {
	// 1 forces 2 via (-1 2), 2 forces 3 via (-2 3), and 3 forces ~1 via
	// (-3 -1) -- a binary chain whose conclusion contradicts its own
	// premise, discovered purely through propagateBinary during Init.
	in := Input{
		NumVars: 3,
		Clauses: []Clause{{1}, {-1, 2}, {-2, 3}, {-3, -1}},
	}
	s := Init(in, DefaultConfig())
	res, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, LFalse, res)
}

func TestSolveRequiresBranching(t *testing.T) {
	// All three clauses are binary; none is a unit, so nothing is forced
	// until Solve picks a first decision -- this exercises choose(),
	// computeSCC/computeWNB, and PushScope/PopScope end to end.
	clauses := []Clause{{1, 2}, {-1, 3}, {-2, -3}}
	in := Input{NumVars: 3, Clauses: clauses}
	s := Init(in, DefaultConfig())
	res, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, LTrue, res)
	m := s.ExtractModel()
	require.True(t, satisfies(clauses, m), "model %v does not satisfy %v", m, clauses)
}

func TestSolveUnsatRequiresDecisionAndBacktrack(t *testing.T) {
	// The four binary clauses over {a, b} force both a->b and a->~b (and
	// symmetrically for ~a): every literal's forced consequences collide,
	// so UNSAT falls out whether it's caught by a lookahead probe or only
	// after an actual decision and backtrack.
	in := Input{
		NumVars: 2,
		Clauses: []Clause{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}},
	}
	s := Init(in, DefaultConfig())
	res, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, LFalse, res)
}

func TestSolveCancelled(t *testing.T) {
	in := Input{NumVars: 4}
	s := Init(in, DefaultConfig())
	s.SetCancelToken(CancelFunc(func() bool { return true }))
	_, err := s.Solve()
	require.Error(t, err)
	require.True(t, IsCancelled(err))
}
