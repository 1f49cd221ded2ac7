package lookahead

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimplifyDerivesUnits(t *testing.T) {
	in := Input{
		NumVars: 2,
		Clauses: []Clause{{1}, {-1, 2}},
	}
	s := Init(in, DefaultConfig())
	units, ok := s.Simplify()
	require.True(t, ok)
	got := map[int]bool{}
	for _, u := range units {
		got[u.Int()] = true
	}
	require.True(t, got[1], "expected unit 1 in %v", units)
	require.True(t, got[2], "expected unit 2 in %v", units)
}

func TestSimplifyUnsat(t *testing.T) {
	in := Input{
		NumVars: 1,
		Clauses: []Clause{{1}, {-1}},
	}
	s := Init(in, DefaultConfig())
	_, ok := s.Simplify()
	require.False(t, ok)
}

func TestEliminateEquivalences(t *testing.T) {
	// (-1 2) and (1 -2) together assert 1 <-> 2.
	in := Input{
		NumVars: 2,
		Clauses: []Clause{{-1, 2}, {1, -2}},
	}
	s := Init(in, DefaultConfig())
	eqs, ok := s.EliminateEquivalences()
	require.True(t, ok)
	require.Len(t, eqs, 1)
	require.NotEqual(t, eqs[0].V, eqs[0].Root.Var())
}

func TestEliminateEquivalencesUnsat(t *testing.T) {
	in := Input{
		NumVars: 1,
		Clauses: []Clause{{1}, {-1}},
	}
	s := Init(in, DefaultConfig())
	_, ok := s.EliminateEquivalences()
	require.False(t, ok)
}

func TestSelectLookaheadRestrictsCandidates(t *testing.T) {
	in := Input{NumVars: 3}
	// With no clauses every probe is an autarky, which would fix the
	// candidate permanently instead of leaving it to be chosen.
	cfg := DefaultConfig()
	cfg.EnableAutarky = false
	s := Init(in, cfg)
	l := s.SelectLookahead(nil, []int{1})
	require.False(t, l.IsNull())
	require.Equal(t, Var(0), l.Var())
}

func TestSelectLookaheadWithAssumptions(t *testing.T) {
	in := Input{NumVars: 3}
	// Autarky promotion off, as above: otherwise both candidates are
	// fixed as autarkies and no literal is left to return.
	cfg := DefaultConfig()
	cfg.EnableAutarky = false
	s := Init(in, cfg)
	l := s.SelectLookahead([]int{1}, []int{2, 3})
	require.False(t, l.IsNull())
	require.NotEqual(t, Var(0), l.Var())
	// The assumption must have been fully unwound afterwards.
	require.Equal(t, 0, len(s.scopeMarks))
	require.False(t, s.tr.isAssigned(LitFromInt(1)))
}
