package lookahead

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeSCCDetectsComplementaryContradiction(t *testing.T) {
	// Every literal over {1, 2} forces both its neighbour and that
	// neighbour's negation, so the restricted implication graph folds a
	// literal and its own complement into one component.
	in := Input{
		NumVars: 2,
		Clauses: []Clause{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}},
	}
	s := Init(in, DefaultConfig())
	require.False(t, s.inconsistent)
	require.True(t, s.selectCandidates(0))
	s.computeSCC()
	require.True(t, s.inconsistent)
}

func TestComputeSCCMergesEquivalentLiterals(t *testing.T) {
	// (-1 2) and (1 -2) assert 1 <-> 2: both positive literals settle into
	// the same Tarjan component.
	in := Input{
		NumVars: 2,
		Clauses: []Clause{{-1, 2}, {1, -2}},
	}
	s := Init(in, DefaultConfig())
	require.True(t, s.selectCandidates(0))
	s.computeSCC()
	require.False(t, s.inconsistent)
	require.Equal(t, s.dfsParent[l(1)], s.dfsParent[l(2)])
}

func TestComputeSCCIndependentCandidatesDontMerge(t *testing.T) {
	in := Input{
		NumVars: 2,
		Clauses: []Clause{{1, 2}},
	}
	s := Init(in, DefaultConfig())
	require.True(t, s.selectCandidates(0))
	s.computeSCC()
	require.False(t, s.inconsistent)
	// ~1 implies 2 and ~2 implies 1 only -- a one-way conditional, not a
	// cycle, so each literal settles as the sole member of its own
	// component instead of merging with another candidate's literal.
	require.Equal(t, l(1), s.dfsParent[l(1)])
	require.Equal(t, l(2), s.dfsParent[l(2)])
}

func TestFindHeightsAndConstructLookaheadTableBuildNonEmptyForest(t *testing.T) {
	in := Input{
		NumVars: 2,
		Clauses: []Clause{{-1, 2}, {1, -2}},
	}
	s := Init(in, DefaultConfig())
	require.True(t, s.selectCandidates(0))
	s.computeSCC()
	require.False(t, s.inconsistent)
	s.findHeights()
	s.constructLookaheadTable()
	require.NotEmpty(t, s.table)
	for i, e := range s.table {
		require.False(t, e.lit.IsNull(), "table[%d] has a null literal", i)
	}
}
