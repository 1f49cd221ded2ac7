package lookahead

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCandidateHeapIsMaxHeapByRating(t *testing.T) {
	h := &candidateHeap{
		{v: 0, rating: 1},
		{v: 1, rating: 5},
		{v: 2, rating: 3},
	}
	heap.Init(h)
	heap.Push(h, candidate{v: 3, rating: 4})

	var order []float64
	for h.Len() > 0 {
		c := heap.Pop(h).(candidate)
		order = append(order, c.rating)
	}
	require.Equal(t, []float64{5, 4, 3, 1}, order)
}

func TestEnsureHGrowsLazily(t *testing.T) {
	in := Input{NumVars: 3}
	s := Init(in, DefaultConfig())
	require.Empty(t, s.hTables)
	s.ensureH(2)
	require.Len(t, s.hTables, 3)
	for _, row := range s.hTables {
		require.Len(t, row, 6)
	}
	s.ensureH(1)
	require.Len(t, s.hTables, 3, "ensureH must not shrink or reallocate an already-large-enough table")
}

func TestHScoreDefaultsToZeroBeforeHeurIsSet(t *testing.T) {
	in := Input{NumVars: 1}
	s := Init(in, DefaultConfig())
	require.Equal(t, float64(0), s.hScore(l(1)))
}

func TestIsSatTrueForTriviallySatisfiedFormula(t *testing.T) {
	in := Input{NumVars: 2}
	s := Init(in, DefaultConfig())
	require.True(t, s.isSat())
}

func TestIsSatFalseWithUnsatisfiedClause(t *testing.T) {
	in := Input{NumVars: 3, Clauses: []Clause{{1, 2, 3}}}
	s := Init(in, DefaultConfig())
	require.False(t, s.isSat())
}

func TestIsSatTrueOnceClauseSatisfied(t *testing.T) {
	in := Input{NumVars: 3, Clauses: []Clause{{1}, {1, 2, 3}}}
	s := Init(in, DefaultConfig())
	require.True(t, s.isSat())
}

func TestFlipPrefixSetsCurrentBitAndClearsAbove(t *testing.T) {
	in := Input{NumVars: 1}
	s := Init(in, DefaultConfig())
	s.prefix = 0b111 // bits above the current depth (0) pre-set
	s.flipPrefix()
	require.Equal(t, uint64(1), s.prefix)
}

func TestPrunePrefixClearsAtAndAboveCurrentDepth(t *testing.T) {
	in := Input{NumVars: 1}
	s := Init(in, DefaultConfig())
	s.scopeMarks = make([]pushMark, 2)
	s.prefix = 0b1111
	s.prunePrefix()
	require.Equal(t, uint64(0b0011), s.prefix)
}

func TestActivePrefixTrueForFreshVariable(t *testing.T) {
	in := Input{NumVars: 1}
	s := Init(in, DefaultConfig())
	require.True(t, s.activePrefix(Var(0)))
}

func TestUpdatePrefixThenActivePrefixAgreeAtSameDepth(t *testing.T) {
	in := Input{NumVars: 1}
	s := Init(in, DefaultConfig())
	s.prefix = 0b101
	s.updatePrefix(l(1))
	require.True(t, s.activePrefix(Var(0)))
}

func TestActivePrefixFalseAfterDeeperStaleKey(t *testing.T) {
	in := Input{NumVars: 1}
	s := Init(in, DefaultConfig())
	// Record a key for the variable one level deep, under prefix bit 0 set...
	s.scopeMarks = make([]pushMark, 1)
	s.prefix = 0b1
	s.branchKey[0] = branchKey{prefix: 0b1, length: 1}
	// ...then pop back to the top level with a different prefix value:
	// the recorded key is now deeper than the current branch, so it can't
	// be trusted.
	s.scopeMarks = nil
	s.prefix = 0b0
	require.False(t, s.activePrefix(Var(0)))
}
