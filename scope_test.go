package lookahead

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPopScopeReverts(t *testing.T) {
	in := Input{NumVars: 2, Clauses: []Clause{{1, 2}}}
	s := Init(in, DefaultConfig())
	s.PushScope(l(1), 1)
	require.True(t, s.tr.isAssigned(l(1)))
	require.Equal(t, 1, s.tr.depth())

	require.NoError(t, s.PopScope())
	require.False(t, s.tr.isAssigned(l(1)))
	require.Equal(t, 0, s.tr.depth())
	require.Equal(t, cFixedTruth, s.level)
}

func TestPushScopePropagatesForcedConsequences(t *testing.T) {
	in := Input{NumVars: 2, Clauses: []Clause{{-1, 2}}}
	s := Init(in, DefaultConfig())
	s.PushScope(l(1), 1)
	require.True(t, s.tr.isAssigned(l(1)))
	require.True(t, s.tr.isAssigned(l(2)))
	require.Equal(t, LTrue, s.tr.value(l(2)))

	require.NoError(t, s.PopScope())
	require.False(t, s.tr.isAssigned(l(1)))
	require.False(t, s.tr.isAssigned(l(2)))
}

func TestPopScopeUnderflow(t *testing.T) {
	in := Input{NumVars: 1}
	s := Init(in, DefaultConfig())
	require.Error(t, s.PopScope())
}

func TestPushLookahead1PromotesWindfallToPermanentBinary(t *testing.T) {
	// 3 is permanently true; deciding 1 forces ~2 via the binary clause,
	// and with 1 true and 2 false the ternary clause (-1 2 4) forces 4 --
	// all while in lookahead1 mode, so 4 lands on the windfall stack instead
	// of being treated as a permanent derivation in its own right.
	in := Input{
		NumVars: 4,
		Clauses: []Clause{{3}, {-1, -2}, {-1, 2, 4}},
	}
	s := Init(in, DefaultConfig())
	require.False(t, s.inconsistent)

	s.PushLookahead1(l(1), 1)
	require.Contains(t, s.wstack, l(4))

	unsat := s.PopLookahead1(l(1))
	require.False(t, unsat)
	require.False(t, s.tr.isAssigned(l(1)))
	require.False(t, s.tr.isAssigned(l(2)))
	require.True(t, s.tr.isAssigned(l(3)))
	require.False(t, s.tr.isAssigned(l(4)))
	require.Contains(t, s.bg.adj[l(1).Index()], l(4))
	require.Empty(t, s.wstack)
}

func TestPushLookahead2ReportsConflictAndFullyUnwinds(t *testing.T) {
	in := Input{NumVars: 1, Clauses: []Clause{{1}}}
	s := Init(in, DefaultConfig())

	unsat := s.PushLookahead2(l(-1), 1)
	require.True(t, unsat)
	require.False(t, s.inconsistent)
	require.Equal(t, 0, s.tr.depth())
	require.Equal(t, modeLookahead1, s.mode)
}

func TestPushLookahead2ReportsConsistentAndFullyUnwinds(t *testing.T) {
	in := Input{NumVars: 2}
	s := Init(in, DefaultConfig())

	unsat := s.PushLookahead2(l(1), 1)
	require.False(t, unsat)
	require.False(t, s.inconsistent)
	require.Equal(t, 0, s.tr.depth())
	require.False(t, s.tr.isAssigned(l(1)))
}
