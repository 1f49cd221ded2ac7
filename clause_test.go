package lookahead

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func l(n int) Lit { return LitFromInt(n) }

func TestMkClauseRejectsShortClauses(t *testing.T) {
	cs := newClauseStore(4)
	require.Panics(t, func() { cs.mkClause([]Lit{l(1)}) })
	require.Panics(t, func() { cs.mkClause([]Lit{l(1), l(2)}) })
}

func TestMkClauseTernaryAttachesAllThreeWatches(t *testing.T) {
	cs := newClauseStore(4)
	h := cs.mkClause([]Lit{l(1), l(2), l(3)})
	require.Len(t, cs.ternaryWatch[l(-1).Index()], 1)
	require.Len(t, cs.ternaryWatch[l(-2).Index()], 1)
	require.Len(t, cs.ternaryWatch[l(-3).Index()], 1)
	require.False(t, cs.alloc.get(h).removed)
}

func TestMkClauseLargeAttachesTwoWatchedLiterals(t *testing.T) {
	cs := newClauseStore(4)
	cs.mkClause([]Lit{l(1), l(2), l(3), l(4)})
	require.Len(t, cs.watches[l(-1).Index()], 1)
	require.Len(t, cs.watches[l(-2).Index()], 1)
	require.Len(t, cs.watches[l(-3).Index()], 0)
	require.Len(t, cs.watches[l(-4).Index()], 0)
}

func TestMkClauseAttachesFullWatchUnderEveryNegation(t *testing.T) {
	cs := newClauseStore(4)
	h := cs.mkClause([]Lit{l(1), l(2), l(3)})
	for _, lit := range []Lit{l(1), l(2), l(3)} {
		fw := cs.fullWatches[lit.Not().Index()]
		require.Len(t, fw, 1)
		require.Equal(t, h, fw[0])
	}
}

func TestDetachReattachTernary(t *testing.T) {
	cs := newClauseStore(4)
	cs.mkClause([]Lit{l(1), l(2), l(3)})
	cs.detachTernary(l(1), l(2), l(3))
	require.Len(t, cs.ternaryWatch[l(-2).Index()], 0)
	require.Len(t, cs.ternaryWatch[l(-3).Index()], 0)
	require.Len(t, cs.retiredTernary, 1)

	retired := cs.retiredTernary[len(cs.retiredTernary)-1]
	cs.reattachTernary(retired)
	require.Len(t, cs.ternaryWatch[l(-1).Index()], 2)
	require.Len(t, cs.ternaryWatch[l(-2).Index()], 1)
	require.Len(t, cs.ternaryWatch[l(-3).Index()], 1)
}

func TestDetachReattachClause(t *testing.T) {
	cs := newClauseStore(4)
	h := cs.mkClause([]Lit{l(1), l(2), l(3), l(4)})
	cs.detachClause(h)
	require.True(t, cs.alloc.get(h).removed)
	require.Len(t, cs.watches[l(-1).Index()], 0)
	require.Len(t, cs.watches[l(-2).Index()], 0)
	require.Len(t, cs.retiredClauses, 1)

	cs.reattachClause(h)
	require.False(t, cs.alloc.get(h).removed)
	require.Len(t, cs.watches[l(-1).Index()], 1)
	require.Len(t, cs.watches[l(-2).Index()], 1)
}

func TestAttachExt(t *testing.T) {
	cs := newClauseStore(4)
	cs.attachExt(l(1), 7)
	ws := cs.watches[l(-1).Index()]
	require.Len(t, ws, 1)
	require.Equal(t, watchExt, ws[0].tag)
	require.Equal(t, 7, ws[0].extIdx)
}
