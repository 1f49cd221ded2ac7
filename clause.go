package lookahead

// ClauseHandle is a stable offset into the clause allocator. It is the only
// way clauses outside size 2-3 are referenced; the allocator may relocate
// backing storage as it grows but handles remain valid (§4.1: "Clauses live
// in an allocator returning stable offsets").
type ClauseHandle int32

// clause is a stored clause of size >= 3: ternaries are allocated here too,
// though they propagate through ternaryWatch. For an n-ary clause (size >= 4)
// the first two slots are the watched positions.
type clause struct {
	lits    []Lit
	removed bool
}

// clauseAllocator owns clause storage. Handles are indices into store; a
// freelist is not maintained (matching the teacher's append-only clause
// slice) because clauses are logically deleted via the removed flag and
// never physically reclaimed.
type clauseAllocator struct {
	store []clause
}

func newClauseAllocator() *clauseAllocator {
	return &clauseAllocator{}
}

func (a *clauseAllocator) alloc(lits []Lit) ClauseHandle {
	h := ClauseHandle(len(a.store))
	cp := make([]Lit, len(lits))
	copy(cp, lits)
	a.store = append(a.store, clause{lits: cp})
	return h
}

func (a *clauseAllocator) get(h ClauseHandle) *clause {
	return &a.store[h]
}

// watchTag discriminates the elements of a per-literal watch list.
type watchTag uint8

const (
	// watchBinary is never constructed at this layer; binary clauses are
	// represented solely via the adjacency lists of C4, not as watch-list
	// entries. Encountering one here is an invariant violation.
	watchBinary watchTag = iota
	watchTernary
	watchClause
	watchExt
)

// watch is one entry of a per-literal watch list (§3 "Ternary watch").
type watch struct {
	tag watchTag

	// watchTernary: the two co-watched literals of the ternary clause,
	// excluding the literal this watch is filed under.
	t1, t2 Lit

	// watchClause: a blocking literal for a fast satisfied-shortcut, plus
	// the clause handle.
	blocker Lit
	handle  ClauseHandle

	// watchExt: an opaque index into the embedded extension's own state.
	extIdx int
}

// clauseStore is C1: literal and clause store. It owns the clause allocator,
// the ternary and n-ary watch lists, and the full-watch lists used by
// autarky checks.
type clauseStore struct {
	alloc *clauseAllocator

	// ternaryWatch[l] holds one watchTernary entry per ternary clause
	// containing l.Not(), tagged with the other two literals.
	ternaryWatch [][]watch

	// watches[l] holds watchClause/watchExt entries: clauses of size > 3
	// watched by l, plus extension watches.
	watches [][]watch

	// fullWatches[l] holds every clause (of any size) containing l.Not(),
	// used by the autarky check in C7.
	fullWatches [][]ClauseHandle

	retiredClauses  []ClauseHandle // detached (logically) n-ary clauses
	retiredTernary  []retiredTernary
}

type retiredTernary struct {
	a, b, c Lit
}

func newClauseStore(numVars int) *clauseStore {
	n := 2 * numVars
	return &clauseStore{
		alloc:        newClauseAllocator(),
		ternaryWatch: make([][]watch, n),
		watches:      make([][]watch, n),
		fullWatches:  make([][]ClauseHandle, n),
	}
}

// mkClause installs a clause of size >= 3 into the store. Binary clauses
// (size 2) are rejected here; the caller must route them through C4's
// AddBinary instead (§3 "Binary clauses are not stored as Clause objects").
func (cs *clauseStore) mkClause(lits []Lit) ClauseHandle {
	if len(lits) < 2 {
		panic("lookahead: mkClause requires at least 2 literals")
	}
	if len(lits) == 2 {
		panic("lookahead: binary clauses must be added via AddBinary, not mkClause")
	}
	h := cs.alloc.alloc(lits)
	if len(lits) == 3 {
		cs.attachTernary(h)
	} else {
		cs.attachClause(h)
	}
	cs.attachFullWatch(h)
	return h
}

func (cs *clauseStore) attachFullWatch(h ClauseHandle) {
	c := cs.alloc.get(h)
	for _, l := range c.lits {
		neg := l.Not()
		cs.fullWatches[neg] = append(cs.fullWatches[neg], h)
	}
}

// attachTernary registers a size-3 clause in each of its three literals'
// ternary watch lists, bypassing the generic two-watch protocol (§4.1). Each
// entry is filed under the NEGATION of the literal it watches (so that
// propagate, looking up the watch list of a literal that just became true,
// finds the clauses that literal's negation falsifies), storing the other
// two literals of the clause.
func (cs *clauseStore) attachTernary(h ClauseHandle) {
	c := cs.alloc.get(h)
	a, b, d := c.lits[0], c.lits[1], c.lits[2]
	cs.ternaryWatch[a.Not()] = append(cs.ternaryWatch[a.Not()], watch{tag: watchTernary, t1: b, t2: d})
	cs.ternaryWatch[b.Not()] = append(cs.ternaryWatch[b.Not()], watch{tag: watchTernary, t1: a, t2: d})
	cs.ternaryWatch[d.Not()] = append(cs.ternaryWatch[d.Not()], watch{tag: watchTernary, t1: a, t2: b})
}

// attachClause registers a size>3 clause's first two literals as its watched
// positions, filed under their negations (same convention as attachTernary),
// each carrying a blocking literal (the other watch) for the propagation
// fast path.
func (cs *clauseStore) attachClause(h ClauseHandle) {
	c := cs.alloc.get(h)
	l0, l1 := c.lits[0], c.lits[1]
	cs.watches[l0.Not()] = append(cs.watches[l0.Not()], watch{tag: watchClause, blocker: l1, handle: h})
	cs.watches[l1.Not()] = append(cs.watches[l1.Not()], watch{tag: watchClause, blocker: l0, handle: h})
}

// detachTernary logically removes a ternary clause from the three watch
// lists it occupies; used when try_add_binary subsumes it (§4.3 case 2), and
// records it on the retired-ternary list so a matching PopScope can
// re-attach it. l1 is the literal whose falsification triggered the detach
// (so its own watch entry, filed under l1.Not(), is already being consumed
// by the caller's in-place compaction); only the other two watch lists need
// explicit cleanup here.
func (cs *clauseStore) detachTernary(l1, l2, l3 Lit) {
	removeTernaryWatch(cs.ternaryWatch, l2.Not(), l1, l3)
	removeTernaryWatch(cs.ternaryWatch, l3.Not(), l1, l2)
	cs.retiredTernary = append(cs.retiredTernary, retiredTernary{a: l1, b: l2, c: l3})
}

// reattachTernary re-files a previously detached ternary clause in all three
// of its watch lists (PopScope).
func (cs *clauseStore) reattachTernary(t retiredTernary) {
	cs.ternaryWatch[t.a.Not()] = append(cs.ternaryWatch[t.a.Not()], watch{tag: watchTernary, t1: t.b, t2: t.c})
	cs.ternaryWatch[t.b.Not()] = append(cs.ternaryWatch[t.b.Not()], watch{tag: watchTernary, t1: t.a, t2: t.c})
	cs.ternaryWatch[t.c.Not()] = append(cs.ternaryWatch[t.c.Not()], watch{tag: watchTernary, t1: t.a, t2: t.b})
}

func removeTernaryWatch(lists [][]watch, at Lit, other1, other2 Lit) {
	ws := lists[at]
	for i, w := range ws {
		if w.tag == watchTernary && ((w.t1 == other1 && w.t2 == other2) || (w.t1 == other2 && w.t2 == other1)) {
			ws[i] = ws[len(ws)-1]
			lists[at] = ws[:len(ws)-1]
			return
		}
	}
}

// detachClause marks a clause removed, drops both of its generic watches,
// and records it as retired so a matching PopScope can re-attach it.
func (cs *clauseStore) detachClause(h ClauseHandle) {
	c := cs.alloc.get(h)
	c.removed = true
	l0, l1 := c.lits[0], c.lits[1]
	removeClauseWatch(cs.watches, l0.Not(), h)
	removeClauseWatch(cs.watches, l1.Not(), h)
	cs.retiredClauses = append(cs.retiredClauses, h)
}

// reattachClause un-retires a clause and re-registers its current first two
// literals as watches (PopScope).
func (cs *clauseStore) reattachClause(h ClauseHandle) {
	c := cs.alloc.get(h)
	c.removed = false
	cs.attachClause(h)
}

func removeClauseWatch(lists [][]watch, at Lit, h ClauseHandle) {
	ws := lists[at]
	for i, w := range ws {
		if w.tag == watchClause && w.handle == h {
			ws[i] = ws[len(ws)-1]
			lists[at] = ws[:len(ws)-1]
			return
		}
	}
}

// attachExt installs an extension watch that fires when l is falsified, with
// opaque index idx (§4.3 case 4), using the same ".Not()" filing convention
// as the clause and ternary watch lists.
func (cs *clauseStore) attachExt(l Lit, idx int) {
	cs.watches[l.Not()] = append(cs.watches[l.Not()], watch{tag: watchExt, extIdx: idx})
}
