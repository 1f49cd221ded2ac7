package lookahead

// binaryGraph is C4: the dynamic binary-implication graph and its epoch
// stamping tables. For literal l, adj[l] holds every consequence of l: the
// w such that l implies w, i.e. (~l OR w) is currently known. Equivalently,
// adding (a OR b) appends b to adj[~a] and a to adj[~b], so adj[~a] holds the
// consequences of ~a (§3's invariant).
type binaryGraph struct {
	adj [][]Lit

	bstamp   []uint32
	bstampID uint32

	istamp   []uint32
	istampID uint32

	proof   ProofSink
	metrics MetricsRecorder
}

func newBinaryGraph(numVars int, proof ProofSink, metrics MetricsRecorder) *binaryGraph {
	n := 2 * numVars
	return &binaryGraph{
		adj:     make([][]Lit, n),
		bstamp:  make([]uint32, n),
		istamp:  make([]uint32, n),
		proof:   proof,
		metrics: metrics,
	}
}

// incBstamp bumps the neighbourhood-marking epoch. On wrap (id overflowing
// back to 0) the table is re-zeroed and the epoch bumped twice, to
// re-establish the "no literal is stamped" postcondition without a linear
// scan on every call (§4.4, §9).
func (g *binaryGraph) incBstamp() uint32 {
	g.bstampID++
	if g.bstampID == 0 {
		for i := range g.bstamp {
			g.bstamp[i] = 0
		}
		g.bstampID = 2
	}
	return g.bstampID
}

func (g *binaryGraph) stampLit(l Lit) { g.bstamp[l] = g.bstampID }

func (g *binaryGraph) isStamped(l Lit) bool { return g.bstamp[l] == g.bstampID }

func (g *binaryGraph) incIstamp() uint32 {
	g.istampID++
	if g.istampID == 0 {
		for i := range g.istamp {
			g.istamp[i] = 0
		}
		g.istampID = 2
	}
	return g.istampID
}

func (g *binaryGraph) enableDoubleLook(l Lit) { g.istamp[l] = g.istampID }

func (g *binaryGraph) doubleLookEnabled(l Lit) bool { return g.istamp[l] == g.istampID }

// disableDoubleLook consumes l's one double-look chance for the current
// epoch; it can only be re-enabled by a fresh enableDoubleLook call after the
// next incIstamp.
func (g *binaryGraph) disableDoubleLook(l Lit) { g.istamp[l] = 0 }

// addBinary appends the binary clause (u OR v) to the graph, recording it on
// the trail's binary-trail for reversibility and optionally emitting a proof
// record. Duplicate and tautological binaries are suppressed (§4.4).
func (g *binaryGraph) addBinary(t *trail, u, v Lit) {
	if u == v.Not() {
		return // tautology: ~u = v
	}
	nu := u.Not()
	if adj := g.adj[nu]; len(adj) > 0 && adj[len(adj)-1] == v {
		return // duplicate of the most recently added binary on this literal
	}
	g.adj[nu] = append(g.adj[nu], v)
	g.adj[v.Not()] = append(g.adj[v.Not()], u)
	t.binaryTrail = append(t.binaryTrail, nu)
	if g.proof != nil {
		g.proof.AddClause([]Lit{u, v})
	}
	if g.metrics != nil {
		g.metrics.BinaryAdded()
	}
}

// popBinaries undoes every addBinary performed since mark, in LIFO order, by
// popping the last-appended neighbour off each recorded adjacency list.
func (g *binaryGraph) popBinaries(t *trail, mark int) {
	for i := len(t.binaryTrail) - 1; i >= mark; i-- {
		nu := t.binaryTrail[i]
		adj := g.adj[nu]
		v := adj[len(adj)-1]
		g.adj[nu] = adj[:len(adj)-1]
		vadj := g.adj[v.Not()]
		// The matching entry on the other side is always the most
		// recently appended one too, since both sides are pushed
		// together by addBinary.
		g.adj[v.Not()] = vadj[:len(vadj)-1]
		if g.proof != nil {
			g.proof.DelClause([]Lit{nu.Not(), v})
		}
	}
	t.binaryTrail = t.binaryTrail[:mark]
}

// tryAddBinary implements dynamic hyper-binary resolution for a candidate
// binary (u OR v) discovered by propagation shrinking a ternary or n-ary
// clause down to two undefined literals (§4.4).
//
// assign is called with a literal that must be forced true as a result
// of the resolution; it returns whether propagation remains consistent.
// updatePrefix, if non-nil, is called on u and v right before the binary is
// actually added, mirroring the branch-key refresh the original solver
// performs at that point.
func (g *binaryGraph) tryAddBinary(t *trail, cfg *Config, u, v Lit, assign func(Lit) bool, updatePrefix func(Lit)) bool {
	g.incBstamp()
	g.stampLit(u.Not())
	for _, w := range g.adj[u.Not()] {
		g.stampLit(w)
	}

	if g.isStamped(v.Not()) {
		// (u OR v), (u OR ~v) both known or derivable => u.
		return assign(u)
	}
	if g.isStamped(v) {
		// v is already a consequence of ~u, i.e. (u OR v) is already known.
		return true
	}

	if ok, unit := g.tc1(t, cfg, u, v); !ok {
		return false
	} else if unit {
		return assign(u)
	}

	g.incBstamp()
	g.stampLit(v.Not())
	for _, w := range g.adj[v.Not()] {
		g.stampLit(w)
	}

	if g.isStamped(u.Not()) {
		// (u OR v), (~u OR v) both known or derivable => v.
		return assign(v)
	}
	if g.isStamped(u) {
		return true
	}

	if ok, unit := g.tc1(t, cfg, v, u); !ok {
		return false
	} else if unit {
		return assign(v)
	}

	if updatePrefix != nil {
		updatePrefix(u)
		updatePrefix(v)
	}
	g.addBinary(t, u, v)
	return true
}

// tc1 performs one pass of TC1(u,v), to be called while the current bstamp
// epoch marks ~u's neighbourhood: for each w in adj(v) that is not yet
// fixed, if ~w is already stamped we have derived (u OR v), (~v OR w),
// (u OR ~w) -- hence u -- and assign u and stop; otherwise, within budget,
// append (u OR w) as a fresh binary. Returns (consistent, unitDerived).
func (g *binaryGraph) tc1(t *trail, cfg *Config, u, v Lit) (bool, bool) {
	for _, w := range g.adj[v] {
		if t.isFixed(w, cFixedTruth) || t.isFixed(w.Not(), cFixedTruth) {
			continue
		}
		if g.isStamped(w.Not()) {
			return true, true
		}
		if t.numTC1 >= int(cfg.TC1Limit) {
			continue
		}
		g.addBinary(t, u, w)
		t.numTC1++
	}
	return true, false
}
