package lookahead

import "math"

// computeSCC is C6's top-level entry, called once per preSelect: restrict
// the binary-implication graph to the current candidate set (both
// polarities), run iterative Tarjan over it, and -- if no contradiction was
// found mid-DFS -- leave the resulting components ready for findHeights and
// constructLookaheadTable (§4.6 "get_scc").
func (s *Solver) computeSCC() {
	s.initSCC()
	for _, c := range s.candidates {
		if s.inconsistent {
			return
		}
		lit := NewLit(c.v, false)
		if s.dfsRank[lit] == 0 {
			s.tarjan(lit)
		}
		if s.inconsistent {
			return
		}
		if s.dfsRank[lit.Not()] == 0 {
			s.tarjan(lit.Not())
		}
	}
}

// initSCC resets the DFS bookkeeping for every candidate literal and its
// negation, stamps them so initArcs can tell candidate edges from the rest
// of the graph, then builds the restricted arc set (§4.6 "init_scc").
func (s *Solver) initSCC() {
	s.bg.incBstamp()
	for _, c := range s.candidates {
		lit := NewLit(c.v, false)
		s.initDFSInfo(lit)
		s.initDFSInfo(lit.Not())
	}
	for _, c := range s.candidates {
		lit := NewLit(c.v, false)
		s.initArcs(lit)
		s.initArcs(lit.Not())
	}
	s.rankSeq = 0
	s.active = NullLit
	s.settled = NullLit
}

func (s *Solver) initDFSInfo(l Lit) {
	s.dfsRank[l] = 0
	s.dfsParent[l] = NullLit
	s.dfsMin[l] = NullLit
	s.dfsLink[l] = NullLit
	s.dfsHeight[l] = 0
	s.dfsChild[l] = NullLit
	s.arcsOut[l] = s.arcsOut[l][:0]
	s.bg.stampLit(l)
}

// initArcs lays down the Tarjan arc set for l: arcs run opposite the
// implication, so l => u (u in adj[l]) becomes arc u->l, restricted to pairs
// where both l and u are themselves candidates or negated candidates
// (§4.6 "arcs are added in the opposite direction of implications").
func (s *Solver) initArcs(l Lit) {
	for _, u := range s.bg.adj[l] {
		if u.Index() > l.Index() && s.bg.isStamped(u) {
			s.addArc(l.Not(), u.Not())
			s.addArc(u, l)
		}
	}
}

func (s *Solver) addArc(from, to Lit) {
	s.arcsOut[from] = append(s.arcsOut[from], to)
}

// tarjan runs one iterative Tarjan DFS rooted at v, using dfsParent as the
// implicit call stack -- the same non-recursive technique the teacher's own
// source uses, so no recursion depth bound is needed for large formulas
// (§4.6 "get_scc(literal v)").
func (s *Solver) tarjan(v Lit) {
	s.dfsParent[v] = NullLit
	s.activateSCC(v)
	for v != NullLit && !s.inconsistent {
		ll := s.dfsMin[v]
		if n := len(s.arcsOut[v]); n > 0 {
			u := s.arcsOut[v][n-1]
			s.arcsOut[v] = s.arcsOut[v][:n-1]
			if r := s.dfsRank[u]; r > 0 {
				// u was already processed; fold its rank into v's lowlink.
				if r < s.dfsRank[ll] {
					s.dfsMin[v] = u
				}
			} else {
				s.dfsParent[u] = v
				v = u
				s.activateSCC(v)
			}
		} else {
			u := s.dfsParent[v]
			if v == ll {
				s.foundSCC(v)
			} else if s.dfsRank[ll] < s.dfsRank[s.dfsMin[u]] {
				s.dfsMin[u] = ll
			}
			v = u
		}
	}
}

func (s *Solver) activateSCC(l Lit) {
	s.rankSeq++
	s.dfsRank[l] = s.rankSeq
	s.dfsLink[l] = s.active
	s.dfsMin[l] = l
	s.active = l
}

// foundSCC closes out the component rooted at v: every member between the
// top of the active stack and v is popped onto the settled list, stamped
// rank = settled (UINT_MAX in the teacher, math.MaxInt32 here), and pointed
// at v as its representative. If the complementary literal turns up in the
// same component the formula is unsatisfiable. vcomp(v) is seeded to
// whichever member has the highest H-score rating, with the usual
// complementary-component shortcut when ~v settled earlier in the same
// call (§4.6 "found_scc").
func (s *Solver) foundSCC(v Lit) {
	t := s.active
	s.active = s.dfsLink[v]
	best := v
	bestRating := s.litRating(v)
	s.dfsRank[v] = math.MaxInt32
	s.dfsLink[v] = s.settled
	s.settled = t
	for t != v {
		if t == v.Not() {
			s.inconsistent = true
			return
		}
		s.dfsRank[t] = math.MaxInt32
		s.dfsParent[t] = v
		if r := s.litRating(t); r > bestRating {
			best = t
			bestRating = r
		}
		t = s.dfsLink[t]
	}
	s.dfsParent[v] = v
	s.vcomp[v] = best
	if s.dfsRank[v.Not()] == math.MaxInt32 {
		s.vcomp[v] = s.vcomp[s.dfsParent[v.Not()]].Not()
	}
}

func (s *Solver) litRating(l Lit) float64 { return s.rating[l.Var()] }

// getChild and setChild read/write the forest's first-child pointer, with
// NullLit standing for the synthetic root whose children are the top-level
// class representatives (§4.6 "lookahead forest").
func (s *Solver) getChild(u Lit) Lit {
	if u == NullLit {
		return s.rootChild
	}
	return s.dfsChild[u]
}

func (s *Solver) setChild(v, u Lit) {
	if v == NullLit {
		s.rootChild = u
	} else {
		s.dfsChild[v] = u
	}
}

// findHeights walks the settled list -- topologically ordered so that an
// equivalence class's members are contiguous and its representative comes
// last (§4.6) -- accumulating, across every member of a class, the tallest
// predecessor class among the member's direct consequences, adj(member)
// (skipping edges that stay inside the class). Once the representative itself is reached the class's
// height is committed and the representative is threaded in as a child of
// its tallest predecessor's representative (or of the synthetic root, if it
// has none), building the rooted implication forest.
func (s *Solver) findHeights() {
	s.rootChild = NullLit
	pp := NullLit
	var h int32
	w := NullLit
	for u := s.settled; u != NullLit; {
		next := s.dfsLink[u]
		p := s.dfsParent[u]
		if p != pp {
			h = 0
			w = NullLit
			pp = p
		}
		for _, v := range s.bg.adj[u] {
			pv := s.dfsParent[v]
			if pv == p {
				continue
			}
			if hh := s.dfsHeight[pv]; hh >= h {
				h = hh + 1
				w = pv
			}
		}
		if p == u {
			child := s.getChild(w)
			s.dfsHeight[u] = h
			s.setChild(u, NullLit)
			s.dfsLink[u] = child
			s.setChild(w, u)
		}
		u = next
	}
}

// constructLookaheadTable performs a depth-first preorder walk of the
// forest findHeights built: each node is inserted into the table as it is
// first visited (preorder position), and assigned its even offset only
// after its entire subtree has finished (postorder numbering) -- offsets
// therefore run 0, 2, 4, ... but not necessarily in table order. Every
// non-root node also records, in s.parent, the vcomp of its real tree
// parent -- the seed computeWNB uses for that literal's WNB accumulation.
//
// The teacher's C++ walks this preorder non-recursively, threading the walk
// through the rank/parent/link fields reused for three different meanings
// across the function. Go has no equivalent stack-depth pressure here --
// the walk is bounded by the number of equivalence classes -- so this is a
// direct recursive preorder producing the identical order and offsets
// (§4.6 "construct_lookahead_table").
func (s *Solver) constructLookaheadTable() {
	s.table = s.table[:0]
	var offset int32
	var walk func(u, treeParent Lit)
	walk = func(u, treeParent Lit) {
		for ; u != NullLit; u = s.dfsLink[u] {
			idx := len(s.table)
			s.table = append(s.table, tableEntry{lit: s.vcomp[u]})
			if treeParent == NullLit {
				s.parent[u] = NullLit
			} else {
				s.parent[u] = s.vcomp[treeParent]
			}
			walk(s.getChild(u), u)
			s.table[idx].offset = offset
			offset += 2
		}
	}
	walk(s.getChild(NullLit), NullLit)
}
