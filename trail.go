package lookahead

import "github.com/pkg/errors"

// cFixedTruth is the level sentinel for permanent assignments (§3). Lookahead
// assignments always use a strictly smaller stamp.
const cFixedTruth = int32(1 << 30)

// errPopUnderflow is returned (wrapped with a stack) when PopScope is called
// with no matching PushScope -- a programmer error, per §7 "Invariant
// violation", but reported as an error value rather than a panic.
var errPopUnderflow = errors.New("lookahead: pop_scope called without a matching push_scope")

// assignment records, per variable, its truth value and the level stamp at
// which it was set (§3 "Assignment / level").
type assignment struct {
	value LBool
	stamp int32
}

// scopeMark snapshots the trail's own reversible dimensions. The binary
// graph and clause store's retirement lists are marked and restored
// separately by the Solver-level scope orchestration in scope.go, which
// calls pushScope/popScope as one step of a larger, precisely ordered
// sequence (§4.2, §9).
type scopeMark struct {
	trailLen int
	qhead    int
	numTC1   int
}

// trail is C2: the assignment stack, qhead, and the stack of reversible scope
// marks.
type trail struct {
	assign []assignment // per variable
	lits   []Lit        // the trail itself, in assignment order
	qhead  int

	binaryTrail []Lit // (~l1) endpoints of dynamically-added binaries, owned
	// and truncated by binaryGraph.popBinaries, not by trail itself.

	scopes []scopeMark

	numTC1 int // running count of TC1 binaries added this probe
}

func newTrail(numVars int) *trail {
	return &trail{
		assign: make([]assignment, numVars),
	}
}

func (t *trail) valueOfVar(v Var) LBool { return t.assign[v].value }

// value returns the truth value of literal l, accounting for its sign.
func (t *trail) value(l Lit) LBool {
	return litBool(l, t.assign[l.Var()].value)
}

func (t *trail) stampOf(l Lit) int32 { return t.assign[l.Var()].stamp }

// isFixed reports whether l is fixed at level L, i.e. its owning variable has
// been assigned with a stamp >= L and the assigned polarity matches l
// (§3 "A literal is fixed at level L iff its stamp >= L").
func (t *trail) isFixed(l Lit, level int32) bool {
	a := t.assign[l.Var()]
	if a.value == LUndef || a.stamp < level {
		return false
	}
	return litBool(l, a.value) == LTrue
}

// isAssigned reports whether l's variable has any truth value yet.
func (t *trail) isAssigned(l Lit) bool {
	return t.assign[l.Var()].value != LUndef
}

// push records l as true at the given level and appends it to the trail.
// It is the caller's responsibility (propagate.go) to detect and report a
// conflict when l is already assigned false.
func (t *trail) push(l Lit, level int32) {
	val := LTrue
	if l.Sign() {
		val = LFalse
	}
	t.assign[l.Var()] = assignment{value: val, stamp: level}
	t.lits = append(t.lits, l)
}

// setUndef releases a variable back to the free pool.
func (t *trail) setUndef(l Lit) {
	t.assign[l.Var()] = assignment{}
}

func (t *trail) pushScope() {
	t.scopes = append(t.scopes, scopeMark{
		trailLen: len(t.lits),
		qhead:    t.qhead,
		numTC1:   t.numTC1,
	})
}

// popScope undoes every assignment made since the matching pushScope, in
// reverse order, and restores qhead and the TC1 budget. The caller (Solver's
// PopScope in scope.go) is responsible for the clause store's retirement
// lists and the binary graph, which must be unwound in a specific order
// relative to this one (§4.2).
func (t *trail) popScope() (scopeMark, error) {
	if len(t.scopes) == 0 {
		return scopeMark{}, errors.WithStack(errPopUnderflow)
	}
	n := len(t.scopes) - 1
	mark := t.scopes[n]
	t.scopes = t.scopes[:n]
	for i := len(t.lits) - 1; i >= mark.trailLen; i-- {
		t.setUndef(t.lits[i])
	}
	t.lits = t.lits[:mark.trailLen]
	t.qhead = mark.qhead
	t.numTC1 = mark.numTC1
	return mark, nil
}

func (t *trail) depth() int { return len(t.scopes) }
