package lookahead

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// mode drives the propagation engine's behaviour (§9 "Mode switch"). Kept as
// a small tagged enumeration; propagate.go switches on it in the ternary and
// the n-ary propagation loops, where a clause shrinks to two free literals.
type mode uint8

const (
	modeSearching mode = iota
	modeLookahead1
	modeLookahead2
)

// Extension is the narrow callback surface into the embedded
// cardinality/XOR/pseudo-Boolean theory layer, which is deliberately out of
// scope for this core (§1, §6).
type Extension interface {
	// Propagate is invoked when a watched extension literal is falsified.
	// It reports whether the extension remains consistent and whether its
	// watch should be kept.
	Propagate(s *Solver, lit Lit, extIdx int) (consistent, keep bool)

	// GetAntecedents returns the antecedent literals the extension used to
	// derive lit via idx, for proof emission.
	GetAntecedents(lit Lit, idx int) []Lit
}

// Clause is an external, unpacked clause as supplied by the parent solver
// (§6 "a list of clauses (each: an array of literals)").
type Clause []int

// Input bundles everything the parent CDCL solver hands to Init (§6).
type Input struct {
	NumVars      int
	Clauses      []Clause
	InitialUnits []int
	Eliminated   []bool

	// External flags a variable as owned by the embedding solver (e.g. an
	// assumption literal or a variable visible to the extension theory);
	// scc's equivalence elimination never substitutes one away (§4.9).
	External  []bool
	Extension Extension
}

// Model is the tri-valued result of a successful Solve (§3 "Model").
type Model []LBool

// Value returns the truth value of DIMACS-style variable v (1-indexed).
func (m Model) Value(v int) LBool {
	if v < 1 || v > len(m) {
		return LUndef
	}
	return m[v-1]
}

// Solver is the top-level lookahead core: C1-C9 wired together. All fields
// are created by Init and destroyed with the Solver; nothing persists across
// invocations (§3 "Lifecycle", §6 "Persisted state: None").
type Solver struct {
	cfg Config

	numVars int
	cs      *clauseStore
	tr      *trail
	bg      *binaryGraph

	ext Extension

	mode         mode
	level        int32 // current assignment level during a probe
	inconsistent bool

	weightedNewBinaries float64
	wstack              []Lit // windfall stack accumulated during a successful probe

	eliminated []bool
	external   []bool

	// prefix tracks the current search branch as a bitstring (§3
	// "Prefix"); its current depth (<= 63) is len(scopeMarks), not stored
	// separately.
	prefix uint64

	// branchKey[v] is the (prefix, length) pair this variable was last
	// rated under, used to skip re-scoring unchanged sub-trees.
	branchKey []branchKey

	rng *rand.Rand

	logger  *logrus.Logger
	metrics MetricsRecorder
	proof   ProofSink

	cancel    CancelToken
	memLimit  uint64
	memUsed   func() uint64

	numDecisions int64
	numConflicts int64

	scopeMarks  []pushMark
	assumptions []assumptionFrame

	// lookahead table for the current search node, built by computeSCC /
	// findHeights / constructLookaheadTable (C5/C6).
	table []tableEntry

	// H-score fixpoint tables: hTables[k] is the per-literal H[k] array;
	// heur points at whichever one initPreSelection last settled on.
	hTables [][]float64
	heur    []float64
	rating  []float64

	candidates []candidate
	selectVars []bool // non-empty restricts candidates to select_lookahead's vars

	// Tarjan SCC / implication-forest bookkeeping (C6), valid only for the
	// duration of one preSelect call.
	dfsRank   []int32
	dfsParent []Lit
	dfsMin    []Lit
	dfsLink   []Lit
	dfsHeight []int32
	dfsChild  []Lit
	vcomp     []Lit
	arcsOut   [][]Lit
	rankSeq   int32
	active    Lit
	settled   Lit
	rootChild Lit

	// wnbScore[l] holds the running WNB score for literal l across the current
	// pre-selection (seeded from a parent's WNB in computeWNB).
	wnbScore []float64

	// parent[l] names the table entry that produced l via the forest, or
	// NullLit at the root; used by computeWNB to seed WNB(l) and by the
	// autarky/equivalence step in lookahead.go.
	parent []Lit

	deltaTrigger float64

	// wnbTrail/wnbQHead are paired trail-only checkpoints taken by initWNB
	// and undone by resetWNB: unlike PushScope/PopScope they never touch the
	// clause store's retirement lists or the binary graph, since those are
	// unwound later, in bulk, by the decision node's own enclosing scope
	// (§4.7 "init_wnb"/"reset_wnb").
	wnbTrail []int
	wnbQHead []int
}

type branchKey struct {
	prefix uint64
	length uint
}

type tableEntry struct {
	lit    Lit
	offset int32
}

// Init builds a Solver from the parent solver's clause database (§3
// "Lifecycle").
func Init(in Input, cfg Config) *Solver {
	s := &Solver{
		cfg:     cfg,
		numVars: in.NumVars,
		cs:      newClauseStore(in.NumVars),
		tr:      newTrail(in.NumVars),
		ext:     in.Extension,
		rng:     rand.New(rand.NewSource(1)),
		logger:  cfg.logger(),
	}
	s.metrics = cfg.Metrics
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	s.proof = cfg.Proof
	if s.proof == nil {
		if cfg.DRAT {
			s.proof = NewBufferedProofSink()
		} else {
			s.proof = NullProofSink{}
		}
	}
	s.bg = newBinaryGraph(in.NumVars, s.proof, s.metrics)

	s.eliminated = make([]bool, in.NumVars)
	copy(s.eliminated, in.Eliminated)
	s.external = make([]bool, in.NumVars)
	copy(s.external, in.External)

	n2 := 2 * in.NumVars
	s.wnbScore = make([]float64, n2)
	s.parent = make([]Lit, n2)
	s.deltaTrigger = 4.0

	s.rating = make([]float64, in.NumVars)
	s.branchKey = make([]branchKey, in.NumVars)

	s.dfsRank = make([]int32, n2)
	s.dfsParent = make([]Lit, n2)
	s.dfsMin = make([]Lit, n2)
	s.dfsLink = make([]Lit, n2)
	s.dfsHeight = make([]int32, n2)
	s.dfsChild = make([]Lit, n2)
	s.vcomp = make([]Lit, n2)
	s.arcsOut = make([][]Lit, n2)

	s.level = cFixedTruth
	for _, lit := range in.InitialUnits {
		l := LitFromInt(lit)
		if s.tr.isAssigned(l) {
			if s.tr.value(l) == LFalse {
				s.inconsistent = true
			}
			continue
		}
		s.tr.push(l, cFixedTruth)
	}

	for _, cl := range in.Clauses {
		s.addExternalClause(cl)
	}

	if !s.inconsistent {
		if err := s.propagate(); err != nil {
			invariantViolation("propagate failed during Init: " + err.Error())
		}
	}

	return s
}

// addExternalClause routes an input clause to the right representation:
// size 1 becomes a unit assignment, size 2 an AddBinary call, size >= 3 a
// mkClause call (§3 "Binary clauses are not stored as Clause objects").
func (s *Solver) addExternalClause(cl Clause) {
	if s.inconsistent {
		return
	}
	lits := make([]Lit, len(cl))
	for i, n := range cl {
		lits[i] = LitFromInt(n)
	}
	switch len(lits) {
	case 0:
		s.inconsistent = true
	case 1:
		l := lits[0]
		if s.tr.isAssigned(l) {
			if s.tr.value(l) == LFalse {
				s.inconsistent = true
			}
			return
		}
		s.tr.push(l, cFixedTruth)
	case 2:
		if s.eliminated[lits[0].Var()] || s.eliminated[lits[1].Var()] {
			return
		}
		s.bg.addBinary(s.tr, lits[0], lits[1])
	default:
		s.cs.mkClause(lits)
	}
}

// free reports whether variable v is currently a valid pre-selection
// candidate: not eliminated and not assigned.
func (s *Solver) free(v Var) bool {
	return !s.eliminated[v] && s.tr.valueOfVar(v) == LUndef
}

// freeVars returns every free variable, in ascending order.
func (s *Solver) freeVars() []Var {
	var out []Var
	for v := 0; v < s.numVars; v++ {
		if s.free(Var(v)) {
			out = append(out, Var(v))
		}
	}
	return out
}

// Checkpoint is the only cancellation site (§5): it consults the cancel
// token and memory ceiling and returns a recoverable error on breach. Every
// scope the caller opened must be popped before propagating the error
// upward, which Solve does through unwindOnError (search.go).
func (s *Solver) Checkpoint() error {
	if s.cancel != nil && s.cancel.Cancelled() {
		return ErrCancelled
	}
	if s.memLimit > 0 && s.memUsed != nil && s.memUsed() > s.memLimit {
		return ErrOutOfMemory
	}
	return nil
}

// SetCancelToken and SetMemoryLimit configure the resource model of §5.
func (s *Solver) SetCancelToken(t CancelToken) { s.cancel = t }
func (s *Solver) SetMemoryLimit(bytes uint64, used func() uint64) {
	s.memLimit = bytes
	s.memUsed = used
}

// ExtractModel builds a tri-valued Model from the current trail (§4.8
// "Model extraction").
func (s *Solver) ExtractModel() Model {
	m := make(Model, s.numVars)
	for v := 0; v < s.numVars; v++ {
		m[v] = s.tr.valueOfVar(Var(v))
	}
	return m
}
