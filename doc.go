// Package lookahead implements a lookahead-style satisfiability solver in the
// tradition of the March family of solvers: iterated clause-weight scoring
// pre-selects candidate variables, a strongly-connected-component analysis
// over the binary-implication graph extracts equivalences, and one- and
// two-step lookahead probes rank candidates by a weighted count of the new
// binary clauses each assignment would produce.
//
// The package is a library: it consumes a clause database, initial unit
// assignments and eliminated-variable flags from an embedding CDCL solver and
// returns a model, a set of derived units, or a set of equivalences. It does
// not implement CDCL-style conflict analysis, restarts, or proof certificate
// generation beyond an optional narrow clause-addition/deletion sink.
package lookahead
