package diag

// Pseudo-lint names for diagnostics the engine itself produces outside the
// unified registry (internal/registry). These never collide with a real
// lint name because registry names are restricted to lowercase identifier
// characters, digits, and underscores, and none of the real descriptors use
// these reserved words as their full name.
const (
	// PseudoLintParse marks fast-mode parse errors (spec §7).
	PseudoLintParse = "parse"
	// PseudoLintInvalidDirective marks a malformed allow/deny/expect directive
	// that was dropped after emitting a note (spec §7, §9 open question).
	PseudoLintInvalidDirective = "invalid_directive"
	// PseudoLintUnfulfilledExpectation marks an expect(...) directive with no
	// matching diagnostic discharged in its scope (spec §4.5).
	PseudoLintUnfulfilledExpectation = "unfulfilled_expectation"
	// PseudoLintInternalError marks a CFG analysis that panicked or errored on
	// a single function; the driver records this and continues (spec §4.11).
	PseudoLintInternalError = "internal_error"
)
