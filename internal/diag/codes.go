package diag

// Error codes reported alongside every diagnostic, grouped by the four
// fatal error kinds the engine can raise. Ranges leave room to grow each
// kind independently, the way the teacher compiler's own error-code table
// does.
//
// E1xxx: parse errors (malformed s-expression surface syntax)
// E2xxx: corpus closedness errors (free Var/IVar at a program root)
// E3xxx: preflight errors (immediately-applied lambda detected before compression)
// E9xxx: invariant violations (a bug in the DP, not a bad input)
const (
	CodeParseSyntax       = "E1001"
	CodeParseArity        = "E1002"
	CodeParseIndex        = "E1003"
	CodeClosednessFreeVar  = "E2001"
	CodeClosednessFreeIVar = "E2002"
	CodePreflightAppliedLam = "E3001"
	CodeInvariantCostDrift  = "E9001"
	CodeInvariantFreeVars   = "E9002"
	CodeInvariantNonCanonical = "E9003"
)
