package evaluator

// Budget holds the resource limits for one Execute call.
// A zero field means unlimited.
type Budget struct {
	MaxIterations int64
}

// BudgetTracker tracks resource consumption during execution.
type BudgetTracker struct {
	Statements int64
	Iterations int64
}
