package ir

// EvalTime says when an expression's value is computed.
type EvalTime uint8

const (
	// EvalBeforeExecution: the value is fixed before any statement
	// runs (literals, constants, overrides, zero values, global
	// variable references).
	EvalBeforeExecution EvalTime = iota
	// EvalFunctionEntry: the value is established on entry to the
	// function (arguments, local variable pointers).
	EvalFunctionEntry
	// EvalDesignatedResult: the value appears when the one statement
	// designating this expression as its result executes.
	EvalDesignatedResult
	// EvalEmitted: the value is computed by the unique StmtEmit whose
	// range covers the expression.
	EvalEmitted
)

// ExpressionEvalTime classifies when an expression is evaluated. The
// classification depends only on the expression's kind.
func ExpressionEvalTime(kind ExpressionKind) EvalTime {
	switch kind.(type) {
	case Literal, ExprConstant, ExprOverride, ExprZeroValue, ExprGlobalVariable:
		return EvalBeforeExecution
	case ExprFunctionArgument, ExprLocalVariable:
		return EvalFunctionEntry
	case ExprCallResult, ExprAtomicResult, ExprWorkGroupUniformLoadResult,
		ExprRayQueryProceedResult, ExprSubgroupBallotResult, ExprSubgroupOperationResult:
		return EvalDesignatedResult
	default:
		return EvalEmitted
	}
}
