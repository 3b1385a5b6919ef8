package ir

// Constant and override expressions are the two restricted expression
// classes allowed in Module.GlobalExpressions. A constant expression
// can be evaluated at module translation time; an override expression
// additionally may reference overrides, and can be evaluated once
// pipeline-creation-time values are known.

// constExprVariant reports whether kind belongs to the closed variant
// set of constant expressions, ignoring what its operands reach.
func constExprVariant(kind ExpressionKind) bool {
	switch kind.(type) {
	case Literal, ExprConstant, ExprZeroValue, ExprCompose,
		ExprAccess, ExprAccessIndex, ExprSplat, ExprSwizzle,
		ExprUnary, ExprBinary, ExprSelect, ExprRelational,
		ExprMath, ExprAs:
		return true
	}
	return false
}

// exprClass is the classification of one global expression.
type exprClass uint8

const (
	// classRuntime: not evaluable ahead of execution, so not allowed in
	// Module.GlobalExpressions at all.
	classRuntime exprClass = iota
	// classConst: evaluable at module translation time.
	classConst
	// classOverride: evaluable at pipeline creation time.
	classOverride
)

// classifyGlobalExpressions classifies every expression in
// Module.GlobalExpressions in one append-order pass. An expression's
// class is looked up for its operands rather than recomputed, and only
// operands pointing strictly backwards are consulted, so the pass
// terminates even on a malformed self- or forward-referencing arena;
// such expressions classify as runtime and the ordering violation
// itself is reported by Validate.
func classifyGlobalExpressions(m *Module) []exprClass {
	classes := make([]exprClass, m.GlobalExpressions.Len())
	for h, expr := range m.GlobalExpressions.Iter() {
		i := h.Index()

		class := classRuntime
		if _, isOverride := expr.Kind.(ExprOverride); isOverride {
			class = classOverride
		} else if constExprVariant(expr.Kind) {
			class = classConst
		}

		if class != classRuntime {
			forEachOperand(expr.Kind, func(op ExpressionHandle) {
				if !op.IsValid() || op.Index() >= i {
					class = classRuntime
					return
				}
				switch classes[op.Index()] {
				case classRuntime:
					class = classRuntime
				case classOverride:
					if class == classConst {
						class = classOverride
					}
				}
			})
		}
		classes[i] = class
	}
	return classes
}

// IsConstantExpression reports whether the global expression h is a
// constant expression: every expression reachable from it is from the
// constant variant set. An ExprConstant reference is constant by
// definition; the referenced constant's own initializer is checked
// separately when the module is validated.
func IsConstantExpression(m *Module, h ExpressionHandle) bool {
	if !m.GlobalExpressions.Contains(h) {
		return false
	}
	return classifyGlobalExpressions(m)[h.Index()] == classConst
}

// IsOverrideExpression reports whether the global expression h is an
// override expression: a constant expression that may additionally
// reference overrides.
func IsOverrideExpression(m *Module, h ExpressionHandle) bool {
	if !m.GlobalExpressions.Contains(h) {
		return false
	}
	return classifyGlobalExpressions(m)[h.Index()] != classRuntime
}
