package ir

import (
	"strings"
	"testing"

	"github.com/gogpu/shaderir/arena"
)

// negateArgFunction builds a function with one f32 argument, the
// expressions [arg, -arg], and a handle to each.
func negateArgFunction(f32 TypeHandle) (*Function, ExpressionHandle, ExpressionHandle) {
	fn := &Function{
		Name:      "negate",
		Arguments: []FunctionArgument{{Name: "x", Type: f32}},
		Result:    &FunctionResult{Type: f32},
	}
	arg := fn.Expressions.Append(Expression{Kind: ExprFunctionArgument{Index: 0}})
	neg := fn.Expressions.Append(Expression{Kind: ExprUnary{Op: UnaryNegate, Expr: arg}})
	return fn, arg, neg
}

func emitOne(h ExpressionHandle) Statement {
	return Statement{Kind: StmtEmit{Range: arena.NewRange(h, h)}}
}

func hasErrorContaining(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestAnalyze_EmitBringsIntoScope(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	fn, arg, neg := negateArgFunction(f32)
	fn.Body = Block{
		emitOne(neg),
		{Kind: StmtReturn{Value: neg}},
	}

	info, errs := AnalyzeFunction(m, fn)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := info.RefCount(arg); got != 1 {
		t.Errorf("RefCount(arg) = %d, want 1", got)
	}
	if got := info.RefCount(neg); got != 1 {
		t.Errorf("RefCount(neg) = %d, want 1", got)
	}
}

func TestAnalyze_ReferenceBeforeEmit(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	fn, _, neg := negateArgFunction(f32)
	fn.Body = Block{
		{Kind: StmtReturn{Value: neg}},
		emitOne(neg),
	}

	_, errs := AnalyzeFunction(m, fn)
	if !hasErrorContaining(errs, "before it is in scope") {
		t.Errorf("expected a scope error, got %v", errs)
	}
}

func TestAnalyze_DoubleEmit(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	fn, _, neg := negateArgFunction(f32)
	fn.Body = Block{
		emitOne(neg),
		emitOne(neg),
		{Kind: StmtReturn{Value: neg}},
	}

	_, errs := AnalyzeFunction(m, fn)
	if !hasErrorContaining(errs, "more than one emit") {
		t.Errorf("expected a double-emit error, got %v", errs)
	}
}

func TestAnalyze_EmitOfPreEvaluatedExpression(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	fn := &Function{Name: "f", Result: &FunctionResult{Type: f32}}
	lit := fn.Expressions.Append(Expression{Kind: Literal{Value: LiteralF32(1)}})
	fn.Body = Block{
		emitOne(lit),
		{Kind: StmtReturn{Value: lit}},
	}

	_, errs := AnalyzeFunction(m, fn)
	if !hasErrorContaining(errs, "must not be covered") {
		t.Errorf("expected an error for emitting a pre-evaluated expression, got %v", errs)
	}
}

func TestAnalyze_EmitOfResultExpression(t *testing.T) {
	m := &Module{}
	fn := &Function{Name: "f"}
	ballot := fn.Expressions.Append(Expression{Kind: ExprSubgroupBallotResult{}})
	fn.Body = Block{emitOne(ballot)}

	_, errs := AnalyzeFunction(m, fn)
	if !hasErrorContaining(errs, "must not be covered") {
		t.Errorf("expected an error for emitting a result expression, got %v", errs)
	}
}

// A value computed inside a nested block must not be visible to the
// parent block; escaping requires a store to a local variable.
func TestAnalyze_NestedBlockScopeEnds(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	fn, _, neg := negateArgFunction(f32)
	fn.Body = Block{
		{Kind: StmtBlock{Body: Block{emitOne(neg)}}},
		{Kind: StmtReturn{Value: neg}},
	}

	_, errs := AnalyzeFunction(m, fn)
	if !hasErrorContaining(errs, "before it is in scope") {
		t.Errorf("expected a scope error after the block ends, got %v", errs)
	}
}

func TestAnalyze_IfBranchesIsolated(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})
	m.Types.Insert(Type{Name: "bool", Inner: Bool})

	fn, _, neg := negateArgFunction(f32)
	cond := fn.Expressions.Append(Expression{Kind: Literal{Value: LiteralBool(true)}})
	fn.Body = Block{
		{Kind: StmtIf{
			Condition: cond,
			Accept:    Block{emitOne(neg)},
			Reject:    Block{{Kind: StmtReturn{Value: neg}}},
		}},
	}

	_, errs := AnalyzeFunction(m, fn)
	if !hasErrorContaining(errs, "before it is in scope") {
		t.Errorf("expected the reject branch not to see the accept branch's emission, got %v", errs)
	}
}

// Every case body starts from the availability before the switch, even
// when the previous case falls through into it. A back end merging a
// fall-through chain must re-emit; the IR never lets a value cross
// between case blocks.
func TestAnalyze_SwitchFallThroughCasesIsolated(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	fn, _, neg := negateArgFunction(f32)
	sel := fn.Expressions.Append(Expression{Kind: Literal{Value: LiteralI32(0)}})
	fn.Body = Block{
		{Kind: StmtSwitch{
			Selector: sel,
			Cases: []SwitchCase{
				{Value: SwitchValue{Kind: SwitchI32, Value: 1}, Body: Block{emitOne(neg)}, FallThrough: true},
				{Value: SwitchValue{Kind: SwitchI32, Value: 2}, Body: Block{{Kind: StmtReturn{Value: neg}}}},
				{Value: SwitchValue{Kind: SwitchDefault}},
			},
		}},
	}

	_, errs := AnalyzeFunction(m, fn)
	if !hasErrorContaining(errs, "before it is in scope") {
		t.Errorf("expected the fall-through case not to see the previous case's emission, got %v", errs)
	}
}

// The continuing block and the break-if condition run as part of each
// iteration, so the body's emissions are still in scope there.
func TestAnalyze_LoopBodyVisibleInContinuing(t *testing.T) {
	m := &Module{}
	m.Types.Insert(Type{Name: "bool", Inner: Bool})

	fn := &Function{Name: "f"}
	x := fn.Expressions.Append(Expression{Kind: Literal{Value: LiteralBool(false)}})
	not := fn.Expressions.Append(Expression{Kind: ExprUnary{Op: UnaryLogicalNot, Expr: x}})
	fn.Body = Block{
		{Kind: StmtLoop{
			Body:    Block{emitOne(not)},
			BreakIf: not,
		}},
	}

	if _, errs := AnalyzeFunction(m, fn); len(errs) != 0 {
		t.Errorf("break-if should see the body's emission, got %v", errs)
	}
}

func TestAnalyze_LoopEmissionsEndWithLoop(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	fn, _, neg := negateArgFunction(f32)
	fn.Body = Block{
		{Kind: StmtLoop{Body: Block{
			emitOne(neg),
			{Kind: StmtBreak{}},
		}}},
		{Kind: StmtReturn{Value: neg}},
	}

	_, errs := AnalyzeFunction(m, fn)
	if !hasErrorContaining(errs, "before it is in scope") {
		t.Errorf("expected the loop's emission to go out of scope, got %v", errs)
	}
}

func TestAnalyze_LocalInitCounted(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	fn := &Function{Name: "f"}
	init := fn.Expressions.Append(Expression{Kind: Literal{Value: LiteralF32(2)}})
	fn.LocalVariables.Append(LocalVariable{Name: "x", Type: f32, Init: init})

	info, errs := AnalyzeFunction(m, fn)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := info.RefCount(init); got != 1 {
		t.Errorf("RefCount(init) = %d, want 1", got)
	}
}

func TestAnalyze_ResultDesignatedTwice(t *testing.T) {
	m := &Module{}
	u32 := m.Types.Insert(Type{Name: "u32", Inner: U32})
	atomicU32 := m.Types.Insert(Type{Inner: AtomicType{Scalar: U32}})
	counter := m.GlobalVariables.Append(GlobalVariable{
		Name:   "counter",
		Space:  SpaceStorage,
		Access: AccessLoad | AccessStore | AccessAtomic,
		Type:   atomicU32,
	})

	fn := &Function{Name: "f"}
	ptr := fn.Expressions.Append(Expression{Kind: ExprGlobalVariable{Variable: counter}})
	one := fn.Expressions.Append(Expression{Kind: Literal{Value: LiteralU32(1)}})
	result := fn.Expressions.Append(Expression{Kind: ExprAtomicResult{Type: u32}})
	add := Statement{Kind: StmtAtomic{Pointer: ptr, Fun: AtomicAdd{}, Value: one, Result: result}}
	fn.Body = Block{add, add}

	_, errs := AnalyzeFunction(m, fn)
	if !hasErrorContaining(errs, "more than one statement") {
		t.Errorf("expected a double-designation error, got %v", errs)
	}
}

func TestEffectiveRefCount_LoadFloor(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	fn := &Function{Name: "f", Result: &FunctionResult{Type: f32}}
	local := fn.LocalVariables.Append(LocalVariable{Name: "x", Type: f32})
	ptr := fn.Expressions.Append(Expression{Kind: ExprLocalVariable{Variable: local}})
	load := fn.Expressions.Append(Expression{Kind: ExprLoad{Pointer: ptr}})
	fn.Body = Block{
		emitOne(load),
		{Kind: StmtReturn{Value: load}},
	}

	info, errs := AnalyzeFunction(m, fn)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := info.RefCount(load); got != 1 {
		t.Fatalf("RefCount(load) = %d, want 1", got)
	}
	// A single-use load still must not be re-evaluated per use site.
	if got := info.EffectiveRefCount(fn, load); got != 2 {
		t.Errorf("EffectiveRefCount(load) = %d, want 2", got)
	}
	// The pointer expression has no such floor.
	if got := info.EffectiveRefCount(fn, ptr); got != 1 {
		t.Errorf("EffectiveRefCount(ptr) = %d, want 1", got)
	}
}

func TestEffectiveRefCount_UnreferencedStaysZero(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	fn := &Function{Name: "f"}
	local := fn.LocalVariables.Append(LocalVariable{Name: "x", Type: f32})
	ptr := fn.Expressions.Append(Expression{Kind: ExprLocalVariable{Variable: local}})
	load := fn.Expressions.Append(Expression{Kind: ExprLoad{Pointer: ptr}})
	fn.Body = Block{emitOne(load)}

	info, errs := AnalyzeFunction(m, fn)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := info.EffectiveRefCount(fn, load); got != 0 {
		t.Errorf("EffectiveRefCount of an unreferenced load = %d, want 0", got)
	}
}
