package ir

import (
	"testing"

	"github.com/gogpu/shaderir/arena"
)

func TestIsConstantExpression(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	two := m.GlobalExpressions.Append(Expression{Kind: Literal{Value: LiteralF32(2)}})
	c := m.Constants.Append(Constant{Name: "two", Type: f32, Init: two})

	lit := m.GlobalExpressions.Append(Expression{Kind: Literal{Value: LiteralF32(3)}})
	cref := m.GlobalExpressions.Append(Expression{Kind: ExprConstant{Constant: c}})
	sum := m.GlobalExpressions.Append(Expression{Kind: ExprBinary{Op: BinaryAdd, Left: lit, Right: cref}})

	o := m.Overrides.Append(Override{Name: "scale", Type: f32})
	oref := m.GlobalExpressions.Append(Expression{Kind: ExprOverride{Override: o}})
	scaled := m.GlobalExpressions.Append(Expression{Kind: ExprBinary{Op: BinaryMultiply, Left: sum, Right: oref}})

	tests := []struct {
		name         string
		expr         ExpressionHandle
		wantConstant bool
		wantOverride bool
	}{
		{"literal", lit, true, true},
		{"constant reference", cref, true, true},
		{"binary of constants", sum, true, true},
		{"override reference", oref, false, true},
		{"binary reaching an override", scaled, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConstantExpression(m, tt.expr); got != tt.wantConstant {
				t.Errorf("IsConstantExpression = %v, want %v", got, tt.wantConstant)
			}
			if got := IsOverrideExpression(m, tt.expr); got != tt.wantOverride {
				t.Errorf("IsOverrideExpression = %v, want %v", got, tt.wantOverride)
			}
		})
	}
}

func TestIsConstantExpression_RejectsRuntimeKinds(t *testing.T) {
	m := &Module{}
	g := m.GlobalVariables.Append(GlobalVariable{Name: "g", Space: SpacePrivate})

	gref := m.GlobalExpressions.Append(Expression{Kind: ExprGlobalVariable{Variable: g}})
	load := m.GlobalExpressions.Append(Expression{Kind: ExprLoad{Pointer: gref}})

	if IsConstantExpression(m, load) {
		t.Error("a load is not a constant expression")
	}
	if IsOverrideExpression(m, load) {
		t.Error("a load is not an override expression")
	}
}

func TestIsConstantExpression_BadHandle(t *testing.T) {
	m := &Module{}
	if IsConstantExpression(m, ExpressionHandle{}) {
		t.Error("the zero handle is not a constant expression")
	}
}

// A self-referencing initializer is malformed (operands must point
// strictly backwards), but it must come back as validation errors, not
// take the validator down with it.
func TestValidate_SelfReferentialConstantInit(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	self := arena.HandleFromIndex[Expression](0)
	loop := m.GlobalExpressions.Append(Expression{Kind: ExprUnary{Op: UnaryNegate, Expr: self}})
	m.Constants.Append(Constant{Name: "bad", Type: f32, Init: loop})

	errs, err := Validate(m)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !hasErrorContaining(errs, "must precede it in the arena") {
		t.Errorf("expected an ordering error, got %v", errs)
	}
	if !hasErrorContaining(errs, "not a constant expression") {
		t.Errorf("expected a constant-expression error, got %v", errs)
	}
	if IsConstantExpression(m, loop) {
		t.Error("a self-referencing expression classified as constant")
	}
}

// Classification is one pass over the arena. A doubling chain of
// shared operands would never finish if each operand were re-walked
// per reference.
func TestIsConstantExpression_SharedOperandChain(t *testing.T) {
	m := &Module{}
	prev := m.GlobalExpressions.Append(Expression{Kind: Literal{Value: LiteralF32(1)}})
	for i := 0; i < 64; i++ {
		prev = m.GlobalExpressions.Append(Expression{Kind: ExprBinary{Op: BinaryAdd, Left: prev, Right: prev}})
	}
	if !IsConstantExpression(m, prev) {
		t.Error("a chain of literal sums is a constant expression")
	}
}

// A constant whose initializer reaches an override is rejected when
// the module is validated.
func TestValidate_ConstantInitMustBeConstant(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	o := m.Overrides.Append(Override{Name: "scale", Type: f32})
	oref := m.GlobalExpressions.Append(Expression{Kind: ExprOverride{Override: o}})
	m.Constants.Append(Constant{Name: "bad", Type: f32, Init: oref})

	errs, err := Validate(m)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !hasErrorContaining(errs, "not a constant expression") {
		t.Errorf("expected a constant-expression error, got %v", errs)
	}
}

func TestValidate_GlobalExpressionVariants(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	ptr := m.GlobalExpressions.Append(Expression{Kind: ExprFunctionArgument{Index: 0}})
	m.GlobalVariables.Append(GlobalVariable{Name: "g", Space: SpacePrivate, Type: f32, Init: ptr})

	errs, err := Validate(m)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !hasErrorContaining(errs, "not allowed in module-level expressions") {
		t.Errorf("expected a variant restriction error, got %v", errs)
	}
}
