package ir

import "testing"

// chainFunction builds a function whose body emits a long chain of
// dependent arithmetic expressions, the shape validation spends most
// of its time on.
func chainFunction(f32 TypeHandle, length int) *Function {
	fn := &Function{Name: "chain", Result: &FunctionResult{Type: f32}}
	prev := fn.Expressions.Append(Expression{Kind: Literal{Value: LiteralF32(1)}})
	mark := fn.Expressions.Len()
	for i := 0; i < length; i++ {
		prev = fn.Expressions.Append(Expression{Kind: ExprBinary{Op: BinaryAdd, Left: prev, Right: prev}})
	}
	fn.Body = Block{
		{Kind: StmtEmit{Range: fn.Expressions.RangeFrom(mark)}},
		{Kind: StmtReturn{Value: prev}},
	}
	return fn
}

func BenchmarkAnalyzeFunction(b *testing.B) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})
	fn := chainFunction(f32, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, errs := AnalyzeFunction(m, fn); len(errs) != 0 {
			b.Fatalf("unexpected errors: %v", errs)
		}
	}
}

func BenchmarkValidate(b *testing.B) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})
	m.Functions.Append(*chainFunction(f32, 1000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if errs, err := Validate(m); err != nil || len(errs) != 0 {
			b.Fatalf("unexpected errors: %v %v", err, errs)
		}
	}
}
