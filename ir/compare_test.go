package ir

import "testing"

func TestEquivalentTypes(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})
	vec3 := m.Types.Insert(Type{Name: "vec3f", Inner: VectorType{Size: Vec3, Scalar: F32}})

	ptrScalar := m.Types.Insert(Type{Inner: PointerType{Base: f32, Space: SpaceFunction}})
	vptrScalar := m.Types.Insert(Type{Inner: ValuePointerType{Scalar: F32, Space: SpaceFunction}})
	ptrVec := m.Types.Insert(Type{Inner: PointerType{Base: vec3, Space: SpaceStorage}})
	vptrVec := m.Types.Insert(Type{Inner: ValuePointerType{Size: Vec3, Scalar: F32, Space: SpaceStorage}})
	vptrOtherSpace := m.Types.Insert(Type{Inner: ValuePointerType{Scalar: F32, Space: SpacePrivate}})

	structA := m.Types.Insert(Type{Name: "A", Inner: StructType{
		Members: []StructMember{{Name: "x", Type: f32, Offset: 0}},
		Span:    4,
	}})
	structB := m.Types.Insert(Type{Name: "B", Inner: StructType{
		Members: []StructMember{{Name: "x", Type: f32, Offset: 0}},
		Span:    4,
	}})

	tests := []struct {
		name string
		a, b TypeHandle
		want bool
	}{
		{"same handle", f32, f32, true},
		{"scalar versus vector", f32, vec3, false},
		{"pointer to scalar versus value pointer", ptrScalar, vptrScalar, true},
		{"pointer to vector versus value pointer", ptrVec, vptrVec, true},
		{"value pointers in different spaces", vptrScalar, vptrOtherSpace, false},
		{"structs differing only in name", structA, structB, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EquivalentTypes(m, tt.a, tt.b); got != tt.want {
				t.Errorf("EquivalentTypes = %v, want %v", got, tt.want)
			}
			// Equivalence is symmetric.
			if got := EquivalentTypes(m, tt.b, tt.a); got != tt.want {
				t.Errorf("EquivalentTypes reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEquivalentResolutions(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	handleSide := TypeResolution{Handle: f32}
	valueSide := TypeResolution{Value: F32}

	if !EquivalentResolutions(m, handleSide, valueSide) {
		t.Error("a handle and the same inline shape are not equivalent")
	}
	if !EquivalentResolutions(m, valueSide, valueSide) {
		t.Error("an inline shape is not equivalent to itself")
	}
	if EquivalentResolutions(m, valueSide, TypeResolution{Value: I32}) {
		t.Error("distinct scalars reported equivalent")
	}
}

func TestEquivalentInners_PointerNormalization(t *testing.T) {
	m := &Module{}
	f32 := m.Types.Insert(Type{Name: "f32", Inner: F32})

	ptr := PointerType{Base: f32, Space: SpaceFunction}
	vptr := ValuePointerType{Scalar: F32, Space: SpaceFunction}

	if !EquivalentInners(m, ptr, vptr) {
		t.Error("pointer to scalar and value pointer are not equivalent")
	}
	if EquivalentInners(m, ptr, ValuePointerType{Scalar: I32, Space: SpaceFunction}) {
		t.Error("pointers to different scalars reported equivalent")
	}
}
