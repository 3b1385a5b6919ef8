package ir

// EquivalentTypes reports whether two arena types are interchangeable.
//
// Raw structural equality misjudges pointers: a PointerType whose base
// is a scalar or vector means the same thing as the corresponding
// ValuePointerType, even though their shapes differ. Both are
// normalized to the value-pointer form before comparing. Named types
// keep their identity: two structs that differ only in name are not
// equivalent.
func EquivalentTypes(m *Module, a, b TypeHandle) bool {
	if a == b {
		return true
	}
	ta, aok := m.Types.TryGet(a)
	tb, bok := m.Types.TryGet(b)
	if !aok || !bok {
		return false
	}
	if ta.Name != tb.Name {
		return false
	}
	return EquivalentInners(m, ta.Inner, tb.Inner)
}

// EquivalentResolutions reports whether two type resolutions name
// interchangeable types, regardless of whether each side is a handle
// or an inline shape.
func EquivalentResolutions(m *Module, a, b TypeResolution) bool {
	if a.Handle.IsValid() && b.Handle.IsValid() {
		return EquivalentTypes(m, a.Handle, b.Handle)
	}
	return EquivalentInners(m, a.Inner(m), b.Inner(m))
}

// EquivalentInners compares two shapes after pointer normalization.
func EquivalentInners(m *Module, a, b TypeInner) bool {
	return typeInnerKey(normalizePointer(m, a)) == typeInnerKey(normalizePointer(m, b))
}

// normalizePointer rewrites a pointer to a scalar or vector as the
// equivalent value pointer, and leaves every other shape alone.
func normalizePointer(m *Module, inner TypeInner) TypeInner {
	p, ok := inner.(PointerType)
	if !ok {
		return inner
	}
	base, ok := m.Types.TryGet(p.Base)
	if !ok {
		return inner
	}
	switch t := base.Inner.(type) {
	case ScalarType:
		return ValuePointerType{Scalar: t, Space: p.Space}
	case VectorType:
		return ValuePointerType{Size: t.Size, Scalar: t.Scalar, Space: p.Space}
	default:
		return inner
	}
}
