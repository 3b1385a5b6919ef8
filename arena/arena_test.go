package arena

import (
	"testing"
)

type item struct {
	name string
}

func (i item) Key() string { return i.name }

func TestArena_AppendAndGet(t *testing.T) {
	var a Arena[int]

	h1 := a.Append(10)
	h2 := a.Append(20)
	h3 := a.Append(30)

	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	if got := *a.Get(h1); got != 10 {
		t.Errorf("Get(h1) = %d, want 10", got)
	}
	if got := *a.Get(h2); got != 20 {
		t.Errorf("Get(h2) = %d, want 20", got)
	}
	if got := *a.Get(h3); got != 30 {
		t.Errorf("Get(h3) = %d, want 30", got)
	}
}

func TestArena_ZeroHandleIsInvalid(t *testing.T) {
	var h Handle[int]
	if h.IsValid() {
		t.Error("zero handle reports IsValid() = true")
	}

	var a Arena[int]
	a.Append(1)
	if a.Contains(h) {
		t.Error("arena contains the zero handle")
	}
}

func TestArena_GetPanicsOnBadHandle(t *testing.T) {
	var a Arena[int]
	a.Append(1)

	defer func() {
		if recover() == nil {
			t.Error("Get with out-of-range handle did not panic")
		}
	}()
	a.Get(HandleFromIndex[int](5))
}

func TestArena_TryGet(t *testing.T) {
	var a Arena[string]
	h := a.Append("x")

	if got, ok := a.TryGet(h); !ok || *got != "x" {
		t.Errorf("TryGet(h) = (%v, %v), want (x, true)", got, ok)
	}
	if _, ok := a.TryGet(HandleFromIndex[string](7)); ok {
		t.Error("TryGet out of range reported ok")
	}
	if _, ok := a.TryGet(Handle[string]{}); ok {
		t.Error("TryGet of zero handle reported ok")
	}
}

func TestArena_IterOrder(t *testing.T) {
	var a Arena[int]
	for i := 0; i < 5; i++ {
		a.Append(i * i)
	}

	i := 0
	for h, v := range a.Iter() {
		if h.Index() != i {
			t.Errorf("iteration %d yielded handle index %d", i, h.Index())
		}
		if *v != i*i {
			t.Errorf("iteration %d yielded %d, want %d", i, *v, i*i)
		}
		i++
	}
	if i != 5 {
		t.Errorf("iterated %d elements, want 5", i)
	}
}

func TestArena_Spans(t *testing.T) {
	var a Arena[int]
	h1 := a.Append(1)
	h2 := a.AppendSpanned(2, Span{Start: 4, End: 9})

	if got := a.GetSpan(h1); got != (Span{}) {
		t.Errorf("GetSpan(h1) = %+v, want zero span", got)
	}
	if got := a.GetSpan(h2); got != (Span{Start: 4, End: 9}) {
		t.Errorf("GetSpan(h2) = %+v", got)
	}
}

func TestRange_FromAppends(t *testing.T) {
	var a Arena[int]
	a.Append(1)

	mark := a.Len()
	h2 := a.Append(2)
	h3 := a.Append(3)
	r := a.RangeFrom(mark)

	if r.Len() != 2 {
		t.Fatalf("range Len() = %d, want 2", r.Len())
	}
	if !r.Contains(h2) || !r.Contains(h3) {
		t.Error("range does not contain the appended handles")
	}
	if r.Contains(HandleFromIndex[int](0)) {
		t.Error("range contains a handle appended before the mark")
	}

	first, ok := r.First()
	if !ok || first != h2 {
		t.Errorf("First() = (%v, %v), want (%v, true)", first, ok, h2)
	}

	var got []Handle[int]
	for h := range r.Iter() {
		got = append(got, h)
	}
	if len(got) != 2 || got[0] != h2 || got[1] != h3 {
		t.Errorf("Iter() yielded %v, want [%v %v]", got, h2, h3)
	}
}

func TestRange_Empty(t *testing.T) {
	var a Arena[int]
	a.Append(1)
	r := a.RangeFrom(a.Len())

	if !r.IsEmpty() {
		t.Error("range over no appends is not empty")
	}
	if r.Len() != 0 {
		t.Errorf("empty range Len() = %d", r.Len())
	}
	if _, ok := r.First(); ok {
		t.Error("First() of empty range reported ok")
	}
}

func TestRange_Inclusive(t *testing.T) {
	var a Arena[int]
	h1 := a.Append(1)
	a.Append(2)
	h3 := a.Append(3)

	r := NewRange(h1, h3)
	if r.Len() != 3 {
		t.Errorf("NewRange Len() = %d, want 3", r.Len())
	}
}

func TestUniqueArena_Dedup(t *testing.T) {
	var u UniqueArena[item]

	h1 := u.Insert(item{name: "f32"})
	h2 := u.Insert(item{name: "vec4"})
	h3 := u.Insert(item{name: "f32"})

	if h1 != h3 {
		t.Errorf("duplicate insert returned %v, want %v", h3, h1)
	}
	if h1 == h2 {
		t.Error("distinct elements share a handle")
	}
	if u.Len() != 2 {
		t.Errorf("Len() = %d, want 2", u.Len())
	}
}

func TestUniqueArena_KeyDistinguishesNames(t *testing.T) {
	var u UniqueArena[item]

	h1 := u.Insert(item{name: "Light"})
	h2 := u.Insert(item{name: "Camera"})

	if h1 == h2 {
		t.Error("differently keyed elements deduplicated")
	}
}

func TestUniqueArena_Lookup(t *testing.T) {
	var u UniqueArena[item]
	h := u.Insert(item{name: "sampler"})

	if got, ok := u.Lookup(item{name: "sampler"}); !ok || got != h {
		t.Errorf("Lookup = (%v, %v), want (%v, true)", got, ok, h)
	}
	if _, ok := u.Lookup(item{name: "missing"}); ok {
		t.Error("Lookup of absent element reported ok")
	}
}

func TestUniqueArena_SpanOfExistingKept(t *testing.T) {
	var u UniqueArena[item]
	h := u.InsertSpanned(item{name: "a"}, Span{Start: 1, End: 2})
	u.InsertSpanned(item{name: "a"}, Span{Start: 9, End: 10})

	if got := u.GetSpan(h); got != (Span{Start: 1, End: 2}) {
		t.Errorf("GetSpan = %+v, want the first span", got)
	}
}

func TestUniqueArena_Iter(t *testing.T) {
	var u UniqueArena[item]
	u.Insert(item{name: "a"})
	u.Insert(item{name: "b"})
	u.Insert(item{name: "a"})

	var names []string
	for _, v := range u.Iter() {
		names = append(names, v.name)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Iter yielded %v, want [a b]", names)
	}
}
