package arena

import (
	"fmt"
	"iter"
)

// Keyed is implemented by element types that can describe their own
// structure as a deduplication key. Two elements with equal keys are
// considered the same element by a UniqueArena.
type Keyed interface {
	Key() string
}

// UniqueArena is an Arena that deduplicates structurally equal
// elements: inserting an element equal to one already present returns
// the existing handle instead of appending a duplicate.
//
// Key equality is purely structural. Element types whose semantic
// identity is weaker than their structure (for the IR's types, a
// pointer to a scalar versus the equivalent value-pointer shape, or
// two structs differing only in name) need a semantic comparator on
// top of this; UniqueArena does not provide one.
//
// The zero UniqueArena is empty and ready to use.
type UniqueArena[T Keyed] struct {
	elems  []T
	spans  []Span
	lookup map[string]Handle[T]
}

// Insert adds value unless an equal element is already present, and
// returns the handle either way.
func (u *UniqueArena[T]) Insert(value T) Handle[T] {
	return u.InsertSpanned(value, Span{})
}

// InsertSpanned is Insert with source span metadata. The span of an
// already-present element is left untouched.
func (u *UniqueArena[T]) InsertSpanned(value T, span Span) Handle[T] {
	key := value.Key()
	if h, ok := u.lookup[key]; ok {
		return h
	}
	if u.lookup == nil {
		u.lookup = make(map[string]Handle[T])
	}
	u.elems = append(u.elems, value)
	u.spans = append(u.spans, span)
	h := HandleFromIndex[T](len(u.elems) - 1)
	u.lookup[key] = h
	return h
}

// Lookup returns the handle of an element equal to value, if present.
func (u *UniqueArena[T]) Lookup(value T) (Handle[T], bool) {
	h, ok := u.lookup[value.Key()]
	return h, ok
}

// Get returns the element h refers to, panicking on an invalid handle
// for the same reason Arena.Get does.
func (u *UniqueArena[T]) Get(h Handle[T]) *T {
	if !u.Contains(h) {
		panic(fmt.Sprintf("arena: handle %v out of range (len %d)", h, len(u.elems)))
	}
	return &u.elems[h.value-1]
}

// TryGet is Get without the panic.
func (u *UniqueArena[T]) TryGet(h Handle[T]) (*T, bool) {
	if !u.Contains(h) {
		return nil, false
	}
	return &u.elems[h.value-1], true
}

// GetSpan returns the span recorded for h, or the zero Span.
func (u *UniqueArena[T]) GetSpan(h Handle[T]) Span {
	if !u.Contains(h) {
		return Span{}
	}
	return u.spans[h.value-1]
}

// Contains reports whether h refers to an element of this arena.
func (u *UniqueArena[T]) Contains(h Handle[T]) bool {
	return h.value != 0 && int(h.value) <= len(u.elems)
}

// Len returns the number of distinct elements.
func (u *UniqueArena[T]) Len() int {
	return len(u.elems)
}

// Iter yields every element with its handle, in insertion order.
func (u *UniqueArena[T]) Iter() iter.Seq2[Handle[T], *T] {
	return func(yield func(Handle[T], *T) bool) {
		for i := range u.elems {
			if !yield(HandleFromIndex[T](i), &u.elems[i]) {
				return
			}
		}
	}
}
