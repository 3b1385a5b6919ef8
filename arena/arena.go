// Package arena provides the typed, append-only storage used by the IR.
//
// All IR entities live in arenas owned by their module or function and
// refer to each other through lightweight handles instead of pointers.
// Handles for different entity kinds are distinct types, so a handle
// into one arena cannot be mistaken for a handle into another.
package arena

import (
	"fmt"
	"iter"
)

// Handle is an opaque index referring to an element owned by an Arena
// or UniqueArena. Handles are plain copyable values carrying no
// ownership. The zero Handle refers to nothing, which lets optional
// handle fields use the zero value instead of a pointer.
type Handle[T any] struct {
	value uint32 // 1-based; 0 is the nil handle
}

// HandleFromIndex returns the handle for the element at the given
// zero-based arena index.
func HandleFromIndex[T any](index int) Handle[T] {
	return Handle[T]{value: uint32(index) + 1}
}

// IsValid reports whether h refers to an element at all.
// It does not check that the element exists in any particular arena.
func (h Handle[T]) IsValid() bool {
	return h.value != 0
}

// Index returns the zero-based arena index of h.
// Calling Index on the zero Handle is a bug in the caller.
func (h Handle[T]) Index() int {
	if h.value == 0 {
		panic("arena: Index called on nil handle")
	}
	return int(h.value) - 1
}

// String formats the handle for diagnostics, e.g. "[3]".
func (h Handle[T]) String() string {
	if h.value == 0 {
		return "[nil]"
	}
	return fmt.Sprintf("[%d]", h.value-1)
}

// Span is a byte range in some source text, carried as optional
// per-element metadata for diagnostics.
type Span struct {
	Start uint32
	End   uint32
}

// Arena is an append-only ordered sequence of T. It owns all its
// elements and hands out handles valid for its whole lifetime.
//
// Arenas offer no removal operation. Producers must only store handles
// to elements appended earlier, so the handle graph inside one arena
// is acyclic by construction.
//
// The zero Arena is empty and ready to use.
type Arena[T any] struct {
	elems []T
	spans []Span
}

// Append adds value to the end of the arena and returns its handle.
func (a *Arena[T]) Append(value T) Handle[T] {
	a.elems = append(a.elems, value)
	if a.spans != nil {
		a.spans = append(a.spans, Span{})
	}
	return HandleFromIndex[T](len(a.elems) - 1)
}

// AppendSpanned is Append with source span metadata attached.
func (a *Arena[T]) AppendSpanned(value T, span Span) Handle[T] {
	if a.spans == nil {
		a.spans = make([]Span, len(a.elems))
	}
	a.elems = append(a.elems, value)
	a.spans = append(a.spans, span)
	return HandleFromIndex[T](len(a.elems) - 1)
}

// Get returns the element h refers to.
//
// An invalid or cross-arena handle indicates a bug in the producer
// that created it, not malformed input, so Get panics rather than
// returning an error.
func (a *Arena[T]) Get(h Handle[T]) *T {
	if !a.Contains(h) {
		panic(fmt.Sprintf("arena: handle %v out of range (len %d)", h, len(a.elems)))
	}
	return &a.elems[h.value-1]
}

// TryGet is Get for callers that want to survive a bad handle, such as
// a validator reporting it as a diagnostic.
func (a *Arena[T]) TryGet(h Handle[T]) (*T, bool) {
	if !a.Contains(h) {
		return nil, false
	}
	return &a.elems[h.value-1], true
}

// GetSpan returns the span recorded for h, or the zero Span if none was.
func (a *Arena[T]) GetSpan(h Handle[T]) Span {
	if a.spans == nil || !a.Contains(h) {
		return Span{}
	}
	return a.spans[h.value-1]
}

// Contains reports whether h refers to an element of this arena.
func (a *Arena[T]) Contains(h Handle[T]) bool {
	return h.value != 0 && int(h.value) <= len(a.elems)
}

// Len returns the number of elements in the arena.
func (a *Arena[T]) Len() int {
	return len(a.elems)
}

// Iter yields every element with its handle, in append order.
func (a *Arena[T]) Iter() iter.Seq2[Handle[T], *T] {
	return func(yield func(Handle[T], *T) bool) {
		for i := range a.elems {
			if !yield(HandleFromIndex[T](i), &a.elems[i]) {
				return
			}
		}
	}
}

// RangeFrom returns the range covering everything appended since the
// arena had the given length. The usual pattern is to record Len()
// before a batch of appends and call RangeFrom afterwards.
func (a *Arena[T]) RangeFrom(oldLen int) Range[T] {
	return Range[T]{start: uint32(oldLen), end: uint32(len(a.elems))}
}

// Range is a contiguous half-open span of handles into one arena,
// denoting a batch of consecutively appended elements.
type Range[T any] struct {
	start uint32 // zero-based index of the first element
	end   uint32 // one past the last element
}

// NewRange constructs the range covering first through last, inclusive.
func NewRange[T any](first, last Handle[T]) Range[T] {
	return Range[T]{start: first.value - 1, end: last.value}
}

// IsEmpty reports whether the range covers no handles.
func (r Range[T]) IsEmpty() bool {
	return r.start >= r.end
}

// Len returns the number of handles the range covers.
func (r Range[T]) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return int(r.end - r.start)
}

// Contains reports whether h falls inside the range.
func (r Range[T]) Contains(h Handle[T]) bool {
	return h.value > r.start && h.value <= r.end
}

// First returns the first handle of the range; the second result is
// false for an empty range.
func (r Range[T]) First() (Handle[T], bool) {
	if r.IsEmpty() {
		return Handle[T]{}, false
	}
	return Handle[T]{value: r.start + 1}, true
}

// Iter yields the covered handles in arena order.
func (r Range[T]) Iter() iter.Seq[Handle[T]] {
	return func(yield func(Handle[T]) bool) {
		for v := r.start + 1; v <= r.end; v++ {
			if !yield(Handle[T]{value: v}) {
				return
			}
		}
	}
}
