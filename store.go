// Package fixedindex provides an indexed store that hands out stable,
// monotonically increasing indices and never renumbers on removal.
//
// A Store behaves like an append-only vector with holes: Append returns the
// index a value lives at, Remove punches a hole without shifting anything, and
// indices are never reissued until Reset rewinds the counter.
//
// Store is not safe for concurrent mutation; wrap it in a Repo or confine it
// to one goroutine.
package fixedindex

import (
	"fmt"
	"iter"
	"strings"

	"github.com/google/btree"
	"golang.org/x/exp/constraints"
)

// Store maps indices of type I to values of type T.
// The zero value is an empty store ready to use.
type Store[I constraints.Unsigned, T any] struct {
	tree   *btree.BTreeG[entry[I, T]]
	next   I
	degree int
}

// Vec is a Store with uint64 indices.
type Vec[T any] = Store[uint64, T]

// NewStore creates an empty store. The backing tree is not allocated until
// the first Append.
func NewStore[I constraints.Unsigned, T any](opts ...Option) *Store[I, T] {
	o := newOptions(opts)
	return &Store[I, T]{degree: o.degree}
}

// New creates an empty Vec.
func New[T any](opts ...Option) *Vec[T] {
	return NewStore[uint64, T](opts...)
}

// FromSlice builds a store where values[i] lives at index i and Next() is
// len(values). It panics with ErrIndexOverflow if values does not fit the
// index range of I.
func FromSlice[I constraints.Unsigned, T any](values []T, opts ...Option) *Store[I, T] {
	s := NewStore[I, T](opts...)
	if uint64(len(values)) > uint64(maxIndex[I]()) {
		panic(fmt.Errorf("%w: %d values exceed index range", ErrIndexOverflow, len(values)))
	}
	if len(values) == 0 {
		return s
	}
	s.tree = newTree[I, T](s.degree)
	for i, v := range values {
		s.tree.ReplaceOrInsert(entry[I, T]{index: I(i), value: v})
	}
	s.next = I(len(values))
	return s
}

// Collect builds a store from seq, assigning indices in sequence order.
func Collect[I constraints.Unsigned, T any](seq iter.Seq[T], opts ...Option) *Store[I, T] {
	s := NewStore[I, T](opts...)
	for v := range seq {
		s.Append(v)
	}
	return s
}

// Of builds a Vec from its arguments.
func Of[T any](values ...T) *Vec[T] {
	return FromSlice[uint64](values)
}

// Append stores value at Next() and advances the counter.
//
// It panics with ErrIndexOverflow when the counter cannot advance any further;
// nothing is stored in that case.
func (s *Store[I, T]) Append(value T) I {
	if s.next == maxIndex[I]() {
		panic(fmt.Errorf("%w: next index %d", ErrIndexOverflow, s.next))
	}
	if s.tree == nil {
		s.tree = newTree[I, T](s.degree)
	}
	i := s.next
	s.tree.ReplaceOrInsert(entry[I, T]{index: i, value: value})
	s.next++
	return i
}

// Remove deletes the value at index and returns it.
// Other indices and the counter are left untouched.
func (s *Store[I, T]) Remove(index I) (T, bool) {
	if s.tree == nil {
		var zero T
		return zero, false
	}
	e, ok := s.tree.Delete(key[I, T](index))
	return e.value, ok
}

// Get returns the value at index, if present.
func (s *Store[I, T]) Get(index I) (T, bool) {
	if s.tree == nil {
		var zero T
		return zero, false
	}
	e, ok := s.tree.Get(key[I, T](index))
	return e.value, ok
}

// Contains reports whether index currently holds a value.
func (s *Store[I, T]) Contains(index I) bool {
	return s.tree != nil && s.tree.Has(key[I, T](index))
}

// At returns the value at index. Asking for an index that holds no value is a
// programming error: At panics with ErrIndexNotFound.
func (s *Store[I, T]) At(index I) T {
	v, ok := s.Get(index)
	if !ok {
		panic(fmt.Errorf("%w: %d (next %d, len %d)", ErrIndexNotFound, index, s.next, s.Len()))
	}
	return v
}

// Ascend calls fn for each entry in ascending index order until fn returns false.
func (s *Store[I, T]) Ascend(fn func(index I, value T) bool) {
	if s.tree == nil {
		return
	}
	s.tree.Ascend(func(e entry[I, T]) bool {
		return fn(e.index, e.value)
	})
}

// Descend is Ascend in reverse.
func (s *Store[I, T]) Descend(fn func(index I, value T) bool) {
	if s.tree == nil {
		return
	}
	s.tree.Descend(func(e entry[I, T]) bool {
		return fn(e.index, e.value)
	})
}

// All yields (index, value) pairs in ascending index order, skipping holes.
// The sequence may be ranged over any number of times.
func (s *Store[I, T]) All() iter.Seq2[I, T] {
	return func(yield func(I, T) bool) {
		s.Ascend(yield)
	}
}

// Backward yields (index, value) pairs in descending index order.
func (s *Store[I, T]) Backward() iter.Seq2[I, T] {
	return func(yield func(I, T) bool) {
		s.Descend(yield)
	}
}

// Range yields the entries with from <= index < to in ascending order.
func (s *Store[I, T]) Range(from, to I) iter.Seq2[I, T] {
	return func(yield func(I, T) bool) {
		if s.tree == nil {
			return
		}
		s.tree.AscendRange(key[I, T](from), key[I, T](to), func(e entry[I, T]) bool {
			return yield(e.index, e.value)
		})
	}
}

// Indices yields the present indices in ascending order.
func (s *Store[I, T]) Indices() iter.Seq[I] {
	return func(yield func(I) bool) {
		s.Ascend(func(i I, _ T) bool { return yield(i) })
	}
}

// Values yields the present values in ascending index order.
func (s *Store[I, T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		s.Ascend(func(_ I, v T) bool { return yield(v) })
	}
}

// Len returns the number of present values. This is not Next() unless
// nothing has been removed.
func (s *Store[I, T]) Len() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Len()
}

// IsEmpty reports whether the store holds no values.
func (s *Store[I, T]) IsEmpty() bool {
	return s.Len() == 0
}

// Clear removes every value. Next() is preserved so indices issued before the
// clear are never handed out again.
func (s *Store[I, T]) Clear() {
	if s.tree != nil {
		s.tree.Clear(true)
	}
}

// Reset removes every value and rewinds Next() to zero. Indices issued before
// the reset will be reused and must be treated as invalid.
func (s *Store[I, T]) Reset() {
	s.Clear()
	s.next = 0
}

// Next returns the index the next Append will use.
func (s *Store[I, T]) Next() I {
	return s.next
}

// First returns the entry with the smallest present index.
func (s *Store[I, T]) First() (I, T, bool) {
	if s.tree == nil {
		var zero T
		return 0, zero, false
	}
	e, ok := s.tree.Min()
	return e.index, e.value, ok
}

// Last returns the entry with the largest present index.
func (s *Store[I, T]) Last() (I, T, bool) {
	if s.tree == nil {
		var zero T
		return 0, zero, false
	}
	e, ok := s.tree.Max()
	return e.index, e.value, ok
}

// Clone returns an independent copy of the store. The backing tree is copied
// lazily, so Clone is cheap until either side is written.
//
// Clone writes bookkeeping on s and must not run concurrently with any other
// use of s.
func (s *Store[I, T]) Clone() *Store[I, T] {
	c := &Store[I, T]{next: s.next, degree: s.degree}
	if s.tree != nil {
		c.tree = s.tree.Clone()
	}
	return c
}

// Equal reports whether a and b hold the same entries and the same counter.
func Equal[I constraints.Unsigned, T any](a, b *Store[I, T], eq func(x, y T) bool) bool {
	if a.next != b.next || a.Len() != b.Len() {
		return false
	}
	same := true
	a.Ascend(func(i I, v T) bool {
		w, ok := b.Get(i)
		same = ok && eq(v, w)
		return same
	})
	return same
}

// String renders one "index: value" line per present entry.
func (s *Store[I, T]) String() string {
	var sb strings.Builder
	s.Ascend(func(i I, v T) bool {
		fmt.Fprintf(&sb, "%d: %v\n", i, v)
		return true
	})
	return sb.String()
}
