// Package fixedindex file: btree.go

package fixedindex

import (
	"github.com/google/btree"
	"golang.org/x/exp/constraints"
)

// entry is the btree item of a Store. Only index takes part in ordering.
type entry[I constraints.Unsigned, T any] struct {
	index I
	value T
}

func entryLess[I constraints.Unsigned, T any](a, b entry[I, T]) bool {
	return a.index < b.index
}

func newTree[I constraints.Unsigned, T any](degree int) *btree.BTreeG[entry[I, T]] {
	if degree < 2 {
		degree = defaultDegree
	}
	return btree.NewG(degree, entryLess[I, T])
}

// key builds a lookup probe for index i.
func key[I constraints.Unsigned, T any](i I) entry[I, T] {
	return entry[I, T]{index: i}
}

// maxIndex is the largest value representable by I.
func maxIndex[I constraints.Unsigned]() I {
	return ^I(0)
}
