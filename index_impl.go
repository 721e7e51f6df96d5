// Package fixedindex file: index_impl.go

package fixedindex

import (
	"fmt"
	"strings"

	"github.com/google/btree"
)

const handleSetDegree = 8

// BTreeIndex maps a key derived from each value to the ascending set of
// handles holding such values.
type BTreeIndex[K any, T any] struct {
	tree    *btree.BTreeG[item[K]]
	keyFunc func(T) K
	unique  bool
}

func newIndex[K any, T any](keyFunc func(T) K, lessFunc func(a, b K) bool, unique bool) *BTreeIndex[K, T] {
	btreeLessFunc := func(a, b item[K]) bool {
		return lessFunc(a.key, b.key)
	}
	return &BTreeIndex[K, T]{
		tree:    btree.NewG(defaultDegree, btreeLessFunc),
		keyFunc: keyFunc,
		unique:  unique,
	}
}

// NewIndex creates an index that allows any number of handles per key.
// lessFunc orders keys; cmp.Less works for ordered key types.
func NewIndex[K any, T any](keyFunc func(T) K, lessFunc func(a, b K) bool) *BTreeIndex[K, T] {
	return newIndex(keyFunc, lessFunc, false)
}

// NewUniqueIndex creates an index that rejects a second handle under a key
// with ErrDuplicateKey.
func NewUniqueIndex[K any, T any](keyFunc func(T) K, lessFunc func(a, b K) bool) *BTreeIndex[K, T] {
	return newIndex(keyFunc, lessFunc, true)
}

// Insert records handle under the key of value.
func (idx *BTreeIndex[K, T]) Insert(handle uint64, value T) error {
	key := idx.keyFunc(value)

	it, found := idx.tree.Get(item[K]{key: key})
	if !found {
		it = item[K]{key: key, handles: btree.NewG(handleSetDegree, btree.Less[uint64]())}
		idx.tree.ReplaceOrInsert(it)
	} else if idx.unique {
		// A unique key holds exactly one handle; re-inserting it is a no-op.
		if existing, _ := it.handles.Min(); existing != handle {
			return fmt.Errorf("%w: key %v held by %d", ErrDuplicateKey, key, existing)
		}
	}

	it.handles.ReplaceOrInsert(handle)
	return nil
}

// Delete drops handle from the key of value, and the key once it is empty.
func (idx *BTreeIndex[K, T]) Delete(handle uint64, value T) {
	key := idx.keyFunc(value)

	it, found := idx.tree.Get(item[K]{key: key})
	if !found {
		return
	}
	it.handles.Delete(handle)
	if it.handles.Len() == 0 {
		idx.tree.Delete(it)
	}
}

// Clear empties the index.
func (idx *BTreeIndex[K, T]) Clear() {
	idx.tree.Clear(false)
}

// Find returns the handles stored under key in ascending order.
func (idx *BTreeIndex[K, T]) Find(key K) []uint64 {
	it, found := idx.tree.Get(item[K]{key: key})
	if !found {
		return nil
	}

	results := make([]uint64, 0, it.handles.Len())
	it.handles.Ascend(func(h uint64) bool {
		results = append(results, h)
		return true
	})
	return results
}

// Len returns the number of distinct keys.
func (idx *BTreeIndex[K, T]) Len() int {
	return idx.tree.Len()
}

// forRange flattens a key traversal into (key, handle) callbacks.
func (idx *BTreeIndex[K, T]) forRange(
	btreeIterFn func(fn btree.ItemIteratorG[item[K]]),
	userFn func(K, uint64) bool,
) {
	btreeIterFn(func(it item[K]) bool {
		continueIteration := true
		it.handles.Ascend(func(h uint64) bool {
			continueIteration = userFn(it.key, h)
			return continueIteration
		})
		return continueIteration
	})
}

// Ascend iterates keys in ascending order.
func (idx *BTreeIndex[K, T]) Ascend(fn func(key K, handle uint64) bool) {
	idx.forRange(idx.tree.Ascend, fn)
}

// Descend iterates keys in descending order. Handles under one key stay ascending.
func (idx *BTreeIndex[K, T]) Descend(fn func(key K, handle uint64) bool) {
	idx.forRange(idx.tree.Descend, fn)
}

// AscendRange iterates keys in [lower, upper).
func (idx *BTreeIndex[K, T]) AscendRange(lower, upper K, fn func(key K, handle uint64) bool) {
	idx.forRange(func(btreeFn btree.ItemIteratorG[item[K]]) {
		idx.tree.AscendRange(item[K]{key: lower}, item[K]{key: upper}, btreeFn)
	}, fn)
}

// AscendGreaterOrEqual iterates from key to the end in ascending order.
func (idx *BTreeIndex[K, T]) AscendGreaterOrEqual(key K, fn func(key K, handle uint64) bool) {
	idx.forRange(func(btreeFn btree.ItemIteratorG[item[K]]) {
		idx.tree.AscendGreaterOrEqual(item[K]{key: key}, btreeFn)
	}, fn)
}

func (idx *BTreeIndex[K, T]) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	first := true

	idx.tree.Ascend(func(it item[K]) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%v:", it.key)
		it.handles.Ascend(func(h uint64) bool {
			fmt.Fprintf(&sb, " %d", h)
			return true
		})
		return true
	})

	sb.WriteString("]")
	return sb.String()
}
