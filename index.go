// Package fixedindex file: index.go

package fixedindex

import "github.com/google/btree"

// item pairs a key with the handles of every value that maps to it.
type item[K any] struct {
	key     K
	handles *btree.BTreeG[uint64]
}

// Indexer is what a RepoImpl maintains alongside its store.
type Indexer[T any] interface {
	Insert(handle uint64, value T) error
	Delete(handle uint64, value T)
	Clear()
}

// Index contract for ordered secondary indexes over stored values.
type Index[K any, T any] interface {
	Indexer[T]
	Find(key K) []uint64
	Len() int
	Ascend(fn func(key K, handle uint64) bool)
	Descend(fn func(key K, handle uint64) bool)
	AscendRange(lower, upper K, fn func(key K, handle uint64) bool)
	AscendGreaterOrEqual(key K, fn func(key K, handle uint64) bool)
}
