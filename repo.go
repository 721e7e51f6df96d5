// Package fixedindex file: repo.go

package fixedindex

import (
	"iter"

	"github.com/google/uuid"
)

// EventType names the mutation that produced an Event.
type EventType string

const (
	EventAppend EventType = "append"
	EventRemove EventType = "remove"
	EventClear  EventType = "clear"
	EventReset  EventType = "reset"
)

// Event describes one mutation of a repo. Index and Value are zero for
// EventClear and EventReset.
type Event[T any] struct {
	Type   EventType
	Index  uint64
	Value  T
	Source uuid.UUID
}

// Repo interface (public contract).
type Repo[T any] interface {
	ID() uuid.UUID

	Append(value T) (uint64, error)
	Remove(index uint64) (T, bool)
	Get(index uint64) (T, bool)
	At(index uint64) T
	Contains(index uint64) bool
	Len() int
	IsEmpty() bool
	Next() uint64
	First() (uint64, T, bool)
	Last() (uint64, T, bool)
	Clear()
	Reset()
	All() iter.Seq2[uint64, T]
	Snapshot() *Vec[T]

	// Index support
	AddIndex(name string, idx Indexer[T]) error
	GetIndex(name string) (Indexer[T], bool)

	// Subscribers
	AddSubscriber(fn func(Event[T]))
}
