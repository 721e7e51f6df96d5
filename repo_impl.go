// Package fixedindex file: repo_impl.go

package fixedindex

import (
	"fmt"
	"iter"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"
)

// RepoImpl is a Vec guarded by a read/write mutex, with secondary indexes and
// synchronous change subscribers.
//
// Subscribers run while the write lock is held and must not call back into
// the repo.
type RepoImpl[T any] struct {
	id      uuid.UUID
	vec     *Vec[T]
	indexes map[string]Indexer[T]
	logger  *slog.Logger
	mu      sync.RWMutex

	subscribers   []func(Event[T])
	subscribersMu sync.RWMutex // Protects the subscribers slice
}

var _ Repo[string] = (*RepoImpl[string])(nil)

// NewRepo creates an empty repo with a fresh random ID.
func NewRepo[T any](opts ...Option) *RepoImpl[T] {
	o := newOptions(opts)
	if o.logger == nil {
		o.logger = discardLogger()
	}
	id := uuid.New()
	return &RepoImpl[T]{
		id:      id,
		vec:     NewStore[uint64, T](opts...),
		indexes: make(map[string]Indexer[T]),
		logger:  o.logger.With("repo", id.String()),
	}
}

// ID identifies the repo in log records and events.
func (r *RepoImpl[T]) ID() uuid.UUID {
	return r.id
}

// notify handles fan-out to subscribers.
func (r *RepoImpl[T]) notify(eventType EventType, index uint64, value T) {
	r.subscribersMu.RLock()
	defer r.subscribersMu.RUnlock()

	for _, fn := range r.subscribers {
		fn(Event[T]{Type: eventType, Index: index, Value: value, Source: r.id})
	}
}

func (r *RepoImpl[T]) rollback(updatedIndexes map[string]Indexer[T], handle uint64, value T) {
	for _, rollbackIdx := range updatedIndexes {
		rollbackIdx.Delete(handle, value)
	}
}

// insertIndexes must be called with r.mu held.
func (r *RepoImpl[T]) insertIndexes(handle uint64, value T) error {
	updatedIndexes := make(map[string]Indexer[T])

	for name, idx := range r.indexes {
		if err := idx.Insert(handle, value); err != nil {
			r.rollback(updatedIndexes, handle, value)
			return fmt.Errorf("failed to insert into index %s: %w", name, err)
		}
		updatedIndexes[name] = idx
	}
	return nil
}

// Append stores value and returns its index. If an index rejects the value
// nothing is stored and the counter does not advance.
func (r *RepoImpl[T]) Append(value T) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handle := r.vec.Next()
	if handle == math.MaxUint64 {
		panic(fmt.Errorf("%w: next index %d", ErrIndexOverflow, handle))
	}
	if err := r.insertIndexes(handle, value); err != nil {
		r.logger.Warn("append rejected", "index", handle, "error", err)
		return 0, err
	}
	r.vec.Append(value)

	r.logger.Debug("append", "index", handle)
	r.notify(EventAppend, handle, value)
	return handle, nil
}

// Remove deletes the value at index from the store and every index.
func (r *RepoImpl[T]) Remove(index uint64) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vec.Remove(index)
	if !ok {
		r.logger.Debug("remove missed", "index", index)
		return v, false
	}
	for _, idx := range r.indexes {
		idx.Delete(index, v)
	}

	r.logger.Debug("remove", "index", index)
	r.notify(EventRemove, index, v)
	return v, true
}

func (r *RepoImpl[T]) Get(index uint64) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vec.Get(index)
}

// At panics with ErrIndexNotFound if index holds no value.
func (r *RepoImpl[T]) At(index uint64) T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vec.At(index)
}

func (r *RepoImpl[T]) Contains(index uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vec.Contains(index)
}

func (r *RepoImpl[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vec.Len()
}

func (r *RepoImpl[T]) IsEmpty() bool {
	return r.Len() == 0
}

func (r *RepoImpl[T]) Next() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vec.Next()
}

func (r *RepoImpl[T]) First() (uint64, T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vec.First()
}

func (r *RepoImpl[T]) Last() (uint64, T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vec.Last()
}

// Clear removes all values and empties every index. Next is preserved.
func (r *RepoImpl[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.vec.Len()
	r.vec.Clear()
	r.clearIndexes()

	r.logger.Debug("clear", "removed", n, "next", r.vec.Next())
	var zero T
	r.notify(EventClear, 0, zero)
}

// Reset is Clear plus rewinding Next to zero.
func (r *RepoImpl[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.vec.Len()
	r.vec.Reset()
	r.clearIndexes()

	r.logger.Debug("reset", "removed", n)
	var zero T
	r.notify(EventReset, 0, zero)
}

func (r *RepoImpl[T]) clearIndexes() {
	for _, idx := range r.indexes {
		idx.Clear()
	}
}

// Snapshot returns an independent copy of the current contents.
func (r *RepoImpl[T]) Snapshot() *Vec[T] {
	// Clone writes copy-on-write bookkeeping, so it needs the write lock.
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vec.Clone()
}

// All iterates a snapshot taken when iteration starts, so the lock is not
// held while the caller's loop body runs.
func (r *RepoImpl[T]) All() iter.Seq2[uint64, T] {
	return func(yield func(uint64, T) bool) {
		r.Snapshot().Ascend(yield)
	}
}

// AddIndex registers idx under name and builds it from the current contents.
// On failure idx is cleared and not registered.
func (r *RepoImpl[T]) AddIndex(name string, idx Indexer[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	r.vec.Ascend(func(i uint64, v T) bool {
		err = idx.Insert(i, v)
		return err == nil
	})
	if err != nil {
		idx.Clear()
		return fmt.Errorf("failed to build index %s: %w", name, err)
	}

	r.indexes[name] = idx
	r.logger.Debug("index added", "name", name, "entries", r.vec.Len())
	return nil
}

func (r *RepoImpl[T]) GetIndex(name string) (Indexer[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.indexes[name]
	return idx, ok
}

// AddSubscriber registers fn to receive events.
func (r *RepoImpl[T]) AddSubscriber(fn func(Event[T])) {
	r.subscribersMu.Lock()
	defer r.subscribersMu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// String implements fmt.Stringer
func (r *RepoImpl[T]) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vec.String()
}
