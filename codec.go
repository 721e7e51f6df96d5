// Package fixedindex file: codec.go

package fixedindex

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	gojson "github.com/goccy/go-json"
	"github.com/google/btree"
	"golang.org/x/exp/constraints"
)

// Both encodings carry the same two fields:
//
//	{"entries": {"0": v0, "2": v2}, "next_index": 3}
//
// Entries are written in ascending index order.

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error
	if cborEncMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if cborDecMode, err = (cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}).DecMode(); err != nil {
		panic(err)
	}
}

// MarshalJSON implements json.Marshaler. It has a value receiver so that a
// Store embedded by value in another struct still encodes.
func (s Store[I, T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"entries":{`)

	var err error
	first := true
	s.Ascend(func(i I, v T) bool {
		var b []byte
		if b, err = gojson.Marshal(v); err != nil {
			err = fmt.Errorf("index %d: %w", i, err)
			return false
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteByte('"')
		buf.WriteString(strconv.FormatUint(uint64(i), 10))
		buf.WriteString(`":`)
		buf.Write(b)
		return true
	})
	if err != nil {
		return nil, err
	}

	buf.WriteString(`},"next_index":`)
	buf.WriteString(strconv.FormatUint(uint64(s.next), 10))
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. The receiver's contents are
// replaced only if the whole document decodes and every index is below
// next_index. A JSON null leaves the receiver unchanged.
func (s *Store[I, T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var w struct {
		Entries   map[string]gojson.RawMessage `json:"entries"`
		NextIndex *uint64                      `json:"next_index"`
	}
	if err := gojson.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	next, err := decodeNext[I](w.NextIndex)
	if err != nil {
		return err
	}

	tree := newTree[I, T](s.degree)
	for k, raw := range w.Entries {
		u, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: key %q: %w", ErrInvalidEncoding, k, err)
		}
		// "00" and "0" would otherwise land on the same index.
		if strconv.FormatUint(u, 10) != k {
			return fmt.Errorf("%w: key %q is not in canonical form", ErrInvalidEncoding, k)
		}
		if u >= uint64(next) {
			return fmt.Errorf("%w: index %d not below next_index %d", ErrInvalidEncoding, u, next)
		}
		var v T
		if err := gojson.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("%w: index %d: %w", ErrInvalidEncoding, u, err)
		}
		tree.ReplaceOrInsert(entry[I, T]{index: I(u), value: v})
	}

	s.replace(tree, next)
	return nil
}

type cborStore[I constraints.Unsigned, T any] struct {
	Entries   map[I]T `cbor:"entries"`
	NextIndex *uint64 `cbor:"next_index"`
}

// MarshalCBOR implements cbor.Marshaler using core deterministic encoding,
// which orders the integer keys ascending.
func (s Store[I, T]) MarshalCBOR() ([]byte, error) {
	next := uint64(s.next)
	w := cborStore[I, T]{
		Entries:   make(map[I]T, s.Len()),
		NextIndex: &next,
	}
	s.Ascend(func(i I, v T) bool {
		w.Entries[i] = v
		return true
	})
	return cborEncMode.Marshal(w)
}

// UnmarshalCBOR implements cbor.Unmarshaler with the same validation as
// UnmarshalJSON.
func (s *Store[I, T]) UnmarshalCBOR(data []byte) error {
	var w cborStore[I, T]
	if err := cborDecMode.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	next, err := decodeNext[I](w.NextIndex)
	if err != nil {
		return err
	}

	tree := newTree[I, T](s.degree)
	for i, v := range w.Entries {
		if i >= next {
			return fmt.Errorf("%w: index %d not below next_index %d", ErrInvalidEncoding, i, next)
		}
		tree.ReplaceOrInsert(entry[I, T]{index: i, value: v})
	}

	s.replace(tree, next)
	return nil
}

func decodeNext[I constraints.Unsigned](n *uint64) (I, error) {
	if n == nil {
		return 0, fmt.Errorf("%w: missing next_index", ErrInvalidEncoding)
	}
	if *n > uint64(maxIndex[I]()) {
		return 0, fmt.Errorf("%w: next_index %d out of range", ErrInvalidEncoding, *n)
	}
	return I(*n), nil
}

func (s *Store[I, T]) replace(tree *btree.BTreeG[entry[I, T]], next I) {
	if tree.Len() == 0 {
		tree = nil
	}
	s.tree = tree
	s.next = next
}
