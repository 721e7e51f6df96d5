// Package fixedindex file: errors.go

package fixedindex

import "errors"

var (
	// ErrIndexNotFound is the panic cause of At on an index that holds no value.
	ErrIndexNotFound = errors.New("index not found")
	// ErrIndexOverflow is the panic cause when the index space is exhausted.
	ErrIndexOverflow = errors.New("index overflow")
	// ErrInvalidEncoding is returned when a serialized store breaks an invariant.
	ErrInvalidEncoding = errors.New("invalid store encoding")
	// ErrDuplicateKey is returned by unique indexes.
	ErrDuplicateKey = errors.New("duplicate key on unique index")
)
