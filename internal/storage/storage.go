// Package storage defines the key-value contract the workforce store
// persists through.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

type Entry struct {
	Key   string
	Value []byte
}

// Store is a flat byte store. List returns entries ordered by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Entry, error)
	Close() error
}

// PrefixEnd returns the smallest key greater than every key starting with
// prefix, or "" when no such key exists.
func PrefixEnd(prefix string) string {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}
	return ""
}
