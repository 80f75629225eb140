// Package storage provides the key-value persistence interface used for
// progress data. Values round-trip as plain strings; callers own the
// serialization format.
package storage

import "context"

// Store is a minimal key-value store. Get reports whether the key was
// present; an absent key is not an error. SetMulti writes all entries
// atomically, so related keys never diverge on a partial failure.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMulti(ctx context.Context, entries map[string]string) error
	Remove(ctx context.Context, key string) error
}
