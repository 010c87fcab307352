// Package kvstore is the storage capability behind every Looply service:
// JSON documents addressed by string keys, with prefix scans.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key does not exist
var ErrNotFound = errors.New("kvstore: key not found")

// Entry is one stored document
type Entry struct {
	Key   string
	Value []byte
}

// Store is the get/set/remove/scan capability. Set is an upsert.
// ScanByPrefix returns entries ordered by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	ScanByPrefix(ctx context.Context, prefix string) ([]Entry, error)
}

// Backend is a Store that owns a connection
type Backend interface {
	Store
	Health(ctx context.Context) map[string]string
	Close() error
}

// GetJSON loads key and decodes it into a new T
func GetJSON[T any](ctx context.Context, s Store, key string) (*T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &v, nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// ScanJSON decodes every document under prefix. Undecodable documents are skipped.
func ScanJSON[T any](ctx context.Context, s Store, prefix string) ([]*T, error) {
	entries, err := s.ScanByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.Value, &v); err != nil {
			continue
		}
		out = append(out, &v)
	}
	return out, nil
}

// escapeLike escapes LIKE wildcards so a prefix matches literally
func escapeLike(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix)
}
