package rediskv

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go-thread/internal/storage"

	"github.com/redis/go-redis/v9"
)

const scanCount = 100

// Store keeps entries as plain redis strings.
type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]storage.Entry, error) {
	match := globEscape(prefix) + "*"
	keys := make([]string, 0)
	var cursor uint64
	for {
		batch, next, err := s.rdb.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return []storage.Entry{}, nil
	}
	// SCAN may return a key more than once.
	slices.Sort(keys)
	keys = slices.Compact(keys)

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget %s: %w", prefix, err)
	}

	entries := make([]storage.Entry, 0, len(keys))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// deleted between SCAN and MGET
			continue
		}
		entries = append(entries, storage.Entry{Key: keys[i], Value: []byte(str)})
	}
	return entries, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func globEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
