// Package workforce owns every user, attendance record and leave request
// and persists them record by record into a storage.Store.
package workforce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go-thread/internal/domain"
	"go-thread/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrUnsupportedSchema = errors.New("workforce: unsupported schema version")
	ErrTxDone            = errors.New("workforce: transaction already finished")
	ErrReadOnly          = errors.New("workforce: write in read-only transaction")
)

// Store is the in-memory owner of all workforce records. Transactions are
// serialized by a single lock.
type Store struct {
	mu     sync.Mutex
	kv     storage.Store
	logger *zap.Logger

	users      *collection[domain.User]
	attendance *collection[domain.AttendanceRecord]
	leaves     *collection[domain.LeaveRequest]
	currentID  string
	seq        uint64
}

// Open loads the store from kv, migrating the legacy four-key layout on
// first use.
func Open(ctx context.Context, kv storage.Store, logger ...*zap.Logger) (*Store, error) {
	l := zap.L().Named("workforce.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workforce.store")
	}
	s := &Store{
		kv:         kv,
		logger:     l,
		users:      newCollection(usersPrefix, func(u domain.User) string { return u.ID }),
		attendance: newCollection(attendancePrefix, func(r domain.AttendanceRecord) string { return r.ID }),
		leaves:     newCollection(leavesPrefix, func(r domain.LeaveRequest) string { return r.ID }),
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the underlying key-value store.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Begin starts a read-write transaction. The caller must Commit or Rollback.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &Tx{store: s, ctx: ctx}, nil
}

// Read runs fn inside a read-only transaction.
func (s *Store) Read(ctx context.Context, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	tx := &Tx{store: s, ctx: ctx, readOnly: true}
	defer tx.Rollback()
	return fn(tx)
}

// CurrentUser returns the last signed-in user, if any.
func (s *Store) CurrentUser(ctx context.Context) (domain.User, bool) {
	var (
		u  domain.User
		ok bool
	)
	_ = s.Read(ctx, func(tx *Tx) error {
		u, ok = tx.CurrentUser()
		return nil
	})
	return u, ok
}

func (s *Store) load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, metaKey)
	if errors.Is(err, storage.ErrNotFound) {
		return s.bootstrap(ctx)
	}
	if err != nil {
		return fmt.Errorf("read meta: %w", err)
	}

	var m meta
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("decode meta: %w", err)
	}
	if m.SchemaVersion > SchemaVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedSchema, m.SchemaVersion)
	}

	if err := loadCollection(ctx, s.kv, s.users, s.logger); err != nil {
		return err
	}
	if err := loadCollection(ctx, s.kv, s.attendance, s.logger); err != nil {
		return err
	}
	if err := loadCollection(ctx, s.kv, s.leaves, s.logger); err != nil {
		return err
	}
	s.seq = maxOf(s.users.maxSeq(), s.attendance.maxSeq(), s.leaves.maxSeq())

	raw, err = s.kv.Get(ctx, currentUserKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return fmt.Errorf("read current user: %w", err)
	default:
		rec, err := decodeRecord[domain.User](raw)
		if err != nil {
			s.logger.Warn("ignoring unreadable current user", zap.Error(err))
			break
		}
		if _, ok := s.users.get(rec.data.ID); ok {
			s.currentID = rec.data.ID
		}
	}

	s.logger.Info("store loaded",
		zap.Int("users", len(s.users.order)),
		zap.Int("attendance", len(s.attendance.order)),
		zap.Int("leaves", len(s.leaves.order)),
	)
	return nil
}

// bootstrap initialises an empty keyspace, migrating legacy wholesale keys
// when present.
func (s *Store) bootstrap(ctx context.Context) error {
	legacy := make(map[string][]byte)
	for _, key := range LegacyKeys {
		raw, err := s.kv.Get(ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read legacy %s: %w", key, err)
		}
		legacy[key] = raw
	}

	if len(legacy) > 0 {
		snap := DecodeLegacy(legacy, s.logger)
		if err := s.replace(ctx, snap); err != nil {
			return fmt.Errorf("migrate legacy layout: %w", err)
		}
		for key := range legacy {
			if err := s.kv.Delete(ctx, key); err != nil {
				return fmt.Errorf("delete legacy %s: %w", key, err)
			}
		}
		s.logger.Info("migrated legacy layout",
			zap.Int("users", len(snap.Users)),
			zap.Int("attendance", len(snap.Attendance)),
			zap.Int("leaves", len(snap.Leaves)),
		)
	}

	return s.writeMeta(ctx)
}

func (s *Store) writeMeta(ctx context.Context) error {
	b, err := json.Marshal(meta{SchemaVersion: SchemaVersion})
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, metaKey, b); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return nil
}

func loadCollection[T any](ctx context.Context, kv storage.Store, c *collection[T], logger *zap.Logger) error {
	entries, err := kv.List(ctx, c.prefix)
	if err != nil {
		return fmt.Errorf("list %s: %w", c.prefix, err)
	}

	recs := make([]record[T], 0, len(entries))
	for _, e := range entries {
		rec, err := decodeRecord[T](e.Value)
		if err != nil {
			logger.Warn("skipping unreadable record", zap.String("key", e.Key), zap.Error(err))
			continue
		}
		if c.key(c.idOf(rec.data)) != e.Key {
			logger.Warn("skipping record with mismatched id", zap.String("key", e.Key))
			continue
		}
		recs = append(recs, rec)
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	c.reset()
	for _, r := range recs {
		c.put(r)
	}
	return nil
}

func maxOf(vs ...uint64) uint64 {
	var m uint64
	for _, v := range vs {
		if v > m {
			m = v
		}
	}
	return m
}
