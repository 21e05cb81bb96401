package workforce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-thread/internal/domain"

	"go.uber.org/zap"
)

// Legacy wholesale keys, one serialized collection per key.
const (
	LegacyUsersKey       = "users"
	LegacyAttendanceKey  = "attendance"
	LegacyLeavesKey      = "leaves"
	LegacyCurrentUserKey = "current_user"
)

var LegacyKeys = []string{LegacyUsersKey, LegacyAttendanceKey, LegacyLeavesKey, LegacyCurrentUserKey}

var (
	ErrRecordWithoutID = errors.New("workforce: record without id")
	ErrDuplicateRecord = errors.New("workforce: duplicate record id")
)

// Snapshot is the whole store in the four-collection layout.
type Snapshot struct {
	Users       []domain.User             `json:"users"`
	Attendance  []domain.AttendanceRecord `json:"attendance"`
	Leaves      []domain.LeaveRequest     `json:"leaves"`
	CurrentUser *domain.User              `json:"current_user,omitempty"`
}

// LegacyEntries serializes s into the four wholesale keys.
func (s Snapshot) LegacyEntries() (map[string][]byte, error) {
	out := make(map[string][]byte, len(LegacyKeys))
	parts := map[string]any{
		LegacyUsersKey:      nonNil(s.Users),
		LegacyAttendanceKey: nonNil(s.Attendance),
		LegacyLeavesKey:     nonNil(s.Leaves),
	}
	for key, v := range parts {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = b
	}
	if s.CurrentUser != nil {
		b, err := json.Marshal(s.CurrentUser)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", LegacyCurrentUserKey, err)
		}
		out[LegacyCurrentUserKey] = b
	}
	return out, nil
}

// DecodeLegacy reads the four wholesale keys. A missing or unparseable key
// decodes as empty, and records without an id or with a repeated id are
// skipped.
func DecodeLegacy(entries map[string][]byte, logger *zap.Logger) Snapshot {
	if logger == nil {
		logger = zap.NewNop()
	}
	snap := Snapshot{
		Users: usable(decodeLegacyKey[[]domain.User](entries, LegacyUsersKey, logger),
			func(u domain.User) string { return u.ID }, LegacyUsersKey, logger),
		Attendance: usable(decodeLegacyKey[[]domain.AttendanceRecord](entries, LegacyAttendanceKey, logger),
			func(r domain.AttendanceRecord) string { return r.ID }, LegacyAttendanceKey, logger),
		Leaves: usable(decodeLegacyKey[[]domain.LeaveRequest](entries, LegacyLeavesKey, logger),
			func(r domain.LeaveRequest) string { return r.ID }, LegacyLeavesKey, logger),
	}
	if current := decodeLegacyKey[*domain.User](entries, LegacyCurrentUserKey, logger); current != nil && current.ID != "" {
		snap.CurrentUser = current
	}
	return snap
}

func decodeLegacyKey[T any](entries map[string][]byte, key string, logger *zap.Logger) T {
	var v T
	raw, ok := entries[key]
	if !ok {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("ignoring unparseable legacy key", zap.String("key", key), zap.Error(err))
		var zero T
		return zero
	}
	return v
}

// Export returns a copy of the whole store.
func (s *Store) Export(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.Read(ctx, func(tx *Tx) error {
		snap = Snapshot{
			Users:      tx.Users(),
			Attendance: tx.AttendanceRecords(),
			Leaves:     tx.Leaves(),
		}
		if u, ok := tx.CurrentUser(); ok {
			snap.CurrentUser = &u
		}
		return nil
	})
	return snap, err
}

// Import replaces the whole store with snap.
func (s *Store) Import(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(ctx, snap)
}

// replace swaps the whole store for snap. The snapshot is checked before any
// write, and a storage failure reverts the writes already made.
func (s *Store) replace(ctx context.Context, snap Snapshot) error {
	users := newCollection(usersPrefix, s.users.idOf)
	attendance := newCollection(attendancePrefix, s.attendance.idOf)
	leaves := newCollection(leavesPrefix, s.leaves.idOf)

	var seq uint64
	if err := fill(users, snap.Users, &seq); err != nil {
		return err
	}
	if err := fill(attendance, snap.Attendance, &seq); err != nil {
		return err
	}
	if err := fill(leaves, snap.Leaves, &seq); err != nil {
		return err
	}

	var writes []kvWrite
	for _, step := range []func() ([]kvWrite, error){
		func() ([]kvWrite, error) { return replaceWrites(s.users, users) },
		func() ([]kvWrite, error) { return replaceWrites(s.attendance, attendance) },
		func() ([]kvWrite, error) { return replaceWrites(s.leaves, leaves) },
	} {
		ws, err := step()
		if err != nil {
			return err
		}
		writes = append(writes, ws...)
	}

	currentID := ""
	if snap.CurrentUser != nil {
		if _, ok := users.get(snap.CurrentUser.ID); ok {
			currentID = snap.CurrentUser.ID
		}
	}
	cw, err := s.replaceCurrentUser(users, currentID)
	if err != nil {
		return err
	}
	writes = append(writes, cw)

	for i, w := range writes {
		var err error
		if w.delete {
			err = s.kv.Delete(ctx, w.key)
		} else {
			err = s.kv.Put(ctx, w.key, w.value)
		}
		if err != nil {
			s.revert(writes[:i])
			return fmt.Errorf("replace %s: %w", w.key, err)
		}
	}

	s.users, s.attendance, s.leaves = users, attendance, leaves
	s.currentID = currentID
	s.seq = seq
	return nil
}

// fill loads items into c in order, numbering them from seq.
func fill[T any](c *collection[T], items []T, seq *uint64) error {
	for _, item := range items {
		id := c.idOf(item)
		if id == "" {
			return ErrRecordWithoutID
		}
		if _, dup := c.items[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateRecord, id)
		}
		*seq++
		c.put(record[T]{seq: *seq, data: item})
	}
	return nil
}

// replaceWrites puts every record of next and deletes the keys of records
// present only in old.
func replaceWrites[T any](old, next *collection[T]) ([]kvWrite, error) {
	writes := make([]kvWrite, 0, len(next.order)+len(old.order))
	for _, id := range next.order {
		value, err := encodeRecord(next.items[id])
		if err != nil {
			return nil, err
		}
		w := kvWrite{key: next.key(id), value: value}
		if prev, ok := old.items[id]; ok {
			if w.prev, err = encodeRecord(prev); err != nil {
				return nil, err
			}
			w.existed = true
		}
		writes = append(writes, w)
	}
	for _, id := range old.order {
		if _, ok := next.items[id]; ok {
			continue
		}
		prev, err := encodeRecord(old.items[id])
		if err != nil {
			return nil, err
		}
		writes = append(writes, kvWrite{key: old.key(id), delete: true, prev: prev, existed: true})
	}
	return writes, nil
}

func (s *Store) replaceCurrentUser(users *collection[domain.User], nextID string) (kvWrite, error) {
	w := kvWrite{key: currentUserKey, delete: true}
	if s.currentID != "" {
		if old, ok := s.users.get(s.currentID); ok {
			prev, err := encodeRecord(record[domain.User]{data: old})
			if err != nil {
				return kvWrite{}, err
			}
			w.prev, w.existed = prev, true
		}
	}
	if nextID == "" {
		return w, nil
	}
	u, _ := users.get(nextID)
	value, err := encodeRecord(record[domain.User]{data: u})
	if err != nil {
		return kvWrite{}, err
	}
	w.value, w.delete = value, false
	return w, nil
}

// usable drops records without an id and repeats of an id already seen.
func usable[T any](items []T, idOf func(T) string, kind string, logger *zap.Logger) []T {
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items))
	for i, item := range items {
		id := idOf(item)
		if id == "" || seen[id] {
			logger.Warn("skipping legacy record", zap.String("kind", kind), zap.Int("index", i), zap.String("id", id))
			continue
		}
		seen[id] = true
		out = append(out, item)
	}
	return out
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
