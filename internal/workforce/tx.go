package workforce

import (
	"context"
	"fmt"

	"go-thread/internal/domain"

	"go.uber.org/zap"
)

// Tx is a unit of work on the store. Reads observe the transaction's own
// staged writes. Nothing is visible to other transactions or persisted until
// Commit.
type Tx struct {
	store    *Store
	ctx      context.Context
	readOnly bool
	done     bool

	users      staged[domain.User]
	attendance staged[domain.AttendanceRecord]
	leaves     staged[domain.LeaveRequest]
	raw        []kvWrite

	currentSet bool
	currentID  string
}

type kvWrite struct {
	key     string
	value   []byte
	delete  bool
	prev    []byte
	existed bool
}

func (tx *Tx) writable() error {
	if tx.done {
		return ErrTxDone
	}
	if tx.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (tx *Tx) User(id string) (domain.User, bool) {
	return viewGet(tx.store.users, &tx.users, id)
}

func (tx *Tx) Users() []domain.User {
	return viewList(tx.store.users, &tx.users)
}

func (tx *Tx) PutUser(u domain.User) error {
	if err := tx.writable(); err != nil {
		return err
	}
	if u.ID == "" {
		return fmt.Errorf("workforce: user id is required")
	}
	tx.users.put(u.ID, u)
	return nil
}

func (tx *Tx) AttendanceRecord(id string) (domain.AttendanceRecord, bool) {
	return viewGet(tx.store.attendance, &tx.attendance, id)
}

func (tx *Tx) AttendanceRecords() []domain.AttendanceRecord {
	return viewList(tx.store.attendance, &tx.attendance)
}

func (tx *Tx) PutAttendance(r domain.AttendanceRecord) error {
	if err := tx.writable(); err != nil {
		return err
	}
	if r.ID == "" {
		return fmt.Errorf("workforce: attendance id is required")
	}
	tx.attendance.put(r.ID, r)
	return nil
}

func (tx *Tx) Leave(id string) (domain.LeaveRequest, bool) {
	return viewGet(tx.store.leaves, &tx.leaves, id)
}

func (tx *Tx) Leaves() []domain.LeaveRequest {
	return viewList(tx.store.leaves, &tx.leaves)
}

func (tx *Tx) PutLeave(r domain.LeaveRequest) error {
	if err := tx.writable(); err != nil {
		return err
	}
	if r.ID == "" {
		return fmt.Errorf("workforce: leave id is required")
	}
	tx.leaves.put(r.ID, r)
	return nil
}

// PutRaw stages an opaque key-value write committed with the transaction.
func (tx *Tx) PutRaw(key string, value []byte) error {
	if err := tx.writable(); err != nil {
		return err
	}
	tx.raw = append(tx.raw, kvWrite{key: key, value: value})
	return nil
}

// SetCurrentUser marks id as the signed-in user. An empty id signs out.
func (tx *Tx) SetCurrentUser(id string) error {
	if err := tx.writable(); err != nil {
		return err
	}
	if id != "" {
		if _, ok := tx.User(id); !ok {
			return fmt.Errorf("workforce: unknown user %s", id)
		}
	}
	tx.currentSet = true
	tx.currentID = id
	return nil
}

func (tx *Tx) CurrentUser() (domain.User, bool) {
	id := tx.store.currentID
	if tx.currentSet {
		id = tx.currentID
	}
	if id == "" {
		return domain.User{}, false
	}
	return tx.User(id)
}

// Rollback discards staged writes. It is a no-op after Commit.
func (tx *Tx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.finish()
	return nil
}

func (tx *Tx) finish() {
	tx.done = true
	tx.store.mu.Unlock()
}

type prepared[T any] struct {
	rec   record[T]
	write kvWrite
}

func prepare[T any](c *collection[T], st *staged[T], seq *uint64) ([]prepared[T], error) {
	out := make([]prepared[T], 0, len(st.order))
	for _, id := range st.order {
		rec := record[T]{data: st.writes[id]}
		w := kvWrite{key: c.key(id)}
		if old, ok := c.items[id]; ok {
			rec.seq = old.seq
			prev, err := encodeRecord(old)
			if err != nil {
				return nil, err
			}
			w.prev, w.existed = prev, true
		} else {
			*seq++
			rec.seq = *seq
		}
		value, err := encodeRecord(rec)
		if err != nil {
			return nil, err
		}
		w.value = value
		out = append(out, prepared[T]{rec: rec, write: w})
	}
	return out, nil
}

func writesOf[T any](ps []prepared[T]) []kvWrite {
	out := make([]kvWrite, len(ps))
	for i, p := range ps {
		out[i] = p.write
	}
	return out
}

func apply[T any](c *collection[T], ps []prepared[T]) {
	for _, p := range ps {
		c.put(p.rec)
	}
}

// Commit persists every staged record under its own key and then applies
// the changes in memory. On a storage failure the writes already made are
// reverted and memory is left untouched.
func (tx *Tx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	defer tx.finish()
	if tx.readOnly {
		return nil
	}

	s := tx.store
	seq := s.seq

	users, err := prepare(s.users, &tx.users, &seq)
	if err != nil {
		return err
	}
	attendance, err := prepare(s.attendance, &tx.attendance, &seq)
	if err != nil {
		return err
	}
	leaves, err := prepare(s.leaves, &tx.leaves, &seq)
	if err != nil {
		return err
	}

	writes := make([]kvWrite, 0, len(users)+len(attendance)+len(leaves)+len(tx.raw)+1)
	writes = append(writes, writesOf(users)...)
	writes = append(writes, writesOf(attendance)...)
	writes = append(writes, writesOf(leaves)...)
	writes = append(writes, tx.raw...)

	nextCurrent := s.currentID
	if tx.currentSet {
		nextCurrent = tx.currentID
	}
	cw, changed, err := tx.currentUserWrite(nextCurrent)
	if err != nil {
		return err
	}
	if changed {
		writes = append(writes, cw)
	}

	for i, w := range writes {
		var err error
		if w.delete {
			err = s.kv.Delete(tx.ctx, w.key)
		} else {
			err = s.kv.Put(tx.ctx, w.key, w.value)
		}
		if err != nil {
			s.revert(writes[:i])
			return fmt.Errorf("commit %s: %w", w.key, err)
		}
	}

	s.seq = seq
	apply(s.users, users)
	apply(s.attendance, attendance)
	apply(s.leaves, leaves)
	s.currentID = nextCurrent
	return nil
}

// currentUserWrite refreshes the persisted session copy when the signed-in
// user changes identity or their record is rewritten.
func (tx *Tx) currentUserWrite(nextID string) (kvWrite, bool, error) {
	s := tx.store
	w := kvWrite{key: currentUserKey}
	if s.currentID != "" {
		if old, ok := s.users.get(s.currentID); ok {
			prev, err := encodeRecord(record[domain.User]{data: old})
			if err != nil {
				return kvWrite{}, false, err
			}
			w.prev, w.existed = prev, true
		}
	}

	if nextID == "" {
		w.delete = true
		return w, s.currentID != "", nil
	}

	_, rewritten := tx.users.writes[nextID]
	if nextID == s.currentID && !rewritten {
		return kvWrite{}, false, nil
	}
	u, _ := tx.User(nextID)
	value, err := encodeRecord(record[domain.User]{data: u})
	if err != nil {
		return kvWrite{}, false, err
	}
	w.value = value
	return w, true, nil
}

func (s *Store) revert(done []kvWrite) {
	ctx := context.Background()
	for i := len(done) - 1; i >= 0; i-- {
		w := done[i]
		var err error
		if w.existed {
			err = s.kv.Put(ctx, w.key, w.prev)
		} else if !w.delete {
			err = s.kv.Delete(ctx, w.key)
		}
		if err != nil {
			s.logger.Error("revert write failed", zap.String("key", w.key), zap.Error(err))
		}
	}
}
