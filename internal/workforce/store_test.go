package workforce_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go-thread/internal/domain"
	"go-thread/internal/storage"
	"go-thread/internal/storage/memory"
	"go-thread/internal/workforce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyKV fails Put for keys containing failOn.
type flakyKV struct {
	*memory.Store
	failOn string
}

func (f *flakyKV) Put(ctx context.Context, key string, value []byte) error {
	if f.failOn != "" && strings.Contains(key, f.failOn) {
		return errors.New("disk full")
	}
	return f.Store.Put(ctx, key, value)
}

func sampleUser(id, company string) domain.User {
	return domain.User{
		ID:          id,
		EmployeeID:  "AC" + id,
		CompanyID:   company,
		CompanyName: "Acme Corp",
		Name:        "User " + id,
		Email:       id + "@employee.com",
		Phone:       "9876543210",
		Role:        domain.RoleEmployee,
		Salary:      domain.DeriveSalary(50000, domain.WageMonthly),
		JoiningYear: 2024,
		Status:      domain.PresenceAbsent,
	}
}

func openStore(t *testing.T, kv storage.Store) *workforce.Store {
	t.Helper()
	s, err := workforce.Open(context.Background(), kv)
	require.NoError(t, err)
	return s
}

func commitUsers(t *testing.T, s *workforce.Store, users ...domain.User) {
	t.Helper()
	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	defer tx.Rollback()
	for _, u := range users {
		require.NoError(t, tx.PutUser(u))
	}
	require.NoError(t, tx.Commit())
}

func TestStore_CommitPersistsPerRecord(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := openStore(t, kv)

	commitUsers(t, s, sampleUser("u2", "acme-corp"), sampleUser("u1", "acme-corp"))

	raw, err := kv.Get(ctx, "thread/v1/users/u1")
	require.NoError(t, err)
	var env struct {
		SchemaVersion int         `json:"schema_version"`
		Seq           uint64      `json:"seq"`
		Data          domain.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, workforce.SchemaVersion, env.SchemaVersion)
	assert.Equal(t, uint64(2), env.Seq)
	assert.Equal(t, "u1", env.Data.ID)

	meta, err := kv.Get(ctx, "thread/v1/meta")
	require.NoError(t, err)
	assert.JSONEq(t, `{"schema_version":1}`, string(meta))

	reopened := openStore(t, kv)
	snap, err := reopened.Export(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Users, 2)
	assert.Equal(t, "u2", snap.Users[0].ID, "insertion order survives reload")
	assert.Equal(t, "u1", snap.Users[1].ID)
}

func TestStore_UpdateKeepsSequence(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := openStore(t, kv)
	commitUsers(t, s, sampleUser("a", "acme-corp"), sampleUser("b", "acme-corp"))

	a := sampleUser("a", "acme-corp")
	a.Phone = "1111111111"
	commitUsers(t, s, a)

	snap, err := openStore(t, kv).Export(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Users, 2)
	assert.Equal(t, "a", snap.Users[0].ID)
	assert.Equal(t, "1111111111", snap.Users[0].Phone)
}

func TestTx_ReadsOwnWritesAndRollback(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, memory.New())

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.PutUser(sampleUser("u1", "acme-corp")))

	_, ok := tx.User("u1")
	assert.True(t, ok)
	assert.Len(t, tx.Users(), 1)
	require.NoError(t, tx.Rollback())

	err = s.Read(ctx, func(tx *workforce.Tx) error {
		_, ok := tx.User("u1")
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestTx_ReadOnlyRejectsWrites(t *testing.T) {
	s := openStore(t, memory.New())
	err := s.Read(context.Background(), func(tx *workforce.Tx) error {
		return tx.PutUser(sampleUser("u1", "acme-corp"))
	})
	assert.ErrorIs(t, err, workforce.ErrReadOnly)
}

func TestTx_CommitTwice(t *testing.T) {
	s := openStore(t, memory.New())
	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.ErrorIs(t, tx.Commit(), workforce.ErrTxDone)
	assert.NoError(t, tx.Rollback())
}

func TestTx_CommitFailureLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{Store: memory.New()}
	s := openStore(t, kv)
	commitUsers(t, s, sampleUser("u1", "acme-corp"))

	kv.failOn = "attendance/"
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	u := sampleUser("u1", "acme-corp")
	u.Status = domain.PresencePresent
	require.NoError(t, tx.PutUser(u))
	require.NoError(t, tx.PutAttendance(domain.AttendanceRecord{ID: "r1", UserID: "u1", CompanyID: "acme-corp"}))
	assert.Error(t, tx.Commit())

	err = s.Read(ctx, func(tx *workforce.Tx) error {
		got, _ := tx.User("u1")
		assert.Equal(t, domain.PresenceAbsent, got.Status)
		assert.Empty(t, tx.AttendanceRecords())
		return nil
	})
	require.NoError(t, err)

	kv.failOn = ""
	snap, err := openStore(t, kv).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PresenceAbsent, snap.Users[0].Status, "reverted on disk")
}

func TestStore_CurrentUserRefreshedOnUpdate(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := openStore(t, kv)
	commitUsers(t, s, sampleUser("u1", "acme-corp"))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetCurrentUser("u1"))
	require.NoError(t, tx.Commit())

	u := sampleUser("u1", "acme-corp")
	u.About = "updated"
	commitUsers(t, s, u)

	reopened := openStore(t, kv)
	cur, ok := reopened.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, "updated", cur.About)

	tx, err = reopened.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetCurrentUser(""))
	require.NoError(t, tx.Commit())

	_, err = kv.Get(ctx, "thread/v1/current_user")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, ok = openStore(t, kv).CurrentUser(ctx)
	assert.False(t, ok)
}

func TestTx_SetCurrentUserUnknown(t *testing.T) {
	s := openStore(t, memory.New())
	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	defer tx.Rollback()
	assert.Error(t, tx.SetCurrentUser("ghost"))
}

func TestOpen_SkipsUnreadableRecords(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := openStore(t, kv)
	commitUsers(t, s, sampleUser("u1", "acme-corp"))

	require.NoError(t, kv.Put(ctx, "thread/v1/users/broken", []byte("{not json")))
	require.NoError(t, kv.Put(ctx, "thread/v1/users/other", []byte(`{"schema_version":1,"seq":9,"data":{"id":"mismatch"}}`)))

	snap, err := openStore(t, kv).Export(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "u1", snap.Users[0].ID)
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Put(ctx, "thread/v1/meta", []byte(`{"schema_version":99}`)))

	_, err := workforce.Open(ctx, kv)
	assert.ErrorIs(t, err, workforce.ErrUnsupportedSchema)
}

func TestOpen_MigratesLegacyLayout(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	users := []domain.User{sampleUser("u1", "acme-corp"), sampleUser("u2", "acme-corp")}
	usersJSON, err := json.Marshal(users)
	require.NoError(t, err)
	currentJSON, err := json.Marshal(users[1])
	require.NoError(t, err)

	require.NoError(t, kv.Put(ctx, "users", usersJSON))
	require.NoError(t, kv.Put(ctx, "attendance", []byte("garbage")))
	require.NoError(t, kv.Put(ctx, "leaves", []byte(`[{"id":"l1","userId":"u1","companyId":"acme-corp","type":"Paid Time Off","startDate":"2024-05-01","endDate":"2024-05-02","reason":"trip","status":"PENDING"}]`)))
	require.NoError(t, kv.Put(ctx, "current_user", currentJSON))

	s := openStore(t, kv)
	snap, err := s.Export(ctx)
	require.NoError(t, err)

	assert.Equal(t, users, snap.Users)
	assert.Empty(t, snap.Attendance, "unparseable key defaults to empty")
	require.Len(t, snap.Leaves, 1)
	assert.Equal(t, domain.LeavePTO, snap.Leaves[0].Type)
	require.NotNil(t, snap.CurrentUser)
	assert.Equal(t, "u2", snap.CurrentUser.ID)

	for _, key := range workforce.LegacyKeys {
		_, err := kv.Get(ctx, key)
		assert.ErrorIs(t, err, storage.ErrNotFound, key)
	}
	_, err = kv.Get(ctx, "thread/v1/meta")
	assert.NoError(t, err)
}

func TestSnapshot_LegacyRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, memory.New())

	u1 := sampleUser("u1", "acme-corp")
	u1.Password = "$2a$10$hash"
	u1.IsFirstLogin = true
	u1.Salary.ExtraWages = 1500
	u2 := sampleUser("u2", "globex")

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.PutUser(u1))
	require.NoError(t, tx.PutUser(u2))
	require.NoError(t, tx.PutAttendance(domain.AttendanceRecord{
		ID: "a1", UserID: "u1", UserName: u1.Name, CompanyID: "acme-corp", Date: "2024-05-01",
		CheckIn: "09:00 AM", CheckOut: "06:30 PM", WorkHours: 8, ExtraHours: 1.5, Status: domain.PresencePresent,
	}))
	require.NoError(t, tx.PutLeave(domain.LeaveRequest{
		ID: "l1", UserID: "u1", UserName: u1.Name, CompanyID: "acme-corp", Type: domain.LeaveSick,
		StartDate: "2024-05-02", EndDate: "2024-05-03", Reason: "flu", Status: domain.LeaveApproved, AdminRemarks: "get well",
	}))
	require.NoError(t, tx.SetCurrentUser("u1"))
	require.NoError(t, tx.Commit())

	before, err := s.Export(ctx)
	require.NoError(t, err)

	entries, err := before.LegacyEntries()
	require.NoError(t, err)
	after := workforce.DecodeLegacy(entries, nil)

	assert.Equal(t, before.Users, after.Users)
	assert.Equal(t, before.Attendance, after.Attendance)
	assert.Equal(t, before.Leaves, after.Leaves)
	assert.Equal(t, before.CurrentUser, after.CurrentUser)

	kv := memory.New()
	target := openStore(t, kv)
	require.NoError(t, target.Import(ctx, after))
	reloaded, err := openStore(t, kv).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, reloaded)
}

func TestImport_ReplacesExistingRecords(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := openStore(t, kv)
	commitUsers(t, s, sampleUser("old", "acme-corp"))

	require.NoError(t, s.Import(ctx, workforce.Snapshot{Users: []domain.User{sampleUser("new", "acme-corp")}}))

	_, err := kv.Get(ctx, "thread/v1/users/old")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	snap, err := openStore(t, kv).Export(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "new", snap.Users[0].ID)
}

func TestImport_RejectsDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := openStore(t, kv)
	commitUsers(t, s, sampleUser("old", "acme-corp"))

	err := s.Import(ctx, workforce.Snapshot{
		Users: []domain.User{sampleUser("new", "acme-corp"), sampleUser("new", "acme-corp")},
	})
	assert.ErrorIs(t, err, workforce.ErrDuplicateRecord)

	_, err = kv.Get(ctx, "thread/v1/users/new")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	snap, err := openStore(t, kv).Export(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "old", snap.Users[0].ID)
}

func TestImport_RejectsRecordWithoutID(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := openStore(t, kv)
	commitUsers(t, s, sampleUser("old", "acme-corp"))

	err := s.Import(ctx, workforce.Snapshot{
		Users:  []domain.User{sampleUser("new", "acme-corp")},
		Leaves: []domain.LeaveRequest{{UserID: "new", CompanyID: "acme-corp"}},
	})
	assert.ErrorIs(t, err, workforce.ErrRecordWithoutID)

	snap, err := openStore(t, kv).Export(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "old", snap.Users[0].ID)
}

func TestImport_StorageFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{Store: memory.New()}
	s := openStore(t, kv)
	commitUsers(t, s, sampleUser("old", "acme-corp"))
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SetCurrentUser("old"))
	require.NoError(t, tx.Commit())

	kv.failOn = "leaves/"
	err = s.Import(ctx, workforce.Snapshot{
		Users:  []domain.User{sampleUser("new", "acme-corp")},
		Leaves: []domain.LeaveRequest{{ID: "l1", UserID: "new", CompanyID: "acme-corp"}},
	})
	assert.Error(t, err)

	before, err := s.Export(ctx)
	require.NoError(t, err)
	require.Len(t, before.Users, 1)
	assert.Equal(t, "old", before.Users[0].ID)

	kv.failOn = ""
	reloaded, err := openStore(t, kv).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, reloaded)
}

func TestOpen_MigrationSkipsRecordsWithoutID(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	u1 := sampleUser("u1", "acme-corp")
	usersJSON, err := json.Marshal([]domain.User{u1, sampleUser("", "acme-corp"), u1})
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, "users", usersJSON))

	snap, err := openStore(t, kv).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.User{u1}, snap.Users)
}
