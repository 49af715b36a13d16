package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pota-logger/backend/internal/storage/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db))
	return db
}

func newQSO(sessionID, call, park, band string, ts time.Time) *models.QSO {
	return &models.QSO{
		HuntSessionID: sessionID,
		Callsign:      call,
		ParkReference: park,
		Frequency:     14.074,
		Band:          band,
		Mode:          "ft8",
		RSTSent:       "-10",
		RSTReceived:   "-12",
		Timestamp:     ts,
	}
}

func TestOpenSelectsDialect(t *testing.T) {
	db := newTestDB(t)
	assert.Equal(t, DialectSQLite, db.Dialect())
	assert.Equal(t, "SELECT * FROM x WHERE a = ? AND b = ?", db.Rebind("SELECT * FROM x WHERE a = ? AND b = ?"))

	pg := &DB{DB: sqlx.NewDb(nil, "postgres"), dialect: DialectPostgres}
	assert.Equal(t, "SELECT * FROM x WHERE a = $1 AND b = $2", pg.Rebind("SELECT * FROM x WHERE a = ? AND b = ?"))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, RunMigrations(db))
	pending, err := PendingMigrations(db)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestGetOrCreateByDateReturnsSameSession(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestDB(t))

	first, err := repo.GetOrCreateByDate(ctx, "2025-06-15")
	require.NoError(t, err)
	second, err := repo.GetOrCreateByDate(ctx, "2025-06-15")
	require.NoError(t, err)
	other, err := repo.GetOrCreateByDate(ctx, "2025-06-16")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.ID, other.ID)
	assert.True(t, IsValidID(first.ID))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGetOrCreateByDateConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestDB(t))

	const workers = 8
	ids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := repo.GetOrCreateByDate(ctx, "2025-06-15")
			errs[i] = err
			if s != nil {
				ids[i] = s.ID
			}
		}()
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestGetOrCreateByDateRejectsBadDate(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	_, err := repo.GetOrCreateByDate(context.Background(), "15/06/2025")
	assert.Error(t, err)
}

func TestGetTodayUsesUTCDate(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	s, err := repo.GetToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format(models.SessionDateLayout), s.SessionDate)
}

func TestGetByIDMissing(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	s, err := repo.GetByID(context.Background(), GenerateID())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestCreateQSONormalizes(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	session, err := NewSessionRepository(db).GetOrCreateByDate(ctx, "2025-06-15")
	require.NoError(t, err)

	repo := NewQSORepository(db)
	ts := time.Date(2025, 6, 15, 14, 30, 0, 0, time.FixedZone("EDT", -4*3600))
	q := newQSO(session.ID, " w1aw ", "k-0001", "20M", ts)
	require.NoError(t, repo.Create(ctx, q))

	got, err := repo.GetByID(ctx, session.ID, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "W1AW", got.Callsign)
	assert.Equal(t, "K-0001", got.ParkReference)
	assert.Equal(t, "20m", got.Band)
	assert.Equal(t, "FT8", got.Mode)
	assert.InDelta(t, 14.074, got.Frequency, 1e-9)
	assert.True(t, got.Timestamp.Equal(ts))
	assert.Equal(t, time.UTC, got.Timestamp.Location())
}

func TestCreateQSODefaultsTimestamp(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	session, err := NewSessionRepository(db).GetToday(ctx)
	require.NoError(t, err)

	q := newQSO(session.ID, "W1AW", "K-0001", "20m", time.Time{})
	require.NoError(t, NewQSORepository(db).Create(ctx, q))
	assert.WithinDuration(t, time.Now(), q.Timestamp, 5*time.Second)
}

func TestCreateQSORejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	sessions := NewSessionRepository(db)
	session, err := sessions.GetOrCreateByDate(ctx, "2025-06-15")
	require.NoError(t, err)

	repo := NewQSORepository(db)
	ts := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newQSO(session.ID, "W1AW", "K-0001", "20m", ts)))

	err = repo.Create(ctx, newQSO(session.ID, "w1aw", "k-0001", "20m", ts.Add(time.Minute)))
	var dup *DuplicateQSOError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Already logged W1AW at K-0001 on 20m", err.Error())

	// Different band, different park, and a different session are all allowed
	require.NoError(t, repo.Create(ctx, newQSO(session.ID, "W1AW", "K-0001", "40m", ts)))
	require.NoError(t, repo.Create(ctx, newQSO(session.ID, "W1AW", "K-0002", "20m", ts)))

	other, err := sessions.GetOrCreateByDate(ctx, "2025-06-16")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, newQSO(other.ID, "W1AW", "K-0001", "20m", ts)))

	qsos, err := repo.ListBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, qsos, 3)
}

func TestListBySessionOrdersByTimestamp(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	session, err := NewSessionRepository(db).GetOrCreateByDate(ctx, "2025-06-15")
	require.NoError(t, err)

	repo := NewQSORepository(db)
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newQSO(session.ID, "K3LR", "K-0002", "40m", base.Add(2*time.Hour))))
	require.NoError(t, repo.Create(ctx, newQSO(session.ID, "W1AW", "K-0001", "20m", base)))
	require.NoError(t, repo.Create(ctx, newQSO(session.ID, "N5J", "K-0003", "15m", base.Add(time.Hour))))

	qsos, err := repo.ListBySession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, qsos, 3)
	assert.Equal(t, "W1AW", qsos[0].Callsign)
	assert.Equal(t, "N5J", qsos[1].Callsign)
	assert.Equal(t, "K3LR", qsos[2].Callsign)

	byDate, err := repo.ListByDate(ctx, "2025-06-15")
	require.NoError(t, err)
	assert.Len(t, byDate, 3)

	none, err := repo.ListByDate(ctx, "2025-06-14")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteQSO(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	session, err := NewSessionRepository(db).GetOrCreateByDate(ctx, "2025-06-15")
	require.NoError(t, err)

	repo := NewQSORepository(db)
	q := newQSO(session.ID, "W1AW", "K-0001", "20m", time.Now())
	require.NoError(t, repo.Create(ctx, q))

	require.NoError(t, repo.Delete(ctx, session.ID, q.ID))
	assert.ErrorIs(t, repo.Delete(ctx, session.ID, q.ID), ErrNotFound)

	// The same contact can be logged again once deleted
	require.NoError(t, repo.Create(ctx, newQSO(session.ID, "W1AW", "K-0001", "20m", time.Now())))
}

func TestDeleteSessionRemovesContacts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	sessions := NewSessionRepository(db)
	qsos := NewQSORepository(db)

	session, err := sessions.GetOrCreateByDate(ctx, "2025-06-15")
	require.NoError(t, err)
	require.NoError(t, qsos.Create(ctx, newQSO(session.ID, "W1AW", "K-0001", "20m", time.Now())))
	require.NoError(t, qsos.Create(ctx, newQSO(session.ID, "K3LR", "K-0002", "40m", time.Now())))

	list, err := sessions.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].QSOCount)

	require.NoError(t, sessions.Delete(ctx, session.ID))
	assert.ErrorIs(t, sessions.Delete(ctx, session.ID), ErrNotFound)

	n, err := qsos.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteSessionHonoursCancelledContext(t *testing.T) {
	db := newTestDB(t)
	sessions := NewSessionRepository(db)

	session, err := sessions.GetOrCreateByDate(context.Background(), "2025-06-15")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sessions.Delete(ctx, session.ID), context.Canceled)

	got, err := sessions.GetByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "session survives a cancelled delete")
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	err := db.Transaction(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO hunt_sessions (id, session_date, created_at) VALUES (?, ?, ?)"),
			GenerateID(), "2025-06-15", time.Now().UTC())
		require.NoError(t, err)
		return ErrNotFound
	})
	require.ErrorIs(t, err, ErrNotFound)

	n, err := NewSessionRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListSessionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newTestDB(t))

	for _, d := range []string{"2025-06-14", "2025-06-16", "2025-06-15"} {
		_, err := repo.GetOrCreateByDate(ctx, d)
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2025-06-16", list[0].SessionDate)
	assert.Equal(t, "2025-06-15", list[1].SessionDate)
	assert.Equal(t, "2025-06-14", list[2].SessionDate)
}

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(newTestDB(t))

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, s.OperatorCallsign)
	assert.Equal(t, models.DefaultFlrigHost, s.FlrigHost)
	assert.Equal(t, models.DefaultFlrigPort, s.FlrigPort)

	again, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID, "settings is a singleton")

	update := &models.Settings{OperatorCallsign: "KD2ABC", FlrigHost: "shack.local", FlrigPort: 12346}
	require.NoError(t, repo.Update(ctx, update))
	assert.Equal(t, s.ID, update.ID)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "KD2ABC", got.OperatorCallsign)
	assert.Equal(t, "shack.local", got.FlrigHost)
	assert.Equal(t, 12346, got.FlrigPort)
}
