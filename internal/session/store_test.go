package session

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniport/uniport-portal/internal/models"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	store := NewWithDB(sqlx.NewDb(db, "sqlite3"))
	t.Cleanup(func() { _ = store.Close() })
	return store, mock
}

func TestSaveLoginWritesBothKeys(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO session").
		WithArgs(keyUserID, "42").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO session").
		WithArgs(keyToken, "tok-abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.SaveLogin(42, "tok-abc"))
	require.NoError(t, mock.ExpectationsWereMet())

	sess, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, 42, sess.UserID)
	assert.Equal(t, "tok-abc", sess.Token)
}

func TestSaveLoginRollsBackOnFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO session").
		WithArgs(keyUserID, "42").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := store.SaveLogin(42, "tok-abc")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCurrentReadsPersistedSession(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT key, value FROM session").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow(keyUserID, "42").
			AddRow(keyToken, "tok-abc"))

	sess, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, 42, sess.UserID)
	assert.Equal(t, "tok-abc", sess.Token)
	require.NoError(t, mock.ExpectationsWereMet())

	// Second call is served from memory, no further query expected.
	again, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, sess, again)
}

func TestCurrentWithoutLoginReturnsErrNoSession(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT key, value FROM session").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

	_, err := store.Current()
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNoSession))
}

func TestCurrentRejectsCorruptUserID(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT key, value FROM session").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow(keyUserID, "not-a-number").
			AddRow(keyToken, "tok-abc"))

	_, err := store.Current()
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNoSession))
}

func TestClearForgetsSession(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO session").WithArgs(keyUserID, "42").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO session").WithArgs(keyToken, "tok").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, store.SaveLogin(42, "tok"))

	mock.ExpectExec("DELETE FROM session").WillReturnResult(sqlmock.NewResult(0, 2))
	require.NoError(t, store.Clear())

	mock.ExpectQuery("SELECT key, value FROM session").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))
	_, err := store.Current()
	assert.True(t, appErrors.Is(err, appErrors.ErrNoSession))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenFallsBackToEmptyString(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT key, value FROM session").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

	assert.Empty(t, store.Token())
}

func TestCatalogCacheRoundTrip(t *testing.T) {
	store, mock := newMockStore(t)

	sections := []models.Section{{ScheduleID: 7, SubjectCode: "MATH101", Units: 3}}

	mock.ExpectExec("INSERT INTO catalog_cache").
		WithArgs("math", 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.CacheCatalogPage("math", 1, sections))

	payload := `[{"schedId":7,"subject_code":"MATH101","units":3}]`
	mock.ExpectQuery("SELECT payload, fetched_at FROM catalog_cache").
		WithArgs("math", 1).
		WillReturnRows(sqlmock.NewRows([]string{"payload", "fetched_at"}).
			AddRow(payload, time.Now().UTC()))

	cached, ok := store.CachedCatalogPage("math", 1, time.Hour)
	require.True(t, ok)
	require.Len(t, cached, 1)
	assert.Equal(t, 7, cached[0].ScheduleID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogCacheExpiredPageIsIgnored(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT payload, fetched_at FROM catalog_cache").
		WithArgs("math", 1).
		WillReturnRows(sqlmock.NewRows([]string{"payload", "fetched_at"}).
			AddRow("[]", time.Now().UTC().Add(-2*time.Hour)))

	_, ok := store.CachedCatalogPage("math", 1, time.Hour)
	assert.False(t, ok)
}
