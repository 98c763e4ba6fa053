package kvstore_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/lead-funnel/internal/infra/kvstore"
)

func newMockStore(t *testing.T) (*kvstore.PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return kvstore.NewPostgresStore(db), mock
}

func TestPostgresStoreSet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_store (key, value)")).
		WithArgs("lead_1", `{"id":"lead_1","name":"Ana"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Set(context.Background(), "lead_1", doc{ID: "lead_1", Name: "Ana"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSetFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_store")).
		WillReturnError(errors.New("connection reset"))

	err := store.Set(context.Background(), "lead_1", doc{ID: "lead_1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres set lead_1")
}

func TestPostgresStoreGet(t *testing.T) {
	store, mock := newMockStore(t)
	query := regexp.QuoteMeta("SELECT value FROM kv_store WHERE key = $1")

	mock.ExpectQuery(query).WithArgs("lead_1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"id":"lead_1","name":"Ana"}`)))
	mock.ExpectQuery(query).WithArgs("lead_2").
		WillReturnError(sql.ErrNoRows)

	var d doc
	require.NoError(t, store.Get(context.Background(), "lead_1", &d))
	assert.Equal(t, "Ana", d.Name)

	err := store.Get(context.Background(), "lead_2", &d)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetByPrefixEscapesWildcards(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store WHERE key LIKE $1")).
		WithArgs(`lead\_%`).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).
			AddRow([]byte(`{"id":"lead_1"}`)).
			AddRow([]byte(`{"id":"lead_2"}`)))

	raws, err := store.GetByPrefix(context.Background(), "lead_")
	require.NoError(t, err)
	assert.Len(t, raws, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDelete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_store WHERE key = $1")).
		WithArgs("lead_404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.Delete(context.Background(), "lead_404"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
