package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/nodekeeper/internal/common"
	"github.com/dmitrijs2005/nodekeeper/internal/server/repositories/repomanager"
)

func newMockService(t *testing.T) (*ProfileService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	s := NewProfileService(db, &repomanager.PostgresRepositoryManager{})
	s.newID = func() string { return "fixed-id" }
	return s, mock
}

func TestProfileService_Mock_CreateCountErrorRollsBack(t *testing.T) {
	s, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM node_profiles`).WillReturnError(errors.New("conn reset"))
	mock.ExpectRollback()

	_, err := s.Create(context.Background(), req("A"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorDatabase))
	assert.Contains(t, err.Error(), "conn reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_Mock_CreateCommitsCountAndInsert(t *testing.T) {
	s, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM node_profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectExec(`INSERT INTO node_profiles`).
		WithArgs("fixed-id", "A", "http://127.0.0.1:18443", "rpc", "secret", "regtest", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := s.Create(context.Background(), req("A"))
	require.NoError(t, err)
	assert.False(t, p.IsActive)
	assert.Equal(t, "fixed-id", p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_Mock_CommitFailureIsDatabaseError(t *testing.T) {
	s, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM node_profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectExec(`INSERT INTO node_profiles`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("could not serialize access due to concurrent update"))

	_, err := s.Create(context.Background(), req("A"))
	assert.True(t, errors.Is(err, common.ErrorDatabase))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_Mock_ActivateUnknownWritesNothing(t *testing.T) {
	s, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err := s.Activate(context.Background(), "ghost")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
	// any UPDATE would have been an unexpected call
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_Mock_ActivateClearsThenSets(t *testing.T) {
	s, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("b").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`UPDATE node_profiles SET is_active = FALSE`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE node_profiles SET is_active = TRUE WHERE id = \$1`).WithArgs("b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Activate(context.Background(), "b"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_Mock_ActivateSetFailureRollsBack(t *testing.T) {
	s, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("b").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`UPDATE node_profiles SET is_active = FALSE`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE node_profiles SET is_active = TRUE`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.Activate(context.Background(), "b")
	assert.True(t, errors.Is(err, common.ErrorDatabase))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_Mock_DeleteExistsError(t *testing.T) {
	s, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errors.New("timeout"))
	mock.ExpectRollback()

	err := s.Delete(context.Background(), "a")
	assert.True(t, errors.Is(err, common.ErrorDatabase))
	assert.False(t, errors.Is(err, common.ErrorNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileService_Mock_BeginUsesSerializable(t *testing.T) {
	// sqlmock cannot observe isolation levels; assert what the service passes.
	m := &repomanager.PostgresRepositoryManager{}
	assert.Equal(t, sql.LevelSerializable, m.TxOptions().Isolation)

	s, mock := newMockService(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	err := s.Delete(context.Background(), "a")
	assert.True(t, errors.Is(err, common.ErrorDatabase))
	require.NoError(t, mock.ExpectationsWereMet())
}
