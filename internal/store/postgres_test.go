package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/cabplanner/internal/logging"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// newMockStore returns a store attached to a sqlmock handle that speaks the
// pgx bind style, so queries are checked the way PostgreSQL sees them.
func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mockDB.Close()
	})
	s := &Store{
		attached: true,
		config:   types.Config{Backend: types.BackendPostgres, DSN: "postgres://mock"},
		db:       sqlx.NewDb(mockDB, "pgx"),
		log:      logging.Nop(),
	}
	return s, mock
}

const mockTime = "2026-03-01T10:00:00.000000Z"

func TestPostgresGetProject(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "kitchen_type", "order_number", "status", "client_name",
		"client_address", "client_phone", "client_email", "blaty", "cokoly", "uwagi", "flag_notes",
		"created_at", "updated_at"}).
		AddRow("p-1", "Kowalski", "LOFT", "Z-1", "draft", "Jan", "", "", "", true, false, false, "", mockTime, mockTime)
	mock.ExpectQuery(`(?s)SELECT .+ FROM projects WHERE id = \$1`).WithArgs("p-1").WillReturnRows(rows)

	p, err := s.GetProject(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Kowalski", p.Name)
	assert.True(t, p.Blaty)
	assert.Equal(t, 2026, p.CreatedAt.Year())
}

func TestPostgresGetProjectNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`(?s)SELECT .+ FROM projects WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetProject(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPostgresDeleteProjectCommits(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM cabinets WHERE project_id = \$1`).WithArgs("p-1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM projects WHERE id = \$1`).WithArgs("p-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteProject(context.Background(), "p-1"))
}

func TestPostgresDeleteProjectRollsBackWhenMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM cabinets WHERE project_id = \$1`).WithArgs("p-9").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM projects WHERE id = \$1`).WithArgs("p-9").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, s.DeleteProject(context.Background(), "p-9"), types.ErrNotFound)
}

func TestPostgresDeleteProjectRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM cabinets WHERE project_id = \$1`).WithArgs("p-1").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := s.DeleteProject(context.Background(), "p-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresLinkAccessoryUpserts(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`(?s)INSERT INTO cabinet_accessories .+ VALUES \(\$1, \$2, \$3\).+ON CONFLICT \(cabinet_id, accessory_id\) DO UPDATE`).
		WithArgs("c-1", "a-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.LinkAccessory(context.Background(), "c-1", "a-1", 2))
}

func TestPostgresListCabinetTypesByKitchen(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"id", "number", "kitchen_type", "name", "created_at", "updated_at"}).
		AddRow("t-1", 4, "PARIS", "D60", mockTime, mockTime).
		AddRow("t-2", 9, "PARIS", "G40", mockTime, mockTime)
	mock.ExpectQuery(`(?s)SELECT .+ FROM cabinet_types WHERE kitchen_type = \$1 ORDER BY name`).
		WithArgs("PARIS").
		WillReturnRows(rows)

	list, err := s.ListCabinetTypes(context.Background(), "PARIS")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 9, list[1].Number)
}

func TestPostgresMaxSequenceEmptyProject(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT MAX\(sequence_number\) FROM cabinets WHERE project_id = \$1`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	n, err := s.MaxSequence(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
