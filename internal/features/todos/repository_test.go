package todos

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xyz-asif/todoapi/pkg/errors"
)

var columns = []string{"id", "title", "description", "status", "priority", "due_date", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestPostgresRepository_Create(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()
	repo.newID = func() uuid.UUID { return id }
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO todo_items (id, title, description, priority, due_date)`)).
		WithArgs(id, "Buy milk", nil, 2, nil).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "Buy milk", nil, "pending", int64(2), nil, now, now))
	mock.ExpectCommit()

	todo, err := repo.Create(context.Background(), &CreateTodoRequest{Title: "Buy milk", Priority: intPtr(2)})
	require.NoError(t, err)

	assert.Equal(t, id, todo.ID)
	assert.Equal(t, StatusPending, todo.Status)
	assert.Equal(t, 2, todo.Priority)
	assert.Nil(t, todo.Description)
	assert.Nil(t, todo.DueDate)
	assert.Equal(t, todo.CreatedAt, todo.UpdatedAt)
}

func TestPostgresRepository_CreateRollsBackOnFailure(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO todo_items`).
		WillReturnError(errors.New(`new row violates check constraint "ck_priority"`))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &CreateTodoRequest{Title: "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Contains(t, err.Error(), "ck_priority")
}

func TestPostgresRepository_CreateBeginFails(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := repo.Create(context.Background(), &CreateTodoRequest{Title: "x"})

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Equal(t, "connection refused", apperrors.Classify(err).Detail)
}

func TestPostgresRepository_GetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()
	due := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM todo_items WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "Call mom", "Sunday", "in_progress", int64(5), due, created, created.Add(time.Hour)))

	todo, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, todo)

	require.NotNil(t, todo.Description)
	assert.Equal(t, "Sunday", *todo.Description)
	assert.Equal(t, StatusInProgress, todo.Status)
	require.NotNil(t, todo.DueDate)
	assert.True(t, due.Equal(*todo.DueDate))
	assert.True(t, todo.UpdatedAt.After(todo.CreatedAt))
}

func TestPostgresRepository_GetByIDAbsent(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM todo_items WHERE id`).WillReturnRows(sqlmock.NewRows(columns))

	todo, err := repo.GetByID(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Nil(t, todo)
}

func TestPostgresRepository_GetByIDError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM todo_items WHERE id`).WillReturnError(sql.ErrConnDone)

	_, err := repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestPostgresRepository_List(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`ORDER BY created_at, id\s+OFFSET \$1 LIMIT \$2`).
		WithArgs(2, 2).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.NewString(), "c", nil, "pending", int64(0), nil, now, now).
			AddRow(uuid.NewString(), "d", nil, "completed", int64(1), nil, now, now))

	todos, err := repo.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "c", todos[0].Title)
	assert.Equal(t, StatusCompleted, todos[1].Status)
}

func TestPostgresRepository_ListEmpty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM todo_items`).WithArgs(0, 100).WillReturnRows(sqlmock.NewRows(columns))

	todos, err := repo.List(context.Background(), 0, 100)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestPostgresRepository_ListRowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM todo_items`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.NewString(), "a", nil, "pending", int64(0), nil, now, now).
			RowError(0, errors.New("canceling statement due to user request")))

	_, err := repo.List(context.Background(), 0, 10)

	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}

func TestPostgresRepository_Update(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()
	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE todo_items SET status = $1, updated_at = clock_timestamp() WHERE id = $2 RETURNING`)).
		WithArgs("completed", id).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "Buy milk", nil, "completed", int64(2), nil, created, created.Add(time.Second)))
	mock.ExpectCommit()

	status := StatusCompleted
	todo, err := repo.Update(context.Background(), id, TodoPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, todo.Status)
	assert.Equal(t, "Buy milk", todo.Title)
}

func TestPostgresRepository_UpdateAbsent(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE todo_items`).WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectRollback()

	title := "x"
	todo, err := repo.Update(context.Background(), uuid.New(), TodoPatch{Title: &title})

	assert.NoError(t, err)
	assert.Nil(t, todo)
}

func TestPostgresRepository_Delete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM todo_items WHERE id = $1 FOR UPDATE`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM todo_items WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestPostgresRepository_DeleteAbsent(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	deleted, err := repo.Delete(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestPostgresRepository_DeleteExecFails(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectExec(`DELETE FROM todo_items`).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	deleted, err := repo.Delete(context.Background(), id)

	assert.False(t, deleted)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}

func TestBuildUpdate(t *testing.T) {
	id := uuid.New()
	title := "t"
	priority := 3
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	query, args := buildUpdate(id, TodoPatch{
		Title:       &title,
		Description: Null[string](),
		Priority:    &priority,
		DueDate:     Some(due),
	})

	assert.Equal(t,
		"UPDATE todo_items SET title = $1, description = $2, priority = $3, due_date = $4, updated_at = clock_timestamp() WHERE id = $5 RETURNING "+todoColumns,
		query)
	assert.Equal(t, []any{"t", sql.NullString{}, 3, sql.NullTime{Time: due, Valid: true}, id}, args)
}
