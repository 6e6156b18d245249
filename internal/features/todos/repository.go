package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xyz-asif/todoapi/internal/database"
	apperrors "github.com/xyz-asif/todoapi/pkg/errors"
)

// Repository is the only component that talks to the store. Absent rows are
// reported as (nil, nil) or false, never as errors. Store failures come back
// as database errors.
type Repository interface {
	Create(ctx context.Context, req *CreateTodoRequest) (*Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Todo, error)
	List(ctx context.Context, skip, limit int) ([]Todo, error)
	Update(ctx context.Context, id uuid.UUID, patch TodoPatch) (*Todo, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

const todoColumns = `id, title, description, status, priority, due_date, created_at, updated_at`

type PostgresRepository struct {
	db    database.DBTX
	newID func() uuid.UUID
}

func NewPostgresRepository(db database.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, newID: uuid.New}
}

func (r *PostgresRepository) Create(ctx context.Context, req *CreateTodoRequest) (*Todo, error) {
	query := `INSERT INTO todo_items (id, title, description, priority, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + todoColumns

	var todo *Todo
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, query,
			r.newID(), req.Title, nullString(req.Description), req.PriorityOrDefault(), nullTime(req.DueDate))

		var err error
		todo, err = scanTodo(row)
		return err
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return todo, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todo_items WHERE id = $1`

	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Database(err)
	}

	return todo, nil
}

func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todo_items
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	defer rows.Close()

	todos := []Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Database(err)
	}

	return todos, nil
}

// Update applies only the columns present in patch and refreshes updated_at
// in the same statement.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, patch TodoPatch) (*Todo, error) {
	query, args := buildUpdate(id, patch)

	var todo *Todo
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		todo, err = scanTodo(tx.QueryRowContext(ctx, query, args...))
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Database(err)
	}

	return todo, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var found uuid.UUID
		err := tx.QueryRowContext(ctx, `SELECT id FROM todo_items WHERE id = $1 FOR UPDATE`, id).Scan(&found)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM todo_items WHERE id = $1`, id)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.Database(err)
	}

	return true, nil
}

// withTx runs fn in a transaction. It commits when fn succeeds and rolls back
// otherwise, returning fn's error untouched so callers can tell an absent
// row from a store failure.
func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func buildUpdate(id uuid.UUID, patch TodoPatch) (string, []any) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 6)

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description.Set {
		set("description", nullString(patch.Description.Ptr()))
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Priority != nil {
		set("priority", *patch.Priority)
	}
	if patch.DueDate.Set {
		set("due_date", nullTime(patch.DueDate.Ptr()))
	}
	sets = append(sets, "updated_at = clock_timestamp()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE todo_items SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), todoColumns)

	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*Todo, error) {
	var (
		todo        Todo
		status      string
		description sql.NullString
		dueDate     sql.NullTime
	)

	err := row.Scan(&todo.ID, &todo.Title, &description, &status, &todo.Priority, &dueDate, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return nil, err
	}

	todo.Status = Status(status)
	if description.Valid {
		todo.Description = &description.String
	}
	if dueDate.Valid {
		todo.DueDate = &dueDate.Time
	}

	return &todo, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
