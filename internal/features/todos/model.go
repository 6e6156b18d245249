// ================== internal/features/todos/model.go ==================
package todos

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 5000
	MinPriority          = 0
	MaxPriority          = 5

	DefaultListLimit = 100
)

// Todo represents a todo item
// @Description Todo item with all its properties
type Todo struct {
	ID          uuid.UUID  `json:"id" example:"3f0c1d9e-8a4b-4e55-9d2b-6f0f3c1a2b7d"`
	Title       string     `json:"title" example:"Buy milk"`
	Description *string    `json:"description" example:"Two litres, semi-skimmed"`
	Status      Status     `json:"status" example:"pending" enums:"pending,in_progress,completed"`
	Priority    int        `json:"priority" example:"2" minimum:"0" maximum:"5"`
	DueDate     *time.Time `json:"due_date" example:"2026-12-31T23:59:59Z"`
	CreatedAt   time.Time  `json:"created_at" example:"2026-01-01T00:00:00Z"`
	UpdatedAt   time.Time  `json:"updated_at" example:"2026-01-01T00:00:00Z"`
}

// CreateTodoRequest represents todo creation data
// @Description Data required to create a new todo. Status, id and timestamps are assigned by the server.
type CreateTodoRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=255" example:"Buy milk"`
	Description *string    `json:"description" binding:"omitempty,max=5000" example:"Two litres, semi-skimmed"`
	Priority    *int       `json:"priority" binding:"omitempty,min=0,max=5" example:"2"`
	DueDate     *time.Time `json:"due_date" example:"2026-12-31T23:59:59Z"`
}

// PriorityOrDefault returns the requested priority, or 0 when omitted.
func (r *CreateTodoRequest) PriorityOrDefault() int {
	if r.Priority == nil {
		return MinPriority
	}
	return *r.Priority
}

// UpdateTodoRequest represents todo update data. Only fields present in the
// body are applied; an explicit null clears description and due_date.
// @Description Any subset of the todo fields
type UpdateTodoRequest struct {
	Title       Optional[string]    `json:"title" swaggertype:"string" example:"Buy oat milk"`
	Description Optional[string]    `json:"description" swaggertype:"string" example:"One litre"`
	Status      Optional[Status]    `json:"status" swaggertype:"string" enums:"pending,in_progress,completed" example:"completed"`
	Priority    Optional[int]       `json:"priority" swaggertype:"integer" example:"3"`
	DueDate     Optional[time.Time] `json:"due_date" swaggertype:"string" example:"2026-12-31T23:59:59Z"`
}

// Patch converts a validated request into the columns an update touches.
func (r *UpdateTodoRequest) Patch() TodoPatch {
	return TodoPatch{
		Title:       r.Title.Ptr(),
		Description: r.Description,
		Status:      r.Status.Ptr(),
		Priority:    r.Priority.Ptr(),
		DueDate:     r.DueDate,
	}
}

// TodoPatch is a partial update. Nil pointers and unset optionals leave the
// stored value untouched.
type TodoPatch struct {
	Title       *string
	Description Optional[string]
	Status      *Status
	Priority    *int
	DueDate     Optional[time.Time]
}

func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil &&
		!p.Description.Set &&
		p.Status == nil &&
		p.Priority == nil &&
		!p.DueDate.Set
}

// ListQuery holds the pagination parameters of GET /todos.
type ListQuery struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=0"`
}

// Optional records whether a JSON field was present at all (Set) and, if so,
// whether it carried a non-null value (Valid).
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null returns a present Optional holding null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns the value, or nil when unset or null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
