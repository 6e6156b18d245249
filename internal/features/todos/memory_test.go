package todos

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepository is an in-process Repository for service and handler
// tests. Its clock advances one millisecond per write.
type memoryRepository struct {
	mu    sync.Mutex
	items map[uuid.UUID]Todo
	order []uuid.UUID
	clock time.Time
	err   error
	calls int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		items: make(map[uuid.UUID]Todo),
		clock: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Millisecond)
	return m.clock
}

func (m *memoryRepository) Create(_ context.Context, req *CreateTodoRequest) (*Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	now := m.tick()
	todo := Todo{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusPending,
		Priority:    req.PriorityOrDefault(),
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.items[todo.ID] = todo
	m.order = append(m.order, todo.ID)
	return &todo, nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	todo, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &todo, nil
}

func (m *memoryRepository) List(_ context.Context, skip, limit int) ([]Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	todos := []Todo{}
	for i := skip; i < len(m.order) && len(todos) < limit; i++ {
		todos = append(todos, m.items[m.order[i]])
	}
	return todos, nil
}

func (m *memoryRepository) Update(_ context.Context, id uuid.UUID, patch TodoPatch) (*Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	todo, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.Description.Set {
		todo.Description = patch.Description.Ptr()
	}
	if patch.Status != nil {
		todo.Status = *patch.Status
	}
	if patch.Priority != nil {
		todo.Priority = *patch.Priority
	}
	if patch.DueDate.Set {
		todo.DueDate = patch.DueDate.Ptr()
	}
	todo.UpdatedAt = m.tick()

	m.items[id] = todo
	return &todo, nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return false, m.err
	}

	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *memoryRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

var _ Repository = (*memoryRepository)(nil)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
