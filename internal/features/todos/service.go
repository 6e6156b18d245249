package todos

import (
	"context"

	"github.com/google/uuid"

	"github.com/xyz-asif/todoapi/internal/logging"
	apperrors "github.com/xyz-asif/todoapi/pkg/errors"
)

// Service turns the repository's absent signals into not-found errors.
// Database errors pass through untouched.
type Service struct {
	repo   Repository
	logger logging.Logger
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With("component", "todos"),
	}
}

func (s *Service) Create(ctx context.Context, req *CreateTodoRequest) (*Todo, error) {
	todo, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Todo item created", "id", todo.ID)
	return todo, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Todo, error) {
	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, apperrors.TodoNotFound()
	}

	s.logger.Debug(ctx, "Todo item found", "id", id)
	return todo, nil
}

func (s *Service) List(ctx context.Context, skip, limit int) ([]Todo, error) {
	todos, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "Todo items listed", "count", len(todos), "skip", skip, "limit", limit)
	return todos, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch TodoPatch) (*Todo, error) {
	todo, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, apperrors.TodoNotFound()
	}

	s.logger.Info(ctx, "Todo item updated", "id", id)
	return todo, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.TodoNotFound()
	}

	s.logger.Info(ctx, "Todo item deleted", "id", id)
	return nil
}
