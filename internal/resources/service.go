// Package resources implements owner scoped CRUD over projects and tasks.
package resources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"planner/internal/models"
	"planner/internal/storage"
)

var (
	// ErrProjectNotFound covers both missing projects and projects owned by someone else.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTaskNotFound covers both missing tasks and tasks owned by someone else.
	ErrTaskNotFound = errors.New("task not found")
)

// IDSource hands out identifiers for new records.
type IDSource interface {
	Next() string
}

// Store is the persistence the service needs.
type Store interface {
	storage.ProjectStore
	storage.TaskStore
}

// Service exposes the project and task operations of a single caller.
type Service struct {
	store  Store
	ids    IDSource
	now    func() time.Time
	logger *slog.Logger
}

// NewService wires the resource service.
func NewService(store Store, ids IDSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, ids: ids, now: time.Now, logger: logger}
}

// ListProjects returns the caller's projects in creation order.
func (s *Service) ListProjects(ctx context.Context, callerID string) ([]models.Project, error) {
	projects, err := s.store.ListProjects(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// CreateProject stores a new active project owned by the caller.
func (s *Service) CreateProject(ctx context.Context, callerID string, in models.NewProject) (models.Project, error) {
	if err := in.Validate(); err != nil {
		return models.Project{}, err
	}

	p, err := s.store.CreateProject(ctx, models.Project{
		ID:          s.ids.Next(),
		Name:        in.Name,
		Description: in.Description,
		Deadline:    in.Deadline,
		Status:      models.ProjectStatusActive,
		OwnerID:     callerID,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}
	s.logger.Debug("project created", slog.String("project_id", p.ID), slog.String("owner_id", callerID))
	return p, nil
}

// UpdateProject applies the allow-listed fields of patch to a project the caller owns.
func (s *Service) UpdateProject(ctx context.Context, callerID, id string, patch models.ProjectPatch) (models.Project, error) {
	if err := s.AuthorizeProject(ctx, callerID, id); err != nil {
		return models.Project{}, err
	}

	p, err := s.store.UpdateProject(ctx, callerID, id, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Project{}, ErrProjectNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// DeleteProject removes a project the caller owns. Tasks pointing at it are kept.
func (s *Service) DeleteProject(ctx context.Context, callerID, id string) error {
	if err := s.AuthorizeProject(ctx, callerID, id); err != nil {
		return err
	}

	err := s.store.DeleteProject(ctx, callerID, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// AuthorizeProject succeeds only when the caller owns project id. Missing
// and foreign projects are reported the same way.
func (s *Service) AuthorizeProject(ctx context.Context, callerID, id string) error {
	_, err := s.store.GetProject(ctx, callerID, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("get project: %w", err)
	}
	return nil
}

// ListTasks returns the caller's tasks in creation order.
func (s *Service) ListTasks(ctx context.Context, callerID string) ([]models.Task, error) {
	tasks, err := s.store.ListTasks(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask stores a new pending task owned by the caller. The project
// reference is not checked.
func (s *Service) CreateTask(ctx context.Context, callerID string, in models.NewTask) (models.Task, error) {
	if err := in.Validate(); err != nil {
		return models.Task{}, err
	}

	t, err := s.store.CreateTask(ctx, models.Task{
		ID:          s.ids.Next(),
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Status:      models.TaskStatusPending,
		OwnerID:     callerID,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.logger.Debug("task created", slog.String("task_id", t.ID), slog.String("owner_id", callerID))
	return t, nil
}

// UpdateTask applies the allow-listed fields of patch to a task the caller owns.
func (s *Service) UpdateTask(ctx context.Context, callerID, id string, patch models.TaskPatch) (models.Task, error) {
	if err := s.AuthorizeTask(ctx, callerID, id); err != nil {
		return models.Task{}, err
	}

	t, err := s.store.UpdateTask(ctx, callerID, id, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// DeleteTask removes a task the caller owns.
func (s *Service) DeleteTask(ctx context.Context, callerID, id string) error {
	if err := s.AuthorizeTask(ctx, callerID, id); err != nil {
		return err
	}

	err := s.store.DeleteTask(ctx, callerID, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// AuthorizeTask is the task counterpart of AuthorizeProject.
func (s *Service) AuthorizeTask(ctx context.Context, callerID, id string) error {
	_, err := s.store.GetTask(ctx, callerID, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	return nil
}
