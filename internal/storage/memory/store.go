// Package memory keeps accounts, projects and tasks in process memory.
package memory

import (
	"context"
	"sync"

	"planner/internal/models"
	"planner/internal/storage"
)

// Store is a slice backed storage.Store. Collections keep insertion order.
type Store struct {
	mu       sync.RWMutex
	accounts []models.Account
	projects []models.Project
	tasks    []models.Task
}

var _ storage.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Close is a no-op; the data lives as long as the process.
func (s *Store) Close() error { return nil }

// CreateAccount appends a unless an account with the same email exists.
func (s *Store) CreateAccount(_ context.Context, a models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Email == a.Email {
			return models.Account{}, storage.ErrDuplicateEmail
		}
	}
	s.accounts = append(s.accounts, a)
	return a, nil
}

// AccountByEmail looks an account up by exact email.
func (s *Store) AccountByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return models.Account{}, storage.ErrNotFound
}

// CountAccounts returns the number of registered accounts.
func (s *Store) CountAccounts(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts), nil
}

// ListProjects returns the projects owned by ownerID.
func (s *Store) ListProjects(_ context.Context, ownerID string) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Project, 0)
	for _, p := range s.projects {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// CreateProject appends p.
func (s *Store) CreateProject(_ context.Context, p models.Project) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, p)
	return p, nil
}

// GetProject returns the project with id if ownerID owns it.
func (s *Store) GetProject(_ context.Context, ownerID, id string) (models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.projectIndex(ownerID, id)
	if i < 0 {
		return models.Project{}, storage.ErrNotFound
	}
	return s.projects[i], nil
}

// UpdateProject applies patch to the owned project with id.
func (s *Store) UpdateProject(_ context.Context, ownerID, id string, patch models.ProjectPatch) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.projectIndex(ownerID, id)
	if i < 0 {
		return models.Project{}, storage.ErrNotFound
	}
	patch.Apply(&s.projects[i])
	return s.projects[i], nil
}

// DeleteProject removes the owned project with id.
func (s *Store) DeleteProject(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.projectIndex(ownerID, id)
	if i < 0 {
		return storage.ErrNotFound
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	return nil
}

// CountProjects returns the number of projects across all owners.
func (s *Store) CountProjects(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects), nil
}

// ListTasks returns the tasks owned by ownerID.
func (s *Store) ListTasks(_ context.Context, ownerID string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0)
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

// CreateTask appends t.
func (s *Store) CreateTask(_ context.Context, t models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
	return t, nil
}

// GetTask returns the task with id if ownerID owns it.
func (s *Store) GetTask(_ context.Context, ownerID, id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.taskIndex(ownerID, id)
	if i < 0 {
		return models.Task{}, storage.ErrNotFound
	}
	return s.tasks[i], nil
}

// UpdateTask applies patch to the owned task with id.
func (s *Store) UpdateTask(_ context.Context, ownerID, id string, patch models.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(ownerID, id)
	if i < 0 {
		return models.Task{}, storage.ErrNotFound
	}
	patch.Apply(&s.tasks[i])
	return s.tasks[i], nil
}

// DeleteTask removes the owned task with id.
func (s *Store) DeleteTask(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(ownerID, id)
	if i < 0 {
		return storage.ErrNotFound
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// CountTasks returns the number of tasks across all owners.
func (s *Store) CountTasks(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks), nil
}

// callers hold s.mu.
func (s *Store) projectIndex(ownerID, id string) int {
	for i, p := range s.projects {
		if p.ID == id && p.OwnerID == ownerID {
			return i
		}
	}
	return -1
}

func (s *Store) taskIndex(ownerID, id string) int {
	for i, t := range s.tasks {
		if t.ID == id && t.OwnerID == ownerID {
			return i
		}
	}
	return -1
}
