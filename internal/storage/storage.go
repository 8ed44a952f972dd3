// Package storage defines the persistence contracts used by the planner services.
package storage

import (
	"context"
	"errors"

	"planner/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup, including
	// records that exist but belong to a different owner.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an account with the same email exists.
	ErrDuplicateEmail = errors.New("email already registered")
)

// AccountStore holds registered accounts.
type AccountStore interface {
	// CreateAccount appends the account unless its email is taken. The check
	// and the insert are atomic.
	CreateAccount(ctx context.Context, a models.Account) (models.Account, error)
	AccountByEmail(ctx context.Context, email string) (models.Account, error)
	CountAccounts(ctx context.Context) (int, error)
}

// ProjectStore holds projects. Lookups and mutations are scoped by owner.
type ProjectStore interface {
	ListProjects(ctx context.Context, ownerID string) ([]models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	GetProject(ctx context.Context, ownerID, id string) (models.Project, error)
	UpdateProject(ctx context.Context, ownerID, id string, patch models.ProjectPatch) (models.Project, error)
	DeleteProject(ctx context.Context, ownerID, id string) error
	CountProjects(ctx context.Context) (int, error)
}

// TaskStore holds tasks. Lookups and mutations are scoped by owner.
type TaskStore interface {
	ListTasks(ctx context.Context, ownerID string) ([]models.Task, error)
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	GetTask(ctx context.Context, ownerID, id string) (models.Task, error)
	UpdateTask(ctx context.Context, ownerID, id string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, ownerID, id string) error
	CountTasks(ctx context.Context) (int, error)
}

// Store bundles every collection behind one handle.
type Store interface {
	AccountStore
	ProjectStore
	TaskStore
	Close() error
}
