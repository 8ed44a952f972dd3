package analytics

import (
	"context"
	"fmt"

	"planner/internal/models"
	"planner/internal/storage"
)

// Store is what the aggregator reads from.
type Store interface {
	CountAccounts(ctx context.Context) (int, error)
	CountProjects(ctx context.Context) (int, error)
	CountTasks(ctx context.Context) (int, error)
	ListTasks(ctx context.Context, ownerID string) ([]models.Task, error)
}

var _ Store = (storage.Store)(nil)

// Aggregator derives counts from the stored records.
type Aggregator struct {
	store Store
}

// New returns an aggregator over store.
func New(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Global counts every account, project and task regardless of owner.
func (a *Aggregator) Global(ctx context.Context) (models.GlobalStats, error) {
	var (
		stats models.GlobalStats
		err   error
	)
	if stats.TotalUsers, err = a.store.CountAccounts(ctx); err != nil {
		return models.GlobalStats{}, fmt.Errorf("count accounts: %w", err)
	}
	if stats.TotalProjects, err = a.store.CountProjects(ctx); err != nil {
		return models.GlobalStats{}, fmt.Errorf("count projects: %w", err)
	}
	if stats.TotalTasks, err = a.store.CountTasks(ctx); err != nil {
		return models.GlobalStats{}, fmt.Errorf("count tasks: %w", err)
	}
	return stats, nil
}

// ForUser summarises the tasks owned by callerID.
func (a *Aggregator) ForUser(ctx context.Context, callerID string) (models.UserStats, error) {
	tasks, err := a.store.ListTasks(ctx, callerID)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("list tasks: %w", err)
	}
	return Summarize(tasks), nil
}

// Summarize counts completed tasks and buckets them by priority. Unknown
// priorities only count toward the total.
func Summarize(tasks []models.Task) models.UserStats {
	var s models.UserStats
	for _, t := range tasks {
		s.Total++
		if t.Status == models.TaskStatusCompleted {
			s.Completed++
		}
		switch t.Priority {
		case "high":
			s.Priorities.High++
		case "medium":
			s.Priorities.Medium++
		case "low":
			s.Priorities.Low++
		}
	}
	s.Remaining = s.Total - s.Completed
	return s
}
