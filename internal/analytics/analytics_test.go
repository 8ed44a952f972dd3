package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/models"
	"planner/internal/storage/memory"
)

func TestSummarize(t *testing.T) {
	cases := []struct {
		name  string
		tasks []models.Task
		want  models.UserStats
	}{
		{
			name: "empty",
			want: models.UserStats{},
		},
		{
			name: "high completed and low pending",
			tasks: []models.Task{
				{Priority: "high", Status: "completed"},
				{Priority: "low", Status: "pending"},
			},
			want: models.UserStats{Total: 2, Completed: 1, Remaining: 1, Priorities: models.PriorityBreakdown{High: 1, Low: 1}},
		},
		{
			name: "unknown priority counts toward total only",
			tasks: []models.Task{
				{Priority: "urgent", Status: "completed"},
				{Priority: "medium", Status: "in progress"},
				{Priority: "", Status: "pending"},
			},
			want: models.UserStats{Total: 3, Completed: 1, Remaining: 2, Priorities: models.PriorityBreakdown{Medium: 1}},
		},
		{
			name: "status match is exact",
			tasks: []models.Task{
				{Priority: "low", Status: "Completed"},
			},
			want: models.UserStats{Total: 1, Remaining: 1, Priorities: models.PriorityBreakdown{Low: 1}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Summarize(tc.tasks))
		})
	}
}

func TestAggregator(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	_, err := store.CreateAccount(ctx, models.Account{ID: "a", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = store.CreateAccount(ctx, models.Account{ID: "b", Email: "b@example.com"})
	require.NoError(t, err)
	_, err = store.CreateProject(ctx, models.Project{ID: "p1", OwnerID: "a"})
	require.NoError(t, err)
	_, err = store.CreateTask(ctx, models.Task{ID: "t1", OwnerID: "a", Priority: "high", Status: "completed"})
	require.NoError(t, err)
	_, err = store.CreateTask(ctx, models.Task{ID: "t2", OwnerID: "a", Priority: "low", Status: "pending"})
	require.NoError(t, err)
	_, err = store.CreateTask(ctx, models.Task{ID: "t3", OwnerID: "b", Priority: "medium", Status: "pending"})
	require.NoError(t, err)

	agg := New(store)

	global, err := agg.Global(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.GlobalStats{TotalUsers: 2, TotalProjects: 1, TotalTasks: 3}, global)

	stats, err := agg.ForUser(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Total: 2, Completed: 1, Remaining: 1, Priorities: models.PriorityBreakdown{High: 1, Low: 1}}, stats)

	none, err := agg.ForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{}, none)
}

type failingStore struct{ *memory.Store }

func (failingStore) CountProjects(context.Context) (int, error) { return 0, errors.New("boom") }

func TestGlobalPropagatesErrors(t *testing.T) {
	_, err := New(failingStore{memory.New()}).Global(context.Background())
	assert.ErrorContains(t, err, "count projects")
}
