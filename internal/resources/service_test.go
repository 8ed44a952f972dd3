package resources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/ids"
	"planner/internal/logging"
	"planner/internal/models"
	"planner/internal/storage/memory"
)

func newTestService() *Service {
	svc := NewService(memory.New(), ids.New(), logging.Discard())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func strp(s string) *string { return &s }

func TestProjectLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "alice", models.NewProject{Name: "P1", Deadline: "2025-01-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.ProjectStatusActive, p.Status)
	assert.Equal(t, "alice", p.OwnerID)
	assert.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), p.CreatedAt)

	list, err := svc.ListProjects(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p, list[0])

	updated, err := svc.UpdateProject(ctx, "alice", p.ID, models.ProjectPatch{Status: strp("completed")})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)

	list, err = svc.ListProjects(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "completed", list[0].Status)

	require.NoError(t, svc.DeleteProject(ctx, "alice", p.ID))
	list, err = svc.ListProjects(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProjectsAreOwnerScoped(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	bobs, err := svc.CreateProject(ctx, "bob", models.NewProject{Name: "B"})
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, "alice", models.NewProject{Name: "A"})
	require.NoError(t, err)

	list, err := svc.ListProjects(ctx, "alice")
	require.NoError(t, err)
	for _, p := range list {
		assert.Equal(t, "alice", p.OwnerID)
	}

	_, err = svc.UpdateProject(ctx, "alice", bobs.ID, models.ProjectPatch{Name: strp("mine")})
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.ErrorIs(t, svc.DeleteProject(ctx, "alice", bobs.ID), ErrProjectNotFound)

	// Not owned and missing are indistinguishable.
	_, errMissing := svc.UpdateProject(ctx, "alice", "nope", models.ProjectPatch{})
	assert.Equal(t, errMissing, ErrProjectNotFound)

	still, err := svc.ListProjects(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, still, 1)
	assert.Equal(t, "B", still[0].Name)
}

func TestCreateProjectRequiresName(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateProject(context.Background(), "alice", models.NewProject{Description: "no name"})
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestTaskLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "alice", models.NewTask{
		Title: "Write", Description: "docs", ProjectID: "ghost", Priority: "high", DueDate: "2025-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, "ghost", task.ProjectID)
	assert.Equal(t, "alice", task.OwnerID)

	list, err := svc.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, task, list[0])

	updated, err := svc.UpdateTask(ctx, "alice", task.ID, models.TaskPatch{Status: strp("completed"), Priority: strp("urgent")})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "urgent", updated.Priority)
	assert.Equal(t, task.ID, updated.ID)
	assert.Equal(t, "alice", updated.OwnerID)

	_, err = svc.UpdateTask(ctx, "bob", task.ID, models.TaskPatch{Status: strp("pending")})
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, svc.DeleteTask(ctx, "bob", task.ID), ErrTaskNotFound)

	require.NoError(t, svc.DeleteTask(ctx, "alice", task.ID))
	assert.ErrorIs(t, svc.DeleteTask(ctx, "alice", task.ID), ErrTaskNotFound)
}

func TestTaskSurvivesProjectDeletion(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, "alice", models.NewProject{Name: "P"})
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, "alice", models.NewTask{Title: "T", ProjectID: p.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(ctx, "alice", p.ID))

	list, err := svc.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, task.ID, list[0].ID)
	assert.Equal(t, p.ID, list[0].ProjectID)
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateTask(context.Background(), "alice", models.NewTask{Priority: "low"})
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestIDsAreUnique(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		p, err := svc.CreateProject(ctx, "alice", models.NewProject{Name: "P"})
		require.NoError(t, err)
		task, err := svc.CreateTask(ctx, "alice", models.NewTask{Title: "T"})
		require.NoError(t, err)
		assert.False(t, seen[p.ID])
		assert.False(t, seen[task.ID])
		seen[p.ID], seen[task.ID] = true, true
	}
}
