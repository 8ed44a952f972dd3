// Package storagetest holds the behaviour every storage.Store implementation
// must share. Implementations call Run from their own tests.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/models"
	"planner/internal/storage"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

// Run exercises the store returned by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := map[string]func(t *testing.T, s storage.Store){
		"accounts":                  testAccounts,
		"duplicate email":           testDuplicateEmail,
		"concurrent duplicate":      testConcurrentDuplicateEmail,
		"project round trip":        testProjectRoundTrip,
		"project owner scoping":     testProjectOwnerScoping,
		"project update and delete": testProjectUpdateDelete,
		"task round trip":           testTaskRoundTrip,
		"task owner scoping":        testTaskOwnerScoping,
		"task update and delete":    testTaskUpdateDelete,
		"counts":                    testCounts,
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			fn(t, s)
		})
	}
}

var created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func project(id, owner, name string) models.Project {
	return models.Project{ID: id, Name: name, Deadline: "2025-01-01", Status: models.ProjectStatusActive, OwnerID: owner, CreatedAt: created}
}

func task(id, owner, title string) models.Task {
	return models.Task{ID: id, Title: title, ProjectID: "p-1", Priority: "high", DueDate: "2025-02-01", Status: models.TaskStatusPending, OwnerID: owner, CreatedAt: created}
}

func strp(s string) *string { return &s }

func testAccounts(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.AccountByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	a := models.Account{ID: "1", Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	got, err := s.CreateAccount(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	found, err := s.AccountByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, a, found)

	_, err = s.AccountByEmail(ctx, "ALICE@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testDuplicateEmail(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.CreateAccount(ctx, models.Account{ID: "1", Username: "a", Email: "dup@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = s.CreateAccount(ctx, models.Account{ID: "2", Username: "b", Email: "dup@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, storage.ErrDuplicateEmail)

	n, err := s.CountAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func testConcurrentDuplicateEmail(t *testing.T, s storage.Store) {
	ctx := context.Background()
	const attempts = 10

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateAccount(ctx, models.Account{
				ID: fmt.Sprintf("%d", i), Username: "racer", Email: "race@example.com", PasswordHash: "h",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, storage.ErrDuplicateEmail)
	}
	assert.Equal(t, 1, succeeded)

	n, err := s.CountAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func testProjectRoundTrip(t *testing.T, s storage.Store) {
	ctx := context.Background()

	empty, err := s.ListProjects(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	want := project("p1", "u1", "P1")
	want.Description = "first"
	got, err := s.CreateProject(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

	_, err = s.CreateProject(ctx, project("p2", "u1", "P2"))
	require.NoError(t, err)

	list, err := s.ListProjects(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p1", list[0].ID)
	assert.Equal(t, "p2", list[1].ID)
	assert.Equal(t, "P1", list[0].Name)
	assert.Equal(t, "first", list[0].Description)
	assert.Equal(t, "2025-01-01", list[0].Deadline)
	assert.Equal(t, models.ProjectStatusActive, list[0].Status)
	assert.Equal(t, "u1", list[0].OwnerID)
}

func testProjectOwnerScoping(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.CreateProject(ctx, project("p1", "alice", "A"))
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, project("p2", "bob", "B"))
	require.NoError(t, err)

	list, err := s.ListProjects(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].OwnerID)

	_, err = s.GetProject(ctx, "alice", "p2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.UpdateProject(ctx, "alice", "p2", models.ProjectPatch{Name: strp("stolen")})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteProject(ctx, "alice", "p2"), storage.ErrNotFound)

	bobs, err := s.GetProject(ctx, "bob", "p2")
	require.NoError(t, err)
	assert.Equal(t, "B", bobs.Name)
}

func testProjectUpdateDelete(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.CreateProject(ctx, project("p1", "u1", "P1"))
	require.NoError(t, err)

	updated, err := s.UpdateProject(ctx, "u1", "p1", models.ProjectPatch{Status: strp("completed")})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "P1", updated.Name)

	got, err := s.GetProject(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)

	_, err = s.UpdateProject(ctx, "u1", "missing", models.ProjectPatch{})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.DeleteProject(ctx, "u1", "p1"))
	assert.ErrorIs(t, s.DeleteProject(ctx, "u1", "p1"), storage.ErrNotFound)

	list, err := s.ListProjects(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testTaskRoundTrip(t *testing.T, s storage.Store) {
	ctx := context.Background()

	want := task("t1", "u1", "Write docs")
	want.ProjectID = "does-not-exist"
	got, err := s.CreateTask(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, "does-not-exist", got.ProjectID)

	list, err := s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t1", list[0].ID)
	assert.Equal(t, "Write docs", list[0].Title)
	assert.Equal(t, "high", list[0].Priority)
	assert.Equal(t, "2025-02-01", list[0].DueDate)
	assert.Equal(t, models.TaskStatusPending, list[0].Status)
	assert.True(t, created.Equal(list[0].CreatedAt))
}

func testTaskOwnerScoping(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.CreateTask(ctx, task("t1", "alice", "A"))
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, task("t2", "bob", "B"))
	require.NoError(t, err)

	list, err := s.ListTasks(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t2", list[0].ID)

	_, err = s.GetTask(ctx, "bob", "t1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.UpdateTask(ctx, "bob", "t1", models.TaskPatch{Status: strp("completed")})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTask(ctx, "bob", "t1"), storage.ErrNotFound)
}

func testTaskUpdateDelete(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.CreateTask(ctx, task("t1", "u1", "T1"))
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, task("t2", "u1", "T2"))
	require.NoError(t, err)

	updated, err := s.UpdateTask(ctx, "u1", "t1", models.TaskPatch{Priority: strp("low"), Status: strp("completed")})
	require.NoError(t, err)
	assert.Equal(t, "low", updated.Priority)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "T1", updated.Title)

	require.NoError(t, s.DeleteTask(ctx, "u1", "t1"))

	list, err := s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "t2", list[0].ID)
}

func testCounts(t *testing.T, s storage.Store) {
	ctx := context.Background()

	_, err := s.CreateAccount(ctx, models.Account{ID: "1", Username: "a", Email: "a@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = s.CreateAccount(ctx, models.Account{ID: "2", Username: "b", Email: "b@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, project("p1", "1", "P"))
	require.NoError(t, err)
	for i, owner := range []string{"1", "2", "2"} {
		_, err = s.CreateTask(ctx, task(fmt.Sprintf("t%d", i), owner, "T"))
		require.NoError(t, err)
	}

	accounts, err := s.CountAccounts(ctx)
	require.NoError(t, err)
	projects, err := s.CountProjects(ctx)
	require.NoError(t, err)
	tasks, err := s.CountTasks(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, accounts)
	assert.Equal(t, 1, projects)
	assert.Equal(t, 3, tasks)
}
