package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/server/internal/models"
)

func TestTaskService_PermissionUpgrade(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	member := env.createUser(t, "member")

	collection := env.createCollection(t, owner.ID, "Project")
	env.grant(t, collection.ID, member.ID, models.PermissionView)

	req := &models.CreateTaskRequest{CollectionID: collection.ID, Title: "Write report"}

	t.Run("view grantee can read but not create", func(t *testing.T) {
		tasks, err := env.tasks.ListTasks(ctx, member.ID, collection.ID)
		require.NoError(t, err)
		assert.Empty(t, tasks)

		_, err = env.tasks.CreateTask(ctx, member.ID, req)
		assert.Equal(t, models.ErrTaskAccessDenied, err)
	})

	t.Run("after upgrade to edit the same create succeeds", func(t *testing.T) {
		env.grant(t, collection.ID, member.ID, models.PermissionEdit)

		task, err := env.tasks.CreateTask(ctx, member.ID, req)
		require.NoError(t, err)
		assert.Equal(t, member.ID, task.OwnerID)
		assert.Equal(t, collection.ID, task.CollectionID)
	})

	t.Run("owner sees the grantee's task", func(t *testing.T) {
		tasks, err := env.tasks.ListTasks(ctx, owner.ID, collection.ID)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Write report", tasks[0].Title)
	})

	t.Run("later grant changes leave the task creator untouched", func(t *testing.T) {
		env.grant(t, collection.ID, member.ID, models.PermissionView)

		tasks, err := env.tasks.ListTasks(ctx, owner.ID, collection.ID)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, member.ID, tasks[0].OwnerID)
	})
}

func TestTaskService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	collection := env.createCollection(t, owner.ID, "Chores")

	t.Run("title required", func(t *testing.T) {
		_, err := env.tasks.CreateTask(ctx, owner.ID, &models.CreateTaskRequest{
			CollectionID: collection.ID,
			Title:        "  ",
		})
		assert.Equal(t, models.ErrTaskTitleRequired, err)
	})

	t.Run("bad clock time rejected", func(t *testing.T) {
		_, err := env.tasks.CreateTask(ctx, owner.ID, &models.CreateTaskRequest{
			CollectionID: collection.ID,
			Title:        "Gym",
			StartTime:    "25:99",
		})
		assert.Equal(t, models.ErrTaskInvalidTime, err)
	})

	t.Run("bad due date rejected", func(t *testing.T) {
		_, err := env.tasks.CreateTask(ctx, owner.ID, &models.CreateTaskRequest{
			CollectionID: collection.ID,
			Title:        "Gym",
			DueDate:      "tomorrow",
		})
		require.Error(t, err)
		assert.IsType(t, models.TaskError{}, err)
	})

	t.Run("valid task with schedule", func(t *testing.T) {
		task, err := env.tasks.CreateTask(ctx, owner.ID, &models.CreateTaskRequest{
			CollectionID: collection.ID,
			Title:        "Gym",
			DueDate:      "2026-09-15",
			StartTime:    "07:30",
			EndTime:      "08:30",
			Category:     "fitness",
		})
		require.NoError(t, err)
		assert.Equal(t, "07:30", task.StartTime)
		assert.Equal(t, 15, task.DueDate.Day())
		assert.False(t, task.Completed)
	})

	t.Run("invisible collection surfaces as not found", func(t *testing.T) {
		stranger := env.createUser(t, "stranger")
		_, err := env.tasks.CreateTask(ctx, stranger.ID, &models.CreateTaskRequest{
			CollectionID: collection.ID,
			Title:        "Sneaky",
		})
		assert.Equal(t, models.ErrCollectionNotFound, err)
	})
}

func TestTaskService_MutationsRequireWrite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	viewer := env.createUser(t, "viewer")
	stranger := env.createUser(t, "stranger")

	collection := env.createCollection(t, owner.ID, "Board")
	env.grant(t, collection.ID, viewer.ID, models.PermissionView)

	task, err := env.tasks.CreateTask(ctx, owner.ID, &models.CreateTaskRequest{
		CollectionID: collection.ID,
		Title:        "Locked",
	})
	require.NoError(t, err)

	newTitle := "Renamed"

	t.Run("viewer can read the task", func(t *testing.T) {
		got, err := env.tasks.GetTask(ctx, task.ID, viewer.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
	})

	t.Run("viewer update denied explicitly", func(t *testing.T) {
		_, err := env.tasks.UpdateTask(ctx, task.ID, viewer.ID, &models.UpdateTaskRequest{Title: &newTitle})
		assert.Equal(t, models.ErrTaskAccessDenied, err)
	})

	t.Run("viewer toggle and delete denied explicitly", func(t *testing.T) {
		_, err := env.tasks.ToggleTask(ctx, task.ID, viewer.ID)
		assert.Equal(t, models.ErrTaskAccessDenied, err)

		err = env.tasks.DeleteTask(ctx, task.ID, viewer.ID)
		assert.Equal(t, models.ErrTaskAccessDenied, err)
	})

	t.Run("stranger cannot even see the task", func(t *testing.T) {
		_, err := env.tasks.GetTask(ctx, task.ID, stranger.ID)
		assert.Equal(t, models.ErrTaskNotFound, err)

		_, err = env.tasks.UpdateTask(ctx, task.ID, stranger.ID, &models.UpdateTaskRequest{Title: &newTitle})
		assert.Equal(t, models.ErrTaskNotFound, err)
	})

	t.Run("owner toggles", func(t *testing.T) {
		toggled, err := env.tasks.ToggleTask(ctx, task.ID, owner.ID)
		require.NoError(t, err)
		assert.True(t, toggled.Completed)
	})
}

func TestTaskService_ListAcrossCollections(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	member := env.createUser(t, "member")

	mine := env.createCollection(t, member.ID, "Mine")
	shared := env.createCollection(t, owner.ID, "Shared")
	linkOnly := env.createCollection(t, owner.ID, "Linked")

	env.grant(t, shared.ID, member.ID, models.PermissionView)
	env.enableLinkSharing(t, linkOnly, models.PermissionEdit)

	for _, c := range []*models.Collection{mine, shared, linkOnly} {
		_, err := env.tasks.CreateTask(ctx, c.OwnerID, &models.CreateTaskRequest{
			CollectionID: c.ID,
			Title:        "task in " + c.Title,
		})
		require.NoError(t, err)
	}

	t.Run("unfiltered list follows the listing set", func(t *testing.T) {
		tasks, err := env.tasks.ListTasks(ctx, member.ID, "")
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		for _, task := range tasks {
			assert.NotEqual(t, linkOnly.ID, task.CollectionID)
		}
	})

	t.Run("filter by link-shared collection works via direct access", func(t *testing.T) {
		tasks, err := env.tasks.ListTasks(ctx, member.ID, linkOnly.ID)
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})

	t.Run("soft-deleted parent hides its tasks", func(t *testing.T) {
		require.NoError(t, env.collections.DeleteCollection(ctx, shared.ID, owner.ID))

		tasks, err := env.tasks.ListTasks(ctx, member.ID, "")
		require.NoError(t, err)
		assert.Len(t, tasks, 1)

		_, err = env.tasks.ListTasks(ctx, member.ID, shared.ID)
		assert.Equal(t, models.ErrCollectionNotFound, err)
	})
}
