package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planora/server/internal/models"
)

func TestNoteService_TransitiveAccess(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	viewer := env.createUser(t, "viewer")
	editor := env.createUser(t, "editor")
	stranger := env.createUser(t, "stranger")

	collection := env.createCollection(t, owner.ID, "Research")
	env.grant(t, collection.ID, viewer.ID, models.PermissionView)
	env.grant(t, collection.ID, editor.ID, models.PermissionEdit)

	task, err := env.tasks.CreateTask(ctx, owner.ID, &models.CreateTaskRequest{
		CollectionID: collection.ID,
		Title:        "Read papers",
	})
	require.NoError(t, err)

	note, err := env.notes.CreateNote(ctx, owner.ID, &models.CreateNoteRequest{
		TaskID:  task.ID,
		Title:   "Summary",
		Content: "initial findings",
	})
	require.NoError(t, err)

	t.Run("viewer reads notes through the grant chain", func(t *testing.T) {
		got, err := env.notes.GetNote(ctx, note.ID, viewer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Summary", got.Title)

		notes, err := env.notes.ListNotes(ctx, viewer.ID, task.ID)
		require.NoError(t, err)
		assert.Len(t, notes, 1)
	})

	t.Run("viewer cannot create or mutate", func(t *testing.T) {
		_, err := env.notes.CreateNote(ctx, viewer.ID, &models.CreateNoteRequest{
			TaskID: task.ID,
			Title:  "Extra",
		})
		assert.Equal(t, models.ErrNoteAccessDenied, err)

		content := "edited"
		_, err = env.notes.UpdateNote(ctx, note.ID, viewer.ID, &models.UpdateNoteRequest{Content: &content})
		assert.Equal(t, models.ErrNoteAccessDenied, err)
	})

	t.Run("editor creates and the note records its creator", func(t *testing.T) {
		created, err := env.notes.CreateNote(ctx, editor.ID, &models.CreateNoteRequest{
			TaskID: task.ID,
			Title:  "Editor's note",
		})
		require.NoError(t, err)
		assert.Equal(t, editor.ID, created.UserID)
		assert.Equal(t, task.ID, created.TaskID)
	})

	t.Run("stranger sees nothing", func(t *testing.T) {
		_, err := env.notes.GetNote(ctx, note.ID, stranger.ID)
		assert.Equal(t, models.ErrNoteNotFound, err)

		_, err = env.notes.ListNotes(ctx, stranger.ID, task.ID)
		assert.Equal(t, models.ErrTaskNotFound, err)
	})

	t.Run("unfiltered list spans the listing set only", func(t *testing.T) {
		notes, err := env.notes.ListNotes(ctx, viewer.ID, "")
		require.NoError(t, err)
		assert.Len(t, notes, 2)

		notes, err = env.notes.ListNotes(ctx, stranger.ID, "")
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("soft-deleting the collection hides the whole chain", func(t *testing.T) {
		require.NoError(t, env.collections.DeleteCollection(ctx, collection.ID, owner.ID))

		_, err := env.notes.GetNote(ctx, note.ID, owner.ID)
		assert.Equal(t, models.ErrNoteNotFound, err)

		notes, err := env.notes.ListNotes(ctx, viewer.ID, "")
		require.NoError(t, err)
		assert.Empty(t, notes)
	})
}

func TestNoteService_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	owner := env.createUser(t, "owner")
	collection := env.createCollection(t, owner.ID, "Scratch")

	task, err := env.tasks.CreateTask(ctx, owner.ID, &models.CreateTaskRequest{
		CollectionID: collection.ID,
		Title:        "Host",
	})
	require.NoError(t, err)

	t.Run("title required", func(t *testing.T) {
		_, err := env.notes.CreateNote(ctx, owner.ID, &models.CreateNoteRequest{
			TaskID: task.ID,
			Title:  "",
		})
		assert.Equal(t, models.ErrNoteTitleRequired, err)
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := env.notes.CreateNote(ctx, owner.ID, &models.CreateNoteRequest{
			TaskID: "no-such-task",
			Title:  "Orphan",
		})
		assert.Equal(t, models.ErrTaskNotFound, err)
	})

	t.Run("update and delete round trip", func(t *testing.T) {
		note, err := env.notes.CreateNote(ctx, owner.ID, &models.CreateNoteRequest{
			TaskID:  task.ID,
			Title:   "Draft",
			Content: "v1",
		})
		require.NoError(t, err)

		content := "v2"
		updated, err := env.notes.UpdateNote(ctx, note.ID, owner.ID, &models.UpdateNoteRequest{Content: &content})
		require.NoError(t, err)
		assert.Equal(t, "v2", updated.Content)

		require.NoError(t, env.notes.DeleteNote(ctx, note.ID, owner.ID))
		_, err = env.notes.GetNote(ctx, note.ID, owner.ID)
		assert.Equal(t, models.ErrNoteNotFound, err)
	})
}
