package repository

import (
	"context"
	"database/sql"

	"github.com/planora/server/internal/models"
)

const noteColumns = `n.id, n.user_id, n.task_id, n.title, n.content, n.created_at, n.updated_at`

// NoteRepository implements NoteRepo for PostgreSQL/SQLite
type NoteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func scanNote(row interface{ Scan(...interface{}) error }) (*models.Note, error) {
	var n models.Note
	err := row.Scan(&n.ID, &n.UserID, &n.TaskID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes n WHERE n.id = $1`
	return scanNote(r.db.QueryRowContext(ctx, query, id))
}

// ListAccessible returns notes whose ancestor collection is in the actor's
// listing set, resolved transitively through the note's task.
func (r *NoteRepository) ListAccessible(ctx context.Context, actorID string) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes n
			  INNER JOIN tasks t ON t.id = n.task_id
			  INNER JOIN collections c ON c.id = t.collection_id
			  WHERE ` + collectionListingPredicate + ` ORDER BY n.created_at DESC`
	return r.queryNotes(ctx, query, actorID)
}

// ListByTask returns all notes of one task. Callers must have resolved
// access on the task's collection before using this.
func (r *NoteRepository) ListByTask(ctx context.Context, taskID string) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes n WHERE n.task_id = $1 ORDER BY n.created_at DESC`
	return r.queryNotes(ctx, query, taskID)
}

func (r *NoteRepository) queryNotes(ctx context.Context, query string, args ...interface{}) ([]*models.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) Add(ctx context.Context, note *models.Note) error {
	query := `INSERT INTO notes (id, user_id, task_id, title, content, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		note.ID, note.UserID, note.TaskID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt)
	return err
}

func (r *NoteRepository) Update(ctx context.Context, note *models.Note) error {
	query := `UPDATE notes SET title = $1, content = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, note.Title, note.Content, note.UpdatedAt, note.ID)
	return err
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	return err
}
