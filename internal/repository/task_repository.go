package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/planora/server/internal/models"
)

const taskColumns = `t.id, t.owner_id, t.collection_id, t.title, t.details, t.due_date,
	t.start_time, t.end_time, t.category, t.completed, t.created_at, t.updated_at`

// TaskRepository implements TaskRepo for PostgreSQL/SQLite
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	var t models.Task
	var due sql.NullTime
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.CollectionID, &t.Title, &t.Details, &due,
		&t.StartTime, &t.EndTime, &t.Category, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if due.Valid {
		t.DueDate = due.Time
	}
	return &t, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`
	return scanTask(r.db.QueryRowContext(ctx, query, id))
}

// ListAccessible returns tasks in the actor's listing set of collections.
// This intentionally mirrors collection listing: tasks inside a merely
// link-shareable collection do not show up in an unfiltered task list.
func (r *TaskRepository) ListAccessible(ctx context.Context, actorID string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t
			  INNER JOIN collections c ON c.id = t.collection_id
			  WHERE ` + collectionListingPredicate + ` ORDER BY t.created_at DESC`
	return r.queryTasks(ctx, query, actorID)
}

// ListByCollection returns all tasks of one collection. Callers must have
// resolved direct access on the collection before using this.
func (r *TaskRepository) ListByCollection(ctx context.Context, collectionID string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.collection_id = $1 ORDER BY t.created_at DESC`
	return r.queryTasks(ctx, query, collectionID)
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Add(ctx context.Context, task *models.Task) error {
	query := `INSERT INTO tasks (id, owner_id, collection_id, title, details, due_date,
			  start_time, end_time, category, completed, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.OwnerID, task.CollectionID, task.Title, task.Details, nullTime(task.DueDate),
		task.StartTime, task.EndTime, task.Category, task.Completed, task.CreatedAt, task.UpdatedAt,
	)
	return err
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `UPDATE tasks SET title = $1, details = $2, due_date = $3, start_time = $4,
			  end_time = $5, category = $6, completed = $7, updated_at = $8
			  WHERE id = $9`

	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Details, nullTime(task.DueDate), task.StartTime,
		task.EndTime, task.Category, task.Completed, task.UpdatedAt,
		task.ID,
	)
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
