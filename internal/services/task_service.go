package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/repository"
)

// TaskService handles task business logic. Tasks carry no permission state:
// every decision resolves through the parent collection.
type TaskService struct {
	taskRepo       repository.TaskRepo
	collectionRepo repository.CollectionRepo
	resolver       *AccessResolver
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepo,
	collectionRepo repository.CollectionRepo,
	resolver *AccessResolver,
) *TaskService {
	return &TaskService{
		taskRepo:       taskRepo,
		collectionRepo: collectionRepo,
		resolver:       resolver,
	}
}

// CreateTask creates a task inside a collection the actor can write to
func (s *TaskService) CreateTask(ctx context.Context, actorID string, req *models.CreateTaskRequest) (*models.Task, error) {
	if _, err := s.requireWritableCollection(ctx, req.CollectionID, actorID); err != nil {
		return nil, err
	}

	task, err := models.NewTask(actorID, req.CollectionID, req.Title)
	if err != nil {
		return nil, err
	}

	task.Details = req.Details
	task.Category = strings.TrimSpace(req.Category)

	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, models.TaskError{Message: "due date must be in YYYY-MM-DD format"}
		}
		task.DueDate = due
	}
	if err := setClockTimes(task, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Add(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTask retrieves a task if the actor can read its collection. Denials
// surface as not-found.
func (s *TaskService) GetTask(ctx context.Context, taskID, actorID string) (*models.Task, error) {
	task, collection, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.resolver.CanRead(ctx, actorID, collection)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.ErrTaskNotFound
	}
	return task, nil
}

// ListTasks returns tasks across the actor's listing set, or tasks of one
// collection when collectionID is non-empty. The single-collection path uses
// direct-access resolution, so a link-shared collection's tasks are visible
// by id even though they never appear in the unfiltered listing.
func (s *TaskService) ListTasks(ctx context.Context, actorID, collectionID string) ([]*models.Task, error) {
	if collectionID == "" {
		tasks, err := s.taskRepo.ListAccessible(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		return tasks, nil
	}

	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	allowed, err := s.resolver.CanRead(ctx, actorID, collection)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.ErrCollectionNotFound
	}

	tasks, err := s.taskRepo.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask updates a task if the actor can write to its collection
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actorID string, req *models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.requireWritableTask(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, models.ErrTaskTitleRequired
		}
		task.Title = title
	}
	if req.Details != nil {
		task.Details = req.Details
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			task.DueDate = time.Time{}
		} else {
			due, err := time.Parse("2006-01-02", *req.DueDate)
			if err != nil {
				return nil, models.TaskError{Message: "due date must be in YYYY-MM-DD format"}
			}
			task.DueDate = due
		}
	}
	if req.StartTime != nil {
		if !models.ValidClockTime(*req.StartTime) {
			return nil, models.ErrTaskInvalidTime
		}
		task.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		if !models.ValidClockTime(*req.EndTime) {
			return nil, models.ErrTaskInvalidTime
		}
		task.EndTime = *req.EndTime
	}
	if req.Category != nil {
		task.Category = strings.TrimSpace(*req.Category)
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	task.UpdatedAt = time.Now().UTC()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// ToggleTask flips the completed flag
func (s *TaskService) ToggleTask(ctx context.Context, taskID, actorID string) (*models.Task, error) {
	task, err := s.requireWritableTask(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	task.UpdatedAt = time.Now().UTC()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask deletes a task if the actor can write to its collection
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID string) error {
	task, err := s.requireWritableTask(ctx, taskID, actorID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// requireWritableTask loads a task and demands write access on its
// collection. View-only actors who could read the task get an explicit
// denial; actors with no access at all get not-found.
func (s *TaskService) requireWritableTask(ctx context.Context, taskID, actorID string) (*models.Task, error) {
	task, collection, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	writable, err := s.resolver.CanWrite(ctx, actorID, collection)
	if err != nil {
		return nil, err
	}
	if writable {
		return task, nil
	}

	readable, err := s.resolver.CanRead(ctx, actorID, collection)
	if err != nil {
		return nil, err
	}
	if readable {
		return nil, models.ErrTaskAccessDenied
	}
	return nil, models.ErrTaskNotFound
}

// requireWritableCollection demands write access on a collection, with the
// same readable-vs-invisible split as requireWritableTask
func (s *TaskService) requireWritableCollection(ctx context.Context, collectionID, actorID string) (*models.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	writable, err := s.resolver.CanWrite(ctx, actorID, collection)
	if err != nil {
		return nil, err
	}
	if writable {
		return collection, nil
	}

	readable, err := s.resolver.CanRead(ctx, actorID, collection)
	if err != nil {
		return nil, err
	}
	if readable {
		return nil, models.ErrTaskAccessDenied
	}
	return nil, models.ErrCollectionNotFound
}

func (s *TaskService) loadTask(ctx context.Context, taskID string) (*models.Task, *models.Collection, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, nil, models.ErrTaskNotFound
	}

	collection, err := s.collectionRepo.GetByID(ctx, task.CollectionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return task, collection, nil
}

func setClockTimes(task *models.Task, start, end string) error {
	if !models.ValidClockTime(start) || !models.ValidClockTime(end) {
		return models.ErrTaskInvalidTime
	}
	task.StartTime = start
	task.EndTime = end
	return nil
}
