package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/repository"
)

// NoteService handles note business logic. Notes resolve access through
// note -> task -> collection; the chain is two hops but the decision is the
// same collection resolution everything else uses.
type NoteService struct {
	noteRepo       repository.NoteRepo
	taskRepo       repository.TaskRepo
	collectionRepo repository.CollectionRepo
	resolver       *AccessResolver
}

// NewNoteService creates a new NoteService
func NewNoteService(
	noteRepo repository.NoteRepo,
	taskRepo repository.TaskRepo,
	collectionRepo repository.CollectionRepo,
	resolver *AccessResolver,
) *NoteService {
	return &NoteService{
		noteRepo:       noteRepo,
		taskRepo:       taskRepo,
		collectionRepo: collectionRepo,
		resolver:       resolver,
	}
}

// CreateNote creates a note under a task whose collection the actor can
// write to
func (s *NoteService) CreateNote(ctx context.Context, actorID string, req *models.CreateNoteRequest) (*models.Note, error) {
	task, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, models.ErrTaskNotFound
	}

	if err := s.requireWrite(ctx, task.CollectionID, actorID, models.ErrTaskNotFound); err != nil {
		return nil, err
	}

	note, err := models.NewNote(actorID, task.ID, req.Title, req.Content)
	if err != nil {
		return nil, err
	}

	if err := s.noteRepo.Add(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

// GetNote retrieves a note if the actor can read its collection
func (s *NoteService) GetNote(ctx context.Context, noteID, actorID string) (*models.Note, error) {
	note, collection, err := s.loadNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.resolver.CanRead(ctx, actorID, collection)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.ErrNoteNotFound
	}
	return note, nil
}

// ListNotes returns notes across the actor's listing set, or notes of one
// task when taskID is non-empty. The by-task path is direct access through
// the parent chain.
func (s *NoteService) ListNotes(ctx context.Context, actorID, taskID string) ([]*models.Note, error) {
	if taskID == "" {
		notes, err := s.noteRepo.ListAccessible(ctx, actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to list notes: %w", err)
		}
		return notes, nil
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, models.ErrTaskNotFound
	}

	collection, err := s.collectionRepo.GetByID(ctx, task.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	allowed, err := s.resolver.CanRead(ctx, actorID, collection)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.ErrTaskNotFound
	}

	notes, err := s.noteRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// UpdateNote updates a note if the actor can write to its collection
func (s *NoteService) UpdateNote(ctx context.Context, noteID, actorID string, req *models.UpdateNoteRequest) (*models.Note, error) {
	note, err := s.requireWritableNote(ctx, noteID, actorID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, models.ErrNoteTitleRequired
		}
		note.Title = title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}

	note.UpdatedAt = time.Now().UTC()

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

// DeleteNote deletes a note if the actor can write to its collection
func (s *NoteService) DeleteNote(ctx context.Context, noteID, actorID string) error {
	note, err := s.requireWritableNote(ctx, noteID, actorID)
	if err != nil {
		return err
	}

	if err := s.noteRepo.Delete(ctx, note.ID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (s *NoteService) requireWritableNote(ctx context.Context, noteID, actorID string) (*models.Note, error) {
	note, collection, err := s.loadNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	writable, err := s.resolver.CanWrite(ctx, actorID, collection)
	if err != nil {
		return nil, err
	}
	if writable {
		return note, nil
	}

	readable, err := s.resolver.CanRead(ctx, actorID, collection)
	if err != nil {
		return nil, err
	}
	if readable {
		return nil, models.ErrNoteAccessDenied
	}
	return nil, models.ErrNoteNotFound
}

// requireWrite resolves write access on a collection, mapping a read-only
// actor to an access denial and an invisible collection to notFoundErr
func (s *NoteService) requireWrite(ctx context.Context, collectionID, actorID string, notFoundErr error) error {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		return fmt.Errorf("failed to get collection: %w", err)
	}

	writable, err := s.resolver.CanWrite(ctx, actorID, collection)
	if err != nil {
		return err
	}
	if writable {
		return nil
	}

	readable, err := s.resolver.CanRead(ctx, actorID, collection)
	if err != nil {
		return err
	}
	if readable {
		return models.ErrNoteAccessDenied
	}
	return notFoundErr
}

func (s *NoteService) loadNote(ctx context.Context, noteID string) (*models.Note, *models.Collection, error) {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil {
		return nil, nil, models.ErrNoteNotFound
	}

	task, err := s.taskRepo.GetByID(ctx, note.TaskID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, nil, models.ErrNoteNotFound
	}

	collection, err := s.collectionRepo.GetByID(ctx, task.CollectionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return note, collection, nil
}
