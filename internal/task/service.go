// Package task implements identity-scoped task CRUD. Every operation takes
// the owner id resolved by the auth middleware; a task owned by someone else
// is reported exactly like a missing one.
package task

import (
	"context"
	"unicode/utf8"

	"github.com/mkhalid/tasklist/internal/apperr"
	"github.com/mkhalid/tasklist/internal/models"
)

const (
	// MaxTitleLen and MaxDescriptionLen bound the raw field lengths.
	// Bounds apply to the input as submitted; no trimming is performed.
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
)

// TaskStore defines the persistence needed by the task service. Every
// lookup and mutation is keyed by (task id, owner id) so that ownership
// filtering happens at the store layer.
type TaskStore interface {
	CreateTask(ctx context.Context, userID, title, description string) (*models.Task, error)
	ListTasks(ctx context.Context, userID string) ([]*models.Task, error)
	GetTask(ctx context.Context, id, userID string) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	DeleteTask(ctx context.Context, id, userID string) error
}

// Service validates input and applies task semantics on top of a TaskStore.
type Service struct {
	tasks TaskStore
}

func NewService(tasks TaskStore) *Service {
	return &Service{tasks: tasks}
}

// Create adds a new incomplete task for the owner.
func (s *Service) Create(ctx context.Context, userID string, req models.TaskRequest) (*models.Task, error) {
	if err := validateFields(req); err != nil {
		return nil, err
	}
	task, err := s.tasks.CreateTask(ctx, userID, req.Title, req.Description)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "create task failed", err)
	}
	return task, nil
}

// List returns the owner's tasks, newest first. No tasks is an empty
// slice, not an error.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.tasks.ListTasks(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list tasks failed", err)
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, nil
}

// Get returns a single owned task.
func (s *Service) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.tasks.GetTask(ctx, taskID, userID)
	if err != nil {
		return nil, storeErr(err, "get task failed")
	}
	return task, nil
}

// Update replaces title and description wholesale and bumps updated_at.
func (s *Service) Update(ctx context.Context, userID, taskID string, req models.TaskRequest) (*models.Task, error) {
	if err := validateFields(req); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetTask(ctx, taskID, userID)
	if err != nil {
		return nil, storeErr(err, "update task failed")
	}

	task.Title = req.Title
	task.Description = req.Description
	updated, err := s.tasks.UpdateTask(ctx, task)
	if err != nil {
		return nil, storeErr(err, "update task failed")
	}
	return updated, nil
}

// Delete removes a task permanently. There is no soft delete.
func (s *Service) Delete(ctx context.Context, userID, taskID string) error {
	if err := s.tasks.DeleteTask(ctx, taskID, userID); err != nil {
		return storeErr(err, "delete task failed")
	}
	return nil
}

// Toggle flips the completed flag, leaving title and description alone.
func (s *Service) Toggle(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.tasks.GetTask(ctx, taskID, userID)
	if err != nil {
		return nil, storeErr(err, "toggle task failed")
	}

	task.Completed = !task.Completed
	updated, err := s.tasks.UpdateTask(ctx, task)
	if err != nil {
		return nil, storeErr(err, "toggle task failed")
	}
	return updated, nil
}

func validateFields(req models.TaskRequest) error {
	if req.Title == "" {
		return apperr.New(apperr.KindValidationFailed, "Title is required")
	}
	if utf8.RuneCountInString(req.Title) > MaxTitleLen {
		return apperr.New(apperr.KindValidationFailed, "Title must be at most 100 characters")
	}
	if utf8.RuneCountInString(req.Description) > MaxDescriptionLen {
		return apperr.New(apperr.KindValidationFailed, "Description must be at most 500 characters")
	}
	return nil
}

// storeErr passes not-found through untouched and wraps everything else as
// an internal fault.
func storeErr(err error, message string) error {
	if apperr.KindOf(err) == apperr.KindNotFound {
		return err
	}
	return apperr.Wrap(apperr.KindInternal, message, err)
}
