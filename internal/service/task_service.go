package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// TaskPatch carries optional updates for a task. Nil fields are left
// untouched; a provided field always applies, so an explicitly empty title
// is rejected rather than silently ignored.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
}

// TaskService exposes task operations for an authenticated owner.
// Ownership is enforced here: existence is checked first (not found),
// then ownership (not authorized), before any field is touched.
type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*model.Task, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, patch TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type taskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

// Create stores a new pending task owned by ownerID.
func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.ErrTitleRequired
	}

	task := &model.Task{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Status:      model.TaskStatusPending,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns the owner's tasks, most recently created first.
func (s *taskService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	return s.taskRepo.ListByOwner(ctx, ownerID)
}

// Update applies a patch to a task after the ownership check passes.
func (s *taskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, patch TaskPatch) (*model.Task, error) {
	task, err := s.findOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, apperrors.ErrTitleRequired
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperrors.ErrInvalidStatus
		}
		task.Status = *patch.Status
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes a task after the ownership check passes. Deleting an
// already-deleted task reports not found.
func (s *taskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	task, err := s.findOwned(ctx, ownerID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// findOwned loads the task and enforces the ownership invariant.
func (s *taskService) findOwned(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	if task.UserID != ownerID {
		return nil, apperrors.ErrNotTaskOwner
	}
	return task, nil
}
