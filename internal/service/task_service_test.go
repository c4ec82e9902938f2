package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
)

// MockTaskRepository is a mock implementation of TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func strPtr(s string) *string { return &s }

func statusPtr(s model.TaskStatus) *model.TaskStatus { return &s }

func TestTaskService_Create(t *testing.T) {
	ownerID := uuid.New()

	t.Run("empty title rejected", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		service := NewTaskService(mockRepo)

		task, err := service.Create(context.Background(), ownerID, "   ", "whatever")

		assert.Equal(t, apperrors.ErrTitleRequired, err)
		assert.Nil(t, task)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("defaults to pending and caller ownership", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)
		service := NewTaskService(mockRepo)

		task, err := service.Create(context.Background(), ownerID, "Buy milk", "")

		assert.NoError(t, err)
		assert.Equal(t, model.TaskStatusPending, task.Status)
		assert.Equal(t, ownerID, task.UserID)
		assert.Equal(t, "Buy milk", task.Title)
		mockRepo.AssertExpectations(t)
	})
}

func TestTaskService_Update(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()
	taskID := uuid.New()

	existing := func() *model.Task {
		return &model.Task{
			ID:          taskID,
			UserID:      ownerID,
			Title:       "Buy milk",
			Description: "2 liters",
			Status:      model.TaskStatusPending,
		}
	}

	t.Run("missing task reports not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindByID", mock.Anything, taskID).Return(nil, gorm.ErrRecordNotFound)
		service := NewTaskService(mockRepo)

		task, err := service.Update(context.Background(), ownerID, taskID, TaskPatch{Title: strPtr("New")})

		assert.Equal(t, apperrors.ErrTaskNotFound, err)
		assert.Nil(t, task)
	})

	t.Run("foreign task reports not authorized, nothing applied", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindByID", mock.Anything, taskID).Return(existing(), nil)
		service := NewTaskService(mockRepo)

		task, err := service.Update(context.Background(), otherID, taskID, TaskPatch{Title: strPtr("Hijacked")})

		assert.Equal(t, apperrors.ErrNotTaskOwner, err)
		assert.Nil(t, task)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("nil fields keep existing values", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindByID", mock.Anything, taskID).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)
		service := NewTaskService(mockRepo)

		task, err := service.Update(context.Background(), ownerID, taskID, TaskPatch{
			Status: statusPtr(model.TaskStatusCompleted),
		})

		assert.NoError(t, err)
		assert.Equal(t, "Buy milk", task.Title)
		assert.Equal(t, "2 liters", task.Description)
		assert.Equal(t, model.TaskStatusCompleted, task.Status)
	})

	t.Run("provided fields overwrite, empty description allowed", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindByID", mock.Anything, taskID).Return(existing(), nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)
		service := NewTaskService(mockRepo)

		task, err := service.Update(context.Background(), ownerID, taskID, TaskPatch{
			Title:       strPtr("Buy oat milk"),
			Description: strPtr(""),
		})

		assert.NoError(t, err)
		assert.Equal(t, "Buy oat milk", task.Title)
		assert.Equal(t, "", task.Description)
		assert.Equal(t, model.TaskStatusPending, task.Status)
	})

	t.Run("explicit empty title rejected", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindByID", mock.Anything, taskID).Return(existing(), nil)
		service := NewTaskService(mockRepo)

		task, err := service.Update(context.Background(), ownerID, taskID, TaskPatch{Title: strPtr("  ")})

		assert.Equal(t, apperrors.ErrTitleRequired, err)
		assert.Nil(t, task)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindByID", mock.Anything, taskID).Return(existing(), nil)
		service := NewTaskService(mockRepo)

		task, err := service.Update(context.Background(), ownerID, taskID, TaskPatch{
			Status: statusPtr(model.TaskStatus("archived")),
		})

		assert.Equal(t, apperrors.ErrInvalidStatus, err)
		assert.Nil(t, task)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("status toggles back to pending", func(t *testing.T) {
		done := existing()
		done.Status = model.TaskStatusCompleted

		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindByID", mock.Anything, taskID).Return(done, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)
		service := NewTaskService(mockRepo)

		task, err := service.Update(context.Background(), ownerID, taskID, TaskPatch{
			Status: statusPtr(model.TaskStatusPending),
		})

		assert.NoError(t, err)
		assert.Equal(t, model.TaskStatusPending, task.Status)
	})
}

func TestTaskService_Delete(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()
	taskID := uuid.New()

	t.Run("missing task reports not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindByID", mock.Anything, taskID).Return(nil, gorm.ErrRecordNotFound)
		service := NewTaskService(mockRepo)

		err := service.Delete(context.Background(), ownerID, taskID)

		assert.Equal(t, apperrors.ErrTaskNotFound, err)
	})

	t.Run("foreign task reports not authorized", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindByID", mock.Anything, taskID).Return(&model.Task{ID: taskID, UserID: ownerID}, nil)
		service := NewTaskService(mockRepo)

		err := service.Delete(context.Background(), otherID, taskID)

		assert.Equal(t, apperrors.ErrNotTaskOwner, err)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("second delete of the same id reports not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindByID", mock.Anything, taskID).Return(&model.Task{ID: taskID, UserID: ownerID}, nil).Once()
		mockRepo.On("Delete", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil).Once()
		mockRepo.On("FindByID", mock.Anything, taskID).Return(nil, gorm.ErrRecordNotFound)
		service := NewTaskService(mockRepo)

		assert.NoError(t, service.Delete(context.Background(), ownerID, taskID))
		assert.Equal(t, apperrors.ErrTaskNotFound, service.Delete(context.Background(), ownerID, taskID))
		mockRepo.AssertExpectations(t)
	})
}

func TestTaskService_List(t *testing.T) {
	ownerID := uuid.New()

	mockRepo := new(MockTaskRepository)
	mockRepo.On("ListByOwner", mock.Anything, ownerID).Return([]model.Task{
		{Title: "Newest"},
		{Title: "Oldest"},
	}, nil)
	service := NewTaskService(mockRepo)

	tasks, err := service.List(context.Background(), ownerID)

	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, "Newest", tasks[0].Title)
	mockRepo.AssertExpectations(t)
}
