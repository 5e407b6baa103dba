package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/priyanshtech/TaskManager/internal/models/task"
)

// TaskRepository - хранилище задач с фильтрацией по владельцу в каждой операции.
type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	List(ctx context.Context, ownerID string) ([]*task.Task, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*task.Task, error)
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, ownerID string, id uuid.UUID, patch task.Patch) (*task.Task, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}

// Recorder считает операции над задачами (реализуется metrics.Metrics).
type Recorder interface {
	TaskOperation(op, result string)
}

type nopRecorder struct{}

func (nopRecorder) TaskOperation(string, string) {}
