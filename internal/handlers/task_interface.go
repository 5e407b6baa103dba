package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/priyanshtech/TaskManager/internal/calendar"
	"github.com/priyanshtech/TaskManager/internal/models/task"
	"github.com/priyanshtech/TaskManager/internal/service"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	ListTasks(ctx context.Context, ownerID string, day *calendar.Day) ([]*task.Task, error)
	CreateTask(ctx context.Context, ownerID string, input service.CreateInput) (*task.Task, error)
	GetTask(ctx context.Context, ownerID string, id uuid.UUID) (*task.Task, error)
	UpdateTask(ctx context.Context, ownerID string, id uuid.UUID, patch task.Patch) (*task.Task, error)
	DeleteTask(ctx context.Context, ownerID string, id uuid.UUID) error
	Statistics(ctx context.Context, ownerID string, day *calendar.Day) (calendar.Stats, error)
	MarkedDates(ctx context.Context, ownerID string, year int, month time.Month) ([]calendar.Day, error)
}
