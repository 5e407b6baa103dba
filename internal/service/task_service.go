package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/priyanshtech/TaskManager/internal/calendar"
	"github.com/priyanshtech/TaskManager/internal/logger"
	"github.com/priyanshtech/TaskManager/internal/models/task"
	rep "github.com/priyanshtech/TaskManager/internal/repository"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

const resourceTask = "задача"

// CreateInput - данные для новой задачи. Пустой Priority означает medium.
type CreateInput struct {
	Title       string
	Description *string
	Date        time.Time
	Priority    task.Priority
}

type TaskService struct {
	repo     TaskRepository
	calendar *calendar.Calendar
	recorder Recorder
}

func NewTaskService(repo TaskRepository, options ...Option) *TaskService {
	s := &TaskService{
		repo:     repo,
		calendar: calendar.New(time.UTC),
		recorder: nopRecorder{},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *TaskService) Calendar() *calendar.Calendar {
	return s.calendar
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

// ListTasks возвращает задачи владельца; при заданном day - только за этот день.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, day *calendar.Day) ([]*task.Task, error) {
	tasks, err := s.list(ctx, "list", ownerID)
	if err != nil {
		return nil, err
	}
	if day != nil {
		tasks = s.calendar.FilterByDay(tasks, *day)
	}
	s.recorder.TaskOperation("list", "ok")
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID string, input CreateInput) (*task.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, s.fail("create", err)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, s.fail("create", NewValidationError("title", "не может быть пустым"))
	}
	if input.Date.IsZero() {
		return nil, s.fail("create", NewValidationError("date", "обязательное поле"))
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, s.fail("create", NewValidationError("priority", "допустимо low, medium или high"))
	}

	newTask := task.New(ownerID, title, input.Date.UTC(),
		task.WithDescription(input.Description),
		task.WithPriority(input.Priority),
	)

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, s.storeFailure("create", "Service: Не удалось создать задачу", err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", newTask.ID.String()),
		zap.String("owner_id", ownerID))
	s.recorder.TaskOperation("create", "ok")
	return newTask, nil
}

func (s *TaskService) GetTask(ctx context.Context, ownerID string, id uuid.UUID) (*task.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, s.fail("get", err)
	}

	found, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, s.fail("get", notFound(id, err))
		}
		return nil, s.storeFailure("get", "Service: Не удалось получить задачу", err)
	}

	s.recorder.TaskOperation("get", "ok")
	return found, nil
}

// UpdateTask применяет частичное обновление. Пустой патч - ошибка валидации.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID string, id uuid.UUID, patch task.Patch) (*task.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, s.fail("update", err)
	}

	patch, invalid := normalizePatch(patch)
	if invalid != nil {
		return nil, s.fail("update", invalid)
	}

	updated, err := s.repo.Update(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача для обновления не найдена", zap.String("target_id", id.String()))
			return nil, s.fail("update", notFound(id, err))
		}
		return nil, s.storeFailure("update", "Service: Не удалось обновить задачу", err)
	}

	s.recorder.TaskOperation("update", "ok")
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return s.fail("delete", err)
	}

	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача для удаления не найдена", zap.String("target_id", id.String()))
			return s.fail("delete", notFound(id, err))
		}
		return s.storeFailure("delete", "Service: Не удалось удалить задачу", err)
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	s.recorder.TaskOperation("delete", "ok")
	return nil
}

// Statistics считает total/completed/pending по всем задачам или за день.
func (s *TaskService) Statistics(ctx context.Context, ownerID string, day *calendar.Day) (calendar.Stats, error) {
	tasks, err := s.list(ctx, "stats", ownerID)
	if err != nil {
		return calendar.Stats{}, err
	}

	s.recorder.TaskOperation("stats", "ok")
	if day != nil {
		return s.calendar.CountByDay(tasks, *day), nil
	}
	return calendar.Count(tasks), nil
}

// MarkedDates возвращает дни, в которых есть задачи. month == 0 - за всё время.
func (s *TaskService) MarkedDates(ctx context.Context, ownerID string, year int, month time.Month) ([]calendar.Day, error) {
	tasks, err := s.list(ctx, "calendar", ownerID)
	if err != nil {
		return nil, err
	}

	s.recorder.TaskOperation("calendar", "ok")
	if month == 0 {
		return s.calendar.MarkedDates(tasks), nil
	}
	return s.calendar.MarkedDatesInMonth(tasks, year, month), nil
}

func (s *TaskService) list(ctx context.Context, op, ownerID string) ([]*task.Task, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, s.fail(op, err)
	}

	tasks, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, s.storeFailure(op, "Service: Не удалось получить задачи", err)
	}
	return tasks, nil
}

func (s *TaskService) fail(op string, busErr *BusinessError) error {
	s.recorder.TaskOperation(op, busErr.Code)
	return busErr
}

func (s *TaskService) storeFailure(op, msg string, err error) error {
	logger.Error(msg, err, zap.String("op", op))
	return s.fail(op, NewInternal(fmt.Errorf("%s: %w", op, err)))
}

func requireOwner(ownerID string) *BusinessError {
	if ownerID == "" {
		return NewUnauthenticated(nil)
	}
	return nil
}

func notFound(id uuid.UUID, err error) *BusinessError {
	busErr := NewNotFound(resourceTask, id.String())
	busErr.Err = err
	return busErr
}

// normalizePatch проверяет патч и обрезает пробелы в заголовке.
func normalizePatch(patch task.Patch) (task.Patch, *BusinessError) {
	if patch.IsEmpty() {
		return patch, NewBusinessError(CodeValidation, "нет полей для обновления")
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return patch, NewValidationError("title", "не может быть пустым")
		}
		patch.Title = &title
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return patch, NewValidationError("priority", "допустимо low, medium или high")
	}
	if patch.Date != nil {
		if patch.Date.IsZero() {
			return patch, NewValidationError("date", "не может быть пустой")
		}
		date := patch.Date.UTC()
		patch.Date = &date
	}
	return patch, nil
}
