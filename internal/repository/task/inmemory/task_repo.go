package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/priyanshtech/TaskManager/internal/logger"
	"github.com/priyanshtech/TaskManager/internal/models/task"
	repo "github.com/priyanshtech/TaskManager/internal/repository"
)

// TaskStorage хранит задачи в памяти процесса. Наружу отдаются только копии.
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	now     func() time.Time
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.now()
	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now

	s.storage[taskToCreate.ID] = taskToCreate.Clone()
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok || taskToGet.OwnerID != ownerID {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

// получение всех задач владельца в порядке date, created_at, id
func (s *TaskStorage) List(ctx context.Context, ownerID string) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, t := range s.storage {
		if t.OwnerID != ownerID {
			continue
		}
		res = append(res, t.Clone())
	}
	task.Sort(res)
	return res, nil
}

// проверка владельца и изменение под одной блокировкой
func (s *TaskStorage) Update(ctx context.Context, ownerID string, id uuid.UUID, patch task.Patch) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok || existing.OwnerID != ownerID {
		return nil, repo.ErrNotFound
	}

	patch.Apply(existing)
	existing.UpdatedAt = s.now()
	return existing.Clone(), nil
}

func (s *TaskStorage) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok || existing.OwnerID != ownerID {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	return nil
}
