// Package repotest содержит общий набор проверок для всех реализаций
// хранилища задач: изоляция владельцев, частичное обновление, удаление.
package repotest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/priyanshtech/TaskManager/internal/models/task"
	"github.com/priyanshtech/TaskManager/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Store interface {
	HealthCheck(ctx context.Context) error
	List(ctx context.Context, ownerID string) ([]*task.Task, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*task.Task, error)
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, ownerID string, id uuid.UUID, patch task.Patch) (*task.Task, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}

// Factory возвращает пустое хранилище для одного подтеста.
type Factory func(t *testing.T) Store

const (
	alice = "auth0|alice"
	bob   = "auth0|bob"
)

var baseDate = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func mustCreate(t *testing.T, s Store, ownerID, title string, date time.Time, options ...task.TaskOption) *task.Task {
	t.Helper()
	created := task.New(ownerID, title, date, options...)
	require.NoError(t, s.Create(context.Background(), created))
	return created
}

// Run прогоняет общий контракт хранилища.
func Run(t *testing.T, newStore Factory) {
	t.Run("HealthCheck", func(t *testing.T) {
		assert.NoError(t, newStore(t).HealthCheck(context.Background()))
	})

	t.Run("CreateAndGetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created := mustCreate(t, s, alice, "Купить хлеб", baseDate,
			task.WithDescription(ptr("в пекарне")),
			task.WithPriority(task.PriorityHigh))
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.UpdatedAt.IsZero())

		got, err := s.GetByID(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, alice, got.OwnerID)
		assert.Equal(t, "Купить хлеб", got.Title)
		require.NotNil(t, got.Description)
		assert.Equal(t, "в пекарне", *got.Description)
		assert.True(t, baseDate.Equal(got.Date), "date %s != %s", got.Date, baseDate)
		assert.Equal(t, task.PriorityHigh, got.Priority)
		assert.False(t, got.Completed)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("CreateWithoutDescription", func(t *testing.T) {
		s := newStore(t)
		created := mustCreate(t, s, alice, "Без описания", baseDate)

		got, err := s.GetByID(context.Background(), alice, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Description)
		assert.Equal(t, task.PriorityMedium, got.Priority)
	})

	t.Run("ListIsOwnerScopedAndOrdered", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		later := mustCreate(t, s, alice, "позже", baseDate.Add(48*time.Hour))
		earlier := mustCreate(t, s, alice, "раньше", baseDate)
		mustCreate(t, s, bob, "чужая", baseDate)

		tasks, err := s.List(ctx, alice)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, earlier.ID, tasks[0].ID)
		assert.Equal(t, later.ID, tasks[1].ID)
		for _, got := range tasks {
			assert.Equal(t, alice, got.OwnerID)
		}

		again, err := s.List(ctx, alice)
		require.NoError(t, err)
		require.Len(t, again, 2)
		assert.Equal(t, tasks[0].ID, again[0].ID)
		assert.Equal(t, tasks[1].ID, again[1].ID)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		tasks, err := newStore(t).List(context.Background(), "nobody")
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("GetForeignIsNotFound", func(t *testing.T) {
		s := newStore(t)
		created := mustCreate(t, s, alice, "моя", baseDate)

		_, err := s.GetByID(context.Background(), bob, created.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		_, err = s.GetByID(context.Background(), alice, uuid.New())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("UpdateOnlyCompleted", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created := mustCreate(t, s, alice, "Заголовок", baseDate,
			task.WithDescription(ptr("описание")),
			task.WithPriority(task.PriorityLow))

		updated, err := s.Update(ctx, alice, created.ID, task.Patch{Completed: ptr(true)})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "Заголовок", updated.Title)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "описание", *updated.Description)
		assert.True(t, baseDate.Equal(updated.Date))
		assert.Equal(t, task.PriorityLow, updated.Priority)
		assert.Equal(t, alice, updated.OwnerID)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		got, err := s.GetByID(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.True(t, got.Completed)

		// обратный переход Completed -> Pending
		back, err := s.Update(ctx, alice, created.ID, task.Patch{Completed: ptr(false)})
		require.NoError(t, err)
		assert.False(t, back.Completed)
	})

	t.Run("UpdateAllFields", func(t *testing.T) {
		s := newStore(t)
		created := mustCreate(t, s, alice, "Старый", baseDate)
		newDate := baseDate.Add(72 * time.Hour)

		updated, err := s.Update(context.Background(), alice, created.ID, task.Patch{
			Title:       ptr("Новый"),
			Description: ptr("новое описание"),
			Date:        &newDate,
			Priority:    ptr(task.PriorityHigh),
			Completed:   ptr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "Новый", updated.Title)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "новое описание", *updated.Description)
		assert.True(t, newDate.Equal(updated.Date))
		assert.Equal(t, task.PriorityHigh, updated.Priority)
		assert.True(t, updated.Completed)
	})

	t.Run("UpdateForeignIsNotFound", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created := mustCreate(t, s, alice, "моя", baseDate)

		_, err := s.Update(ctx, bob, created.ID, task.Patch{Title: ptr("взлом")})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		_, err = s.Update(ctx, alice, uuid.New(), task.Patch{Completed: ptr(true)})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		got, err := s.GetByID(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "моя", got.Title)
	})

	t.Run("DeleteTwice", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created := mustCreate(t, s, alice, "удалить", baseDate)

		require.NoError(t, s.Delete(ctx, alice, created.ID))
		assert.ErrorIs(t, s.Delete(ctx, alice, created.ID), repository.ErrNotFound)

		_, err := s.GetByID(ctx, alice, created.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		tasks, err := s.List(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("DeleteForeignIsNotFound", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		created := mustCreate(t, s, alice, "моя", baseDate)

		assert.ErrorIs(t, s.Delete(ctx, bob, created.ID), repository.ErrNotFound)

		tasks, err := s.List(ctx, alice)
		require.NoError(t, err)
		assert.Len(t, tasks, 1)

		bobTasks, err := s.List(ctx, bob)
		require.NoError(t, err)
		assert.Empty(t, bobTasks)
	})

	t.Run("ConcurrentDeleteSucceedsOnce", func(t *testing.T) {
		s := newStore(t)
		created := mustCreate(t, s, alice, "гонка", baseDate)

		const workers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			notFound  int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Delete(context.Background(), alice, created.ID)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case assert.ErrorIs(t, err, repository.ErrNotFound):
					notFound++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, workers-1, notFound)
	})
}
