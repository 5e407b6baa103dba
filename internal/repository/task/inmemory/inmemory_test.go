package inmemory_test

import (
	"context"
	"testing"
	"time"

	"github.com/priyanshtech/TaskManager/internal/models/task"
	"github.com/priyanshtech/TaskManager/internal/repository/task/inmemory"
	"github.com/priyanshtech/TaskManager/internal/repository/task/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTaskStorage_Contract тестирует общий контракт хранилища
func TestTaskStorage_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repotest.Store {
		return inmemory.NewTaskStorage()
	})
}

// TestTaskStorage_ReturnsCopies тестирует, что изменение возвращённой задачи не трогает хранилище
func TestTaskStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	desc := "исходное"
	created := task.New("owner", "Задача", time.Now().UTC(), task.WithDescription(&desc))
	require.NoError(t, storage.Create(ctx, created))

	// изменение исходного объекта после Create
	created.Title = "подмена"

	got, err := storage.GetByID(ctx, "owner", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Задача", got.Title)

	got.Title = "другое"
	*got.Description = "другое"

	tasks, err := storage.List(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Задача", tasks[0].Title)
	assert.Equal(t, "исходное", *tasks[0].Description)
}

// TestTaskStorage_SameDateOrderedByCreation тестирует порядок задач с одинаковой датой
func TestTaskStorage_SameDateOrderedByCreation(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	date := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := task.New("owner", "первая", date)
	require.NoError(t, storage.Create(ctx, first))
	time.Sleep(time.Millisecond)
	second := task.New("owner", "вторая", date)
	require.NoError(t, storage.Create(ctx, second))

	tasks, err := storage.List(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)
}
