package task_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/priyanshtech/TaskManager/internal/models/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// TestNew_Defaults тестирует значения по умолчанию при создании
func TestNew_Defaults(t *testing.T) {
	date := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	created := task.New("user-1", "Купить хлеб", date)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "user-1", created.OwnerID)
	assert.Equal(t, task.PriorityMedium, created.Priority)
	assert.False(t, created.Completed)
	assert.Nil(t, created.Description)
	assert.True(t, date.Equal(created.Date))
}

func TestNew_Options(t *testing.T) {
	desc := "в пекарне"
	created := task.New("user-1", "Купить хлеб", time.Now(),
		task.WithDescription(&desc),
		task.WithPriority(task.PriorityHigh),
		task.WithDescription(nil),
		task.WithPriority(""),
	)

	require.NotNil(t, created.Description)
	assert.Equal(t, "в пекарне", *created.Description)
	assert.Equal(t, task.PriorityHigh, created.Priority)

	// опция копирует значение, а не держит указатель вызывающего
	desc = "изменено"
	assert.Equal(t, "в пекарне", *created.Description)
}

func TestNew_UniqueIDs(t *testing.T) {
	a := task.New("user-1", "a", time.Now())
	b := task.New("user-1", "b", time.Now())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestPriority_Valid(t *testing.T) {
	assert.True(t, task.PriorityLow.Valid())
	assert.True(t, task.PriorityMedium.Valid())
	assert.True(t, task.PriorityHigh.Valid())
	assert.False(t, task.Priority("urgent").Valid())
	assert.False(t, task.Priority("").Valid())
}

// TestPatch_Apply тестирует частичное обновление
func TestPatch_Apply(t *testing.T) {
	date := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	desc := "описание"
	original := &task.Task{
		ID:          uuid.New(),
		OwnerID:     "user-1",
		Title:       "Заголовок",
		Description: &desc,
		Date:        date,
		Priority:    task.PriorityLow,
	}

	t.Run("only completed", func(t *testing.T) {
		updated := original.Clone()
		task.Patch{Completed: ptr(true)}.Apply(updated)

		assert.True(t, updated.Completed)
		assert.Equal(t, original.Title, updated.Title)
		assert.Equal(t, *original.Description, *updated.Description)
		assert.True(t, original.Date.Equal(updated.Date))
		assert.Equal(t, original.Priority, updated.Priority)
		assert.Equal(t, original.OwnerID, updated.OwnerID)
	})

	t.Run("all fields", func(t *testing.T) {
		updated := original.Clone()
		newDate := date.Add(48 * time.Hour)
		task.Patch{
			Title:       ptr("Новый"),
			Description: ptr("новое"),
			Date:        &newDate,
			Priority:    ptr(task.PriorityHigh),
			Completed:   ptr(true),
		}.Apply(updated)

		assert.Equal(t, "Новый", updated.Title)
		assert.Equal(t, "новое", *updated.Description)
		assert.True(t, newDate.Equal(updated.Date))
		assert.Equal(t, task.PriorityHigh, updated.Priority)
		assert.True(t, updated.Completed)
		assert.Equal(t, original.ID, updated.ID)
	})
}

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, task.Patch{}.IsEmpty())
	assert.False(t, task.Patch{Completed: ptr(false)}.IsEmpty())
	assert.False(t, task.Patch{Title: ptr("")}.IsEmpty())
}

func TestClone_Independent(t *testing.T) {
	desc := "a"
	original := &task.Task{Title: "x", Description: &desc}
	c := original.Clone()
	*c.Description = "b"
	c.Title = "y"

	assert.Equal(t, "a", *original.Description)
	assert.Equal(t, "x", original.Title)
}

func TestSort(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	late := &task.Task{ID: uuid.New(), Date: base.Add(2 * time.Hour), CreatedAt: base}
	early := &task.Task{ID: uuid.New(), Date: base, CreatedAt: base.Add(time.Hour)}
	earlyFirst := &task.Task{ID: uuid.New(), Date: base, CreatedAt: base}

	tasks := []*task.Task{late, early, earlyFirst}
	task.Sort(tasks)

	assert.Equal(t, []*task.Task{earlyFirst, early, late}, tasks)
}
