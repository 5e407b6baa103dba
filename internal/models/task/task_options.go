package task

import (
	"time"

	"github.com/google/uuid"
)

type TaskOption func(*Task)

func WithDescription(description *string) TaskOption {
	if description == nil {
		return nil
	}
	return func(task *Task) {
		d := *description
		task.Description = &d
	}
}

func WithPriority(priority Priority) TaskOption {
	if priority == "" {
		return nil
	}
	return func(task *Task) {
		task.Priority = priority
	}
}

// New собирает новую задачу владельца: свежий id, приоритет medium, не выполнена.
// nil-опции пропускаются.
func New(ownerID, title string, date time.Time, options ...TaskOption) *Task {
	task := &Task{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Date:      date,
		Priority:  PriorityMedium,
		Completed: false,
	}
	for _, opt := range options {
		if opt != nil {
			opt(task)
		}
	}
	return task
}
