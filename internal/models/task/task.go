package task

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OwnerID     string    `json:"userId" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"date"`
	Priority    Priority  `json:"priority" db:"priority"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type Priority string

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Clone возвращает независимую копию задачи, включая описание.
func (t *Task) Clone() *Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return &c
}

// Patch - частичное обновление: nil означает "не трогать поле".
type Patch struct {
	Title       *string
	Description *string
	Date        *time.Time
	Priority    *Priority
	Completed   *bool
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil &&
		p.Description == nil &&
		p.Date == nil &&
		p.Priority == nil &&
		p.Completed == nil
}

// Apply переносит заданные поля в задачу. Владелец, id и метки времени не меняются.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		t.Description = &d
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// Sort упорядочивает задачи так же, как SQL-хранилища: date, created_at, id.
func Sort(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}
