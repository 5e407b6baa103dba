package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/priyanshtech/TaskManager/internal/calendar"
	"github.com/priyanshtech/TaskManager/internal/models/task"
	"github.com/priyanshtech/TaskManager/internal/service"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// владелец задачи в теле запроса не принимается: поле userId отклоняется декодером
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Date        *time.Time `json:"date" validate:"required"`
	Priority    string     `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

func (r CreateTaskRequest) ToInput() service.CreateInput {
	input := service.CreateInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    task.Priority(r.Priority),
	}
	if r.Date != nil {
		input.Date = *r.Date
	}
	return input
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Date        *time.Time `json:"date,omitempty"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Completed   *bool      `json:"completed,omitempty"`
}

func (r UpdateTaskRequest) ToPatch() task.Patch {
	patch := task.Patch{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Completed:   r.Completed,
	}
	if r.Priority != nil {
		p := task.Priority(*r.Priority)
		patch.Priority = &p
	}
	return patch
}

type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Date        time.Time `json:"date"`
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		Priority:    string(t.Priority),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

type StatsResponse struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

func FromStats(s calendar.Stats) StatsResponse {
	return StatsResponse{Total: s.Total, Completed: s.Completed, Pending: s.Pending}
}

type CalendarResponse struct {
	Dates []string `json:"dates"`
}

func FromDays(days []calendar.Day) CalendarResponse {
	dates := make([]string, len(days))
	for i, d := range days {
		dates[i] = d.String()
	}
	return CalendarResponse{Dates: dates}
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
