package service

import "github.com/priyanshtech/TaskManager/internal/calendar"

// Option настраивает TaskService при создании.
type Option func(*TaskService)

// WithCalendar задаёт опорный часовой пояс для группировки по дням.
func WithCalendar(cal *calendar.Calendar) Option {
	return func(s *TaskService) {
		if cal != nil {
			s.calendar = cal
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(s *TaskService) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}
