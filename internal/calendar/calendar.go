// Package calendar группирует задачи по календарным дням в одной опорной
// таймзоне и считает статистику выполнения.
//
// Все решения "попадает ли задача в этот день" принимаются только через
// Calendar.DayOf; сравнение сырых меток времени не используется.
package calendar

import (
	"fmt"
	"slices"
	"time"

	"github.com/priyanshtech/TaskManager/internal/models/task"
)

const DayLayout = "2006-01-02"
const MonthLayout = "2006-01"

// Day - ключ корзины: год, месяц и число в опорной таймзоне.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("неверная дата %q, ожидается YYYY-MM-DD: %w", s, err)
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}, nil
}

func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("неверный месяц %q, ожидается YYYY-MM: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Day) Compare(o Day) int {
	switch {
	case d.Year != o.Year:
		return compareInt(d.Year, o.Year)
	case d.Month != o.Month:
		return compareInt(int(d.Month), int(o.Month))
	default:
		return compareInt(d.Day, o.Day)
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Count считает статистику по всему переданному списку.
func Count(tasks []*task.Task) Stats {
	stats := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats
}

type Calendar struct {
	loc *time.Location
}

// New создаёт календарь с опорной таймзоной loc; nil означает UTC.
func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// Load создаёт календарь по имени таймзоны IANA ("UTC", "Europe/Moscow").
func Load(name string) (*Calendar, error) {
	if name == "" {
		return New(time.UTC), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("загрузка таймзоны %q: %w", name, err)
	}
	return New(loc), nil
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

func (c *Calendar) DayOf(t time.Time) Day {
	y, m, d := t.In(c.loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

func (c *Calendar) SameDay(a, b time.Time) bool {
	return c.DayOf(a) == c.DayOf(b)
}

// FilterByDay возвращает задачи, чья дата попадает в день day, сохраняя порядок.
func (c *Calendar) FilterByDay(tasks []*task.Task, day Day) []*task.Task {
	res := []*task.Task{}
	for _, t := range tasks {
		if c.DayOf(t.Date) == day {
			res = append(res, t)
		}
	}
	return res
}

// MarkedDates возвращает отсортированные дни, в которых есть хотя бы одна задача.
func (c *Calendar) MarkedDates(tasks []*task.Task) []Day {
	seen := make(map[Day]struct{}, len(tasks))
	res := []Day{}
	for _, t := range tasks {
		day := c.DayOf(t.Date)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		res = append(res, day)
	}
	slices.SortFunc(res, Day.Compare)
	return res
}

func (c *Calendar) MarkedDatesInMonth(tasks []*task.Task, year int, month time.Month) []Day {
	res := []Day{}
	for _, day := range c.MarkedDates(tasks) {
		if day.Year == year && day.Month == month {
			res = append(res, day)
		}
	}
	return res
}

func (c *Calendar) CountByDay(tasks []*task.Task, day Day) Stats {
	return Count(c.FilterByDay(tasks, day))
}
