package calendar_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/priyanshtech/TaskManager/internal/calendar"
	"github.com/priyanshtech/TaskManager/internal/models/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func newTask(date string, completed bool) *task.Task {
	return &task.Task{ID: uuid.New(), OwnerID: "user-1", Title: date, Date: at(date), Completed: completed}
}

// TestCalendar_FilterByDay тестирует попадание задач в корзину дня
func TestCalendar_FilterByDay(t *testing.T) {
	cal := calendar.New(nil)

	morning := newTask("2025-06-01T08:00:00Z", false)
	night := newTask("2025-06-01T23:00:00Z", false)
	nextDay := newTask("2025-06-02T00:30:00Z", false)
	tasks := []*task.Task{morning, nextDay, night}

	day, err := calendar.ParseDay("2025-06-01")
	require.NoError(t, err)

	filtered := cal.FilterByDay(tasks, day)
	assert.Equal(t, []*task.Task{morning, night}, filtered)
}

func TestCalendar_FilterByDay_Empty(t *testing.T) {
	cal := calendar.New(time.UTC)
	day, _ := calendar.ParseDay("2025-06-01")

	filtered := cal.FilterByDay(nil, day)
	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
}

func TestCalendar_SameDay(t *testing.T) {
	cal := calendar.New(time.UTC)

	assert.True(t, cal.SameDay(at("2025-06-01T00:00:00Z"), at("2025-06-01T23:59:59Z")))
	assert.False(t, cal.SameDay(at("2025-06-01T23:59:59Z"), at("2025-06-02T00:00:00Z")))
	// разные смещения, но один день в UTC
	assert.True(t, cal.SameDay(at("2025-06-01T10:00:00+03:00"), at("2025-06-01T20:00:00Z")))
}

// TestCalendar_ReferenceTimezone тестирует, что корзина считается в опорной таймзоне
func TestCalendar_ReferenceTimezone(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	cal := calendar.New(moscow)

	// 22:30 UTC - это уже 01:30 следующего дня по Москве
	late := at("2025-06-01T22:30:00Z")
	assert.Equal(t, calendar.Day{Year: 2025, Month: time.June, Day: 2}, cal.DayOf(late))

	utc := calendar.New(nil)
	assert.Equal(t, calendar.Day{Year: 2025, Month: time.June, Day: 1}, utc.DayOf(late))
}

func TestLoad(t *testing.T) {
	cal, err := calendar.Load("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cal.Location())

	cal, err = calendar.Load("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", cal.Location().String())

	_, err = calendar.Load("Mars/Olympus")
	assert.Error(t, err)
}

func TestCount(t *testing.T) {
	tasks := []*task.Task{
		newTask("2025-06-01T08:00:00Z", true),
		newTask("2025-06-01T09:00:00Z", true),
		newTask("2025-06-02T08:00:00Z", false),
	}

	assert.Equal(t, calendar.Stats{Total: 3, Completed: 2, Pending: 1}, calendar.Count(tasks))
	assert.Equal(t, calendar.Stats{}, calendar.Count(nil))
}

func TestCalendar_CountByDay(t *testing.T) {
	cal := calendar.New(nil)
	tasks := []*task.Task{
		newTask("2025-06-01T08:00:00Z", true),
		newTask("2025-06-01T21:00:00Z", false),
		newTask("2025-06-02T08:00:00Z", true),
	}
	day, _ := calendar.ParseDay("2025-06-01")

	assert.Equal(t, calendar.Stats{Total: 2, Completed: 1, Pending: 1}, cal.CountByDay(tasks, day))
}

func TestCalendar_MarkedDates(t *testing.T) {
	cal := calendar.New(nil)
	tasks := []*task.Task{
		newTask("2025-07-03T08:00:00Z", false),
		newTask("2025-06-01T08:00:00Z", false),
		newTask("2025-06-01T22:00:00Z", true),
		newTask("2024-12-31T23:00:00Z", false),
	}

	marked := cal.MarkedDates(tasks)
	assert.Equal(t, []calendar.Day{
		{Year: 2024, Month: time.December, Day: 31},
		{Year: 2025, Month: time.June, Day: 1},
		{Year: 2025, Month: time.July, Day: 3},
	}, marked)

	june := cal.MarkedDatesInMonth(tasks, 2025, time.June)
	assert.Equal(t, []calendar.Day{{Year: 2025, Month: time.June, Day: 1}}, june)

	assert.Empty(t, cal.MarkedDatesInMonth(tasks, 2025, time.August))
}

func TestParseDay(t *testing.T) {
	day, err := calendar.ParseDay("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", day.String())

	for _, bad := range []string{"", "2025-6-1", "01.06.2025", "2025-02-30"} {
		_, err := calendar.ParseDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseMonth(t *testing.T) {
	year, month, err := calendar.ParseMonth("2025-06")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.June, month)

	_, _, err = calendar.ParseMonth("2025-13")
	assert.Error(t, err)
}

func TestDay_JSON(t *testing.T) {
	body, err := json.Marshal([]calendar.Day{{Year: 2025, Month: time.January, Day: 5}})
	require.NoError(t, err)
	assert.JSONEq(t, `["2025-01-05"]`, string(body))
}
