package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/priyanshtech/TaskManager/internal/auth"
	"github.com/priyanshtech/TaskManager/internal/calendar"
	"github.com/priyanshtech/TaskManager/internal/handlers/dto"
	"github.com/priyanshtech/TaskManager/internal/logger"
	"github.com/priyanshtech/TaskManager/internal/service"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

// Routes монтируется под /api/tasks и ожидает владельца в контексте.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListTasks)
	r.Post("/", h.CreateTask)
	r.Get("/stats", h.GetStats)
	r.Get("/calendar", h.GetCalendar)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetTaskByID)
		r.Patch("/", h.UpdateTaskByID)
		r.Delete("/", h.DeleteTaskByID)
	})
	return r
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Warn("HTTP: Хранилище недоступно", zap.Error(err))
		responseWithPayload(w, http.StatusServiceUnavailable, toPayload("status", "unavailable"))
		return
	}
	responseWithPayload(w, http.StatusOK, toPayload("status", "ok"))
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	day, ok := dayParam(w, r)
	if !ok {
		return
	}

	tasks, err := h.TaskService.ListTasks(r.Context(), ownerID, day)
	if err != nil {
		handleError(w, r, err)
		return
	}

	responseWithJSON(w, http.StatusOK, dto.TaskListResponse{Tasks: dto.FromTaskList(tasks)})
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	if !requireJSON(w, r) {
		return
	}

	var request dto.CreateTaskRequest
	if err := decodeJSON(r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, CodeBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if fe := validateStruct(request); fe != nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", fe.Field),
			zap.String("error", fe.Reason),
			zap.String("client_ip", r.RemoteAddr))
		handleError(w, r, service.NewValidationError(fe.Field, fe.Reason))
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), ownerID, request.ToInput())
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.Info("HTTP: Задача создана",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)))
	responseWithJSON(w, http.StatusCreated, dto.FromTask(created))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	found, err := h.TaskService.GetTask(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FromTask(found))
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if !requireJSON(w, r) {
		return
	}

	var request dto.UpdateTaskRequest
	if err := decodeJSON(r, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, CodeBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if fe := validateStruct(request); fe != nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", fe.Field),
			zap.String("error", fe.Reason),
			zap.String("client_ip", r.RemoteAddr))
		handleError(w, r, service.NewValidationError(fe.Field, fe.Reason))
		return
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), ownerID, id, request.ToPatch())
	if err != nil {
		handleError(w, r, err)
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FromTask(updated))
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), ownerID, id); err != nil {
		handleError(w, r, err)
		return
	}

	responseWithJSON(w, http.StatusOK, dto.DeleteResponse{Success: true})
}

func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	day, ok := dayParam(w, r)
	if !ok {
		return
	}

	stats, err := h.TaskService.Statistics(r.Context(), ownerID, day)
	if err != nil {
		handleError(w, r, err)
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FromStats(stats))
}

// GetCalendar отдаёт дни с задачами; ?month=YYYY-MM ограничивает месяцем.
func (h *TaskHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var (
		year  int
		month time.Month
	)
	if raw := r.URL.Query().Get("month"); raw != "" {
		y, m, err := calendar.ParseMonth(raw)
		if err != nil {
			logger.Warn("HTTP: Неверное значение параметра", zap.String("query", "month"), zap.String("value", raw))
			responseWithError(w, http.StatusBadRequest, CodeBadRequest, "month должен быть в формате YYYY-MM")
			return
		}
		year, month = y, m
	}

	days, err := h.TaskService.MarkedDates(r.Context(), ownerID, year, month)
	if err != nil {
		handleError(w, r, err)
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FromDays(days))
}

func (h *TaskHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, err := auth.OwnerFrom(r.Context())
	if err != nil {
		handleError(w, r, service.NewUnauthenticated(err))
		return "", false
	}
	return ownerID, true
}

// некорректный id неотличим от чужой задачи
func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Debug("HTTP: Некорректный id", zap.String("id", raw))
		handleError(w, r, service.NewNotFound("задача", raw))
		return uuid.Nil, false
	}
	return id, true
}

func dayParam(w http.ResponseWriter, r *http.Request) (*calendar.Day, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return nil, true
	}
	day, err := calendar.ParseDay(raw)
	if err != nil {
		logger.Warn("HTTP: Неверное значение параметра", zap.String("query", "date"), zap.String("value", raw))
		responseWithError(w, http.StatusBadRequest, CodeBadRequest, "date должен быть в формате YYYY-MM-DD")
		return nil, false
	}
	return &day, true
}

func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if checkContentType(r, "application/json") {
		return true
	}
	logger.Warn("HTTP: Неверный тип контента",
		zap.String("expected", "application/json"),
		zap.String("received", r.Header.Get("Content-Type")),
		zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, http.StatusUnsupportedMediaType, CodeUnsupportedMediaType, "Content-Type должен быть application/json")
	return false
}
