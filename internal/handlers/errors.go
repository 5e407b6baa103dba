package handlers

import (
	"errors"
	"net/http"

	"github.com/priyanshtech/TaskManager/internal/logger"
	"github.com/priyanshtech/TaskManager/internal/middleware"
	"github.com/priyanshtech/TaskManager/internal/service"
	"go.uber.org/zap"
)

const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
)

// handleError переводит ошибку сервиса в HTTP-ответ. Причина внутренних ошибок
// попадает только в лог.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) || businessErr.Code == service.CodeInternal {
		logger.Error("HTTP: Внутренняя ошибка", err, zap.String("request_id", requestID))
		responseWithError(w, http.StatusInternalServerError, service.CodeInternal, "внутренняя ошибка сервера")
		return
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)
	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("request_id", requestID),
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	var details any
	if len(businessErr.Details) > 0 {
		details = businessErr.Details
	}
	responseWithPayload(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", details),
	)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
