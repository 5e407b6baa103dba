package middleware

import (
	"net/http"

	"github.com/priyanshtech/TaskManager/internal/auth"
	"github.com/priyanshtech/TaskManager/internal/logger"
	"go.uber.org/zap"
)

// OwnerResolver извлекает владельца из запроса (реализуется auth.Gate).
type OwnerResolver interface {
	Resolve(r *http.Request) (string, error)
}

// Auth кладёт владельца в контекст или отвечает 401, не доходя до обработчика.
func Auth(resolver OwnerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID, err := resolver.Resolve(r)
			if err != nil {
				logger.Warn("HTTP: Запрос без аутентификации",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.Error(err))
				writeError(w, http.StatusUnauthorized, map[string]any{
					"error":   "UNAUTHENTICATED",
					"message": "требуется аутентификация",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithOwner(r.Context(), ownerID)))
		})
	}
}
