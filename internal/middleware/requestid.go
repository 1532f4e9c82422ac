package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDKey для хранения идентификатора запроса в контексте
type requestIDKey struct{}

// RequestIDMiddleware присваивает каждому запросу идентификатор и
// возвращает его клиенту в заголовке X-Request-ID
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID извлекает идентификатор запроса из контекста
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}
