package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Заголовок, через который клиент может передать собственный ID запроса.
const requestIDHeader = "X-Request-Id"

// RequestIDFromContext возвращает ID текущего запроса или пустую строку.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID присваивает каждому запросу ID: берёт клиентский из
// заголовка либо генерирует новый, и дублирует его в ответ.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// WithAccessLog пишет строку журнала доступа по завершении каждого запроса.
func WithAccessLog(logger *log.Entry, next http.Handler) http.Handler {
	if logger == nil {
		logger = log.New().WithField("component", "rest")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"request_id": RequestIDFromContext(r.Context()),
		}).Info("request handled")
	})
}
