// Package health отдаёт состояние компонентов сервиса по HTTP.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status представляет статус компонента.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Check — результат одной проверки.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Response — ответ health-эндпоинта целиком.
type Response struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Checks        map[string]Check `json:"checks,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// Checker выполняет проверку одного компонента.
type Checker interface {
	Check() Check
}

// CheckerFunc адаптирует функцию к интерфейсу Checker.
type CheckerFunc func() Check

func (f CheckerFunc) Check() Check { return f() }

// Pinger — то, что умеет проверять своё подключение. Ему соответствуют
// Store обоих SQL-бэкендов.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewStorePingChecker создаёт проверку хранилища через Ping.
func NewStorePingChecker(name string, store Pinger) Checker {
	return CheckerFunc(func() Check {
		started := time.Now()
		check := Check{Name: name, Status: StatusHealthy}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		}

		check.DurationMs = time.Since(started).Milliseconds()
		return check
	})
}

// Handler обрабатывает health-check запросы.
type Handler struct {
	mu        sync.RWMutex
	checkers  map[string]Checker
	version   string
	startTime time.Time
}

// NewHandler создаёт новый health handler.
func NewHandler(version string) *Handler {
	return &Handler{
		checkers:  make(map[string]Checker),
		version:   version,
		startTime: time.Now(),
	}
}

// RegisterChecker регистрирует проверку компонента.
func (h *Handler) RegisterChecker(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
}

// ServeHTTP выполняет все проверки и отдаёт агрегированный статус.
func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checkers := make(map[string]Checker, len(h.checkers))
	for k, v := range h.checkers {
		checkers[k] = v
	}
	h.mu.RUnlock()

	checks := make(map[string]Check)
	overallStatus := StatusHealthy
	for name, checker := range checkers {
		check := checker.Check()
		checks[name] = check
		if check.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
		}
	}

	response := Response{
		Status:        overallStatus,
		Timestamp:     time.Now(),
		Checks:        checks,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	statusCode := http.StatusOK
	if overallStatus == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// LivenessHandler — простой liveness probe, всегда 200.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
