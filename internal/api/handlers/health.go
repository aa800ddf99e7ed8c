package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports liveness of the backing services. Redis is optional;
// a nil client (reminders disabled) is left out of the report instead of
// counting as down.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redis *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

type healthReport struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	report := healthReport{Status: "healthy", Services: map[string]string{}}

	mark := func(name string, ok bool) {
		if ok {
			report.Services[name] = "healthy"
			return
		}
		report.Services[name] = "unhealthy"
		report.Status = "unhealthy"
	}

	sqlDB, err := h.db.DB()
	mark("database", err == nil && sqlDB.PingContext(r.Context()) == nil)

	if h.redis != nil {
		mark("redis", h.redis.Ping(r.Context()).Err() == nil)
	}

	code := http.StatusOK
	if report.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(report)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
