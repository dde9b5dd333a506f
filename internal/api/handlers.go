package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/savegress/taskflow/internal/jobs"
	"github.com/savegress/taskflow/internal/store"
	"github.com/savegress/taskflow/pkg/models"
	"github.com/savegress/taskflow/pkg/workerpool"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	engine *jobs.Engine
}

// NewHandlers creates new handlers
func NewHandlers(engine *jobs.Engine) *Handlers {
	return &Handlers{
		engine: engine,
	}
}

// Response helpers
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Error: message})
}

// Health check
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Job handlers

func (h *Handlers) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var req models.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.engine.Submit(r.Context(), &req)
	if err != nil {
		if errors.Is(err, workerpool.ErrPoolClosed) {
			writeError(w, http.StatusServiceUnavailable, "Pool is shutting down")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, rec)
}

func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.engine.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	records, err := h.engine.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  records,
		"count": len(records),
	})
}

// Stats/Overview
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.engine.Counts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	poolStats := h.engine.PoolStats()
	stats := map[string]interface{}{
		"jobs": counts,
		"pool": map[string]interface{}{
			"active_workers":  poolStats.ActiveWorkers,
			"queued_jobs":     poolStats.QueuedJobs,
			"submitted_jobs":  poolStats.SubmittedJobs,
			"completed_jobs":  poolStats.CompletedJobs,
			"average_latency": poolStats.AverageLatency.String(),
			"uptime":          poolStats.Uptime.String(),
		},
	}

	writeJSON(w, http.StatusOK, stats)
}
