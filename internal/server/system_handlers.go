package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/advisor/internal/modules/prediction"
	"github.com/aristath/advisor/internal/scheduler"
)

// SystemHandlers handles system-wide monitoring and operations endpoints
type SystemHandlers struct {
	log       zerolog.Logger
	models    *prediction.Holder
	sched     *scheduler.Scheduler
	sweepJob  scheduler.Job
	startedAt time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, models *prediction.Holder, sched *scheduler.Scheduler, sweepJob scheduler.Job) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("component", "system_handlers").Logger(),
		models:    models,
		sched:     sched,
		sweepJob:  sweepJob,
		startedAt: time.Now(),
	}
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
	Goroutines    int     `json:"goroutines"`
	ModelVersion  string  `json:"model_version"`
	ModelTrained  string  `json:"model_trained_at"`
}

// HandleSystemStatus returns host and model status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	bundle := h.models.Get()

	response := SystemStatusResponse{
		Status:        "running",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
		ModelVersion:  bundle.Version,
		ModelTrained:  bundle.TrainedAt.Format(time.RFC3339),
	}

	writeJSON(h.log, w, http.StatusOK, response)
}

// HandleTriggerSweep runs the price-cache sweep job immediately
// POST /api/system/jobs/price-cache-sweep
func (h *SystemHandlers) HandleTriggerSweep(w http.ResponseWriter, r *http.Request) {
	if h.sched == nil || h.sweepJob == nil {
		h.log.Warn().Msg("Sweep job not registered")
		writeJSON(h.log, w, http.StatusServiceUnavailable, map[string]string{
			"status":  "error",
			"message": "Sweep job not registered",
		})
		return
	}

	h.log.Info().Msg("Manual price cache sweep triggered")

	if err := h.sched.RunNow(h.sweepJob); err != nil {
		h.log.Error().Err(err).Msg("Failed to run sweep job")
		writeJSON(h.log, w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	writeJSON(h.log, w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Price cache sweep completed",
	})
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a 100ms sample so the endpoint responds quickly.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
