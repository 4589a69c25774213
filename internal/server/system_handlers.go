package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/salary-predictor/internal/database"
	"github.com/aristath/salary-predictor/internal/modules/model"
)

// SystemHandlers handles process and artifact status endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	configDB    *database.DB
	artifact    *model.Artifact
	stats       func() (float64, float64)
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	configDB *database.DB,
	artifact *model.Artifact,
	startupTime time.Time,
) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		startupTime: startupTime,
		configDB:    configDB,
		artifact:    artifact,
	}
	h.stats = h.getSystemStats
	return h
}

// ArtifactStatus summarizes the loaded model artifact
type ArtifactStatus struct {
	Format     string   `json:"format"`
	Kind       string   `json:"kind"`
	Dataset    string   `json:"dataset"`
	Algorithm  string   `json:"algorithm"`
	Accuracy   float64  `json:"accuracy,omitempty"`
	Features   []string `json:"features"`
	Consistent bool     `json:"consistent"`
	Warning    string   `json:"warning,omitempty"`
}

// SystemStatusResponse is the payload of GET /api/system/status
type SystemStatusResponse struct {
	Status      string          `json:"status"`
	UptimeHours float64         `json:"uptime_hours"`
	CPUPercent  float64         `json:"cpu_percent"`
	RAMPercent  float64         `json:"ram_percent"`
	Goroutines  int             `json:"goroutines"`
	ConfigDB    string          `json:"config_db"`
	Artifact    *ArtifactStatus `json:"artifact,omitempty"`
}

// HandleSystemStatus returns process health and the loaded artifact summary
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, ramPercent := h.stats()
	response := SystemStatusResponse{
		Status:      "healthy",
		UptimeHours: time.Since(h.startupTime).Hours(),
		CPUPercent:  cpuPercent,
		RAMPercent:  ramPercent,
		Goroutines:  runtime.NumGoroutine(),
		ConfigDB:    "ok",
	}

	if h.configDB == nil {
		response.ConfigDB = "unavailable"
		response.Status = "degraded"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.configDB.QuickCheck(ctx); err != nil {
			h.log.Warn().Err(err).Msg("Config database check failed")
			response.ConfigDB = err.Error()
			response.Status = "degraded"
		}
	}

	if h.artifact != nil {
		response.Artifact = h.artifactStatus()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system status")
	}
}

func (h *SystemHandlers) artifactStatus() *ArtifactStatus {
	a := h.artifact
	status := &ArtifactStatus{
		Format:     a.Format,
		Kind:       string(a.Model.Kind),
		Dataset:    a.Metadata.Dataset,
		Algorithm:  a.Metadata.Algorithm,
		Accuracy:   a.Metadata.Accuracy,
		Features:   a.Schema(),
		Consistent: true,
	}
	if err := a.Consistency(); err != nil {
		status.Consistent = false
		status.Warning = err.Error()
	}
	return status
}

// getSystemStats returns CPU and RAM usage percentages.
// The CPU sample window is kept short so the endpoint stays responsive.
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
