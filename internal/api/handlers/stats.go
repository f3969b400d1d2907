package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/pvandermeer/vosdns/internal/api/models"
)

// Stats godoc
// @Summary Server statistics
// @Description Returns DNS serving counters plus process and host resource usage
// @Tags system
// @Produce json
// @Success 200 {object} models.ServerStatsResponse
// @Security ApiKeyAuth
// @Router /stats [get]
func (h *Handler) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	resp := models.ServerStatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		NumCPU:        runtime.NumCPU(),
	}

	if h.stats != nil {
		snap := h.stats.Snapshot()
		resp.DNSStats = models.DNSStatsResponse{
			QueriesTotal: snap.QueriesTotal,
			ResponsesOK:  snap.ResponsesOK,
			ResponsesNX:  snap.ResponsesNX,
			ResponsesErr: snap.ResponsesErr,
			Dropped:      snap.Dropped,
			AvgLatencyMs: snap.AvgLatencyMs,
		}
	}

	resp.Host = hostStats()

	c.JSON(http.StatusOK, resp)
}

// hostStats samples host CPU and memory. Best effort: returns nil when the
// platform does not expose the figures.
func hostStats() *models.HostStatsResponse {
	out := &models.HostStatsResponse{}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		out.CPUPercent = percents[0]
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil
	}
	out.MemoryUsedPct = vm.UsedPercent
	out.MemoryUsedMB = float64(vm.Used) / 1024 / 1024
	return out
}
