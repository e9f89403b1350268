package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sellerbridge/backend/internal/infrastructure/cache"
	"github.com/sellerbridge/backend/internal/interfaces/http/dto"
)

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	cache     *cache.ResponseCache
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. responseCache may be
// nil when caching is disabled.
func NewSystemHandler(name, version string, responseCache *cache.ResponseCache) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		cache:     responseCache,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	GoVersion string          `json:"go_version"`
	Uptime    string          `json:"uptime"`
	Cache     *CacheStatsInfo `json:"cache,omitempty"`
}

// CacheStatsInfo reports response cache counters in the info payload
type CacheStatsInfo struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// Health is the liveness probe
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ping responds with pong and the server time
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message":   "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}))
}

// Info returns basic system information
func (h *SystemHandler) Info(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.cache != nil {
		hits, misses := h.cache.Stats()
		info.Cache = &CacheStatsInfo{
			Entries: h.cache.Len(),
			Hits:    hits,
			Misses:  misses,
		}
	}
	h.Success(c, info)
}
