package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is the database health probe; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// UserCounter reports how many users exist, for /db-check.
type UserCounter func(ctx context.Context) (int64, error)

type SystemHandler struct {
	name    string
	version string
	started time.Time
	db      Pinger
	users   UserCounter

	mu     sync.RWMutex
	router *gin.Engine
}

func NewSystemHandler(name, version string, db Pinger, users UserCounter) *SystemHandler {
	return &SystemHandler{name: name, version: version, started: time.Now(), db: db, users: users}
}

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func (h *SystemHandler) SetRouter(r *gin.Engine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.router = r
}

// GET /api/health
func (h *SystemHandler) Health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.name,
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// GET /api/db-check
func (h *SystemHandler) DBCheck(c *gin.Context) {
	if h.db == nil {
		respondError(c, http.StatusServiceUnavailable, "unavailable", "database not connected", nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		respondError(c, http.StatusServiceUnavailable, "unavailable", "database ping failed: "+err.Error(), nil)
		return
	}
	out := gin.H{"status": "ok"}
	if h.users != nil {
		n, err := h.users(ctx)
		if err != nil {
			respondError(c, http.StatusServiceUnavailable, "unavailable", "database query failed: "+err.Error(), nil)
			return
		}
		out["usersInDb"] = n
	}
	respond(c, http.StatusOK, out)
}

type routeInfo struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Handler string `json:"handler"`
}

// GET /api/routes
func (h *SystemHandler) Routes(c *gin.Context) {
	h.mu.RLock()
	r := h.router
	h.mu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "unavailable", "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]routeInfo, 0, len(routes))
	for _, rt := range routes {
		out = append(out, routeInfo{Method: rt.Method, Path: rt.Path, Handler: rt.Handler})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Method < out[j].Method
		}
		return out[i].Path < out[j].Path
	})
	respond(c, http.StatusOK, out)
}
