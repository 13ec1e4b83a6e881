package handler

import (
	"net/http"
	"strconv"

	"github.com/callaa/drawpile-listing/internal/config"
	"github.com/callaa/drawpile-listing/internal/errs"
	"github.com/callaa/drawpile-listing/internal/model"
	"github.com/callaa/drawpile-listing/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// The update key travels in a header, not the body, so refresh bodies stay
// pure patches.
const updateKeyHeader = "X-Update-Key"

// SessionHandler handles the listing REST API.
type SessionHandler struct {
	registry *service.Registry
	cfg      *config.Config
	log      *zap.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(registry *service.Registry, cfg *config.Config, log *zap.Logger) *SessionHandler {
	return &SessionHandler{registry: registry, cfg: cfg, log: log}
}

// Root godoc
// GET /
func (h *SessionHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api_name":    "drawpile-session-list",
		"version":     "1.1",
		"name":        h.cfg.ServerName,
		"description": h.cfg.ServerDescription,
		"favicon":     h.cfg.ServerFavicon,
	})
}

// ListSessions godoc
// GET /sessions?title=&protocol=&nsfm=
func (h *SessionHandler) ListSessions(c *gin.Context) {
	filter := model.ListFilter{
		Title:    c.Query("title"),
		Protocol: c.Query("protocol"),
		Nsfm:     c.Query("nsfm") == "true",
	}
	sessions, err := h.registry.List(filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// AnnounceSession godoc
// POST /sessions
func (h *SessionHandler) AnnounceSession(c *gin.Context) {
	var req model.AnnounceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "json", "message": "Body content is not valid JSON!"})
		return
	}
	resp, err := h.registry.Announce(req, c.ClientIP())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshSession godoc
// PUT /sessions/:id
func (h *SessionHandler) RefreshSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var patch model.RefreshRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "json", "message": "Body content is not valid JSON!"})
		return
	}
	if err := h.registry.Refresh(id, c.GetHeader(updateKeyHeader), patch); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UnlistSession godoc
// DELETE /sessions/:id
func (h *SessionHandler) UnlistSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.registry.Unlist(id, c.GetHeader(updateKeyHeader)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// sessionID parses the :id path segment. Non-numeric ids get the same
// NOTFOUND a missing row would.
func (h *SessionHandler) sessionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   string(errs.KindNotFound),
			"message": "Session ID not found",
		})
		return 0, false
	}
	return id, true
}

// writeError maps domain error kinds to HTTP statuses. Anything that is not
// a domain error is a storage failure: logged here, opaque to the caller.
func (h *SessionHandler) writeError(c *gin.Context, err error) {
	if e, ok := errs.As(err); ok {
		c.JSON(statusFor(e.Kind), gin.H{"error": string(e.Kind), "message": e.Message})
		return
	}
	h.log.Error("storage failure", zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "error", "message": "database error"})
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindBadData, errs.KindLocalIP:
		return http.StatusUnprocessableEntity
	case errs.KindRateLimit, errs.KindDuplicate:
		return http.StatusTooManyRequests
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindBadKey:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
