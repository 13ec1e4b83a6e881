package handler

import (
	"github.com/callaa/drawpile-listing/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WatchHandler serves the listing watch feed on GET /ws/sessions.
type WatchHandler struct {
	hub *service.FeedHub
	log *zap.Logger
}

// NewWatchHandler creates the watch feed handler.
func NewWatchHandler(hub *service.FeedHub, log *zap.Logger) *WatchHandler {
	return &WatchHandler{hub: hub, log: log}
}

// ServeWS upgrades the request to WebSocket and streams listing change
// events until the client disconnects. The feed is one-way; incoming frames
// are drained and discarded.
func (h *WatchHandler) ServeWS(c *gin.Context) {
	conn, err := h.hub.Upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub, cleanup := h.hub.Subscribe(conn)
	defer cleanup()

	go h.writePump(sub)
	h.readPump(sub)
}

func (h *WatchHandler) readPump(s *service.Subscriber) {
	defer func() {
		_ = s.Conn.Close()
	}()
	for {
		if _, _, err := s.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("read error", zap.Error(err))
			}
			break
		}
	}
}

func (h *WatchHandler) writePump(s *service.Subscriber) {
	defer func() {
		_ = s.Conn.Close()
	}()
	for data := range s.Send {
		if err := s.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
}
