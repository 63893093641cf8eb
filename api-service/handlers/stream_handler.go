package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"b2bak-backend/api-service/middleware"
	"b2bak-backend/shared/database/models"
)

const streamPollInterval = 2 * time.Second

// StreamNotifications pushes the caller's notifications over a websocket
// @Summary Notification stream
// @Description Long-lived subscription delivering new notifications ordered by creation time. The watermark advances past delivered rows; delivery is at-least-once and the subscription ends when the client disconnects.
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/stream [get]
func (h *Handler) StreamNotifications(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == h.cfg.FrontendURL
		},
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Reader goroutine: we never expect client frames, but reading is how we
	// learn the peer went away.
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	watermark := time.Now().UTC()
	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-disconnected:
			return
		case <-ticker.C:
		}

		var rows []models.Notification
		err := h.db.WithContext(ctx).
			Where("user_id = ? AND created_at > ?", actor.UserID, watermark).
			Order("created_at asc").
			Find(&rows).Error
		if err != nil {
			log.Printf("notification stream query failed: %v", err)
			return
		}

		for _, row := range rows {
			if err := conn.WriteJSON(gin.H{"event": "notification", "data": row}); err != nil {
				return
			}
			if row.CreatedAt.After(watermark) {
				watermark = row.CreatedAt
			}
		}

		// keep-alive ping
		if err := conn.WriteJSON(gin.H{"event": "ping"}); err != nil {
			return
		}
	}
}
