package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"skallars-social/domain/model"
)

// ShareStatusEvent represents an SSE payload for queue item status updates.
type ShareStatusEvent struct {
	Type     string  `json:"type"`
	ItemID   int64   `json:"item_id"`
	Target   string  `json:"target"`
	Status   string  `json:"status"`
	ShareURL *string `json:"share_url,omitempty"`
	Error    *string `json:"error,omitempty"`
}

// Hub maintains per-user subscribers listening for share status events.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[chan ShareStatusEvent]struct{}
}

func NewShareHub() *Hub {
	return &Hub{users: make(map[string]map[chan ShareStatusEvent]struct{})}
}

// Serve registers an SSE stream for the authenticated user (user_id set by middleware).
func (h *Hub) Serve(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan ShareStatusEvent, 8)
	h.addSubscriber(userID, ch)
	defer h.removeSubscriber(userID, ch)

	// Initial comment to keep connection open
	c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: share_status\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *Hub) addSubscriber(userID string, ch chan ShareStatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[chan ShareStatusEvent]struct{})
	}
	h.users[userID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(userID string, ch chan ShareStatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.users[userID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.users, userID)
		}
	}
}

// BroadcastShareStatus broadcasts to all subscribers of the user who owns the item.
func (h *Hub) BroadcastShareStatus(item *model.ShareQueueItem, shareURL *string) {
	if item == nil {
		return
	}
	evt := ShareStatusEvent{
		Type:     "share_status",
		ItemID:   item.ID,
		Target:   string(item.Target),
		Status:   item.Status,
		ShareURL: shareURL,
		Error:    item.ErrorMessage,
	}
	h.mu.RLock()
	subs := h.users[item.UserID]
	for ch := range subs {
		select { // non-blocking
		case ch <- evt:
		default:
		}
	}
	h.mu.RUnlock()
}
