package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/HensleyFerrari/rpg-app/internal/notify"
	"github.com/HensleyFerrari/rpg-app/internal/platform/timeouts"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// watchBattle streams full battle snapshots over a websocket. The current
// state is sent immediately, then every committed mutation follows. Slow
// readers miss intermediate states, never the latest one.
func (h *Handler) watchBattle(c *gin.Context) {
	battleID := c.Param("battleID")
	snapshot, err := h.svc.GetBattle(c.Request.Context(), battleID)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		h.logger.Printf("battle api: watch upgrade %s: %v", battleID, err)
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(notify.BattleTopic(battleID))
	defer sub.Cancel()

	// Reader detects client departure; the data flow is one-way.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeSnapshot(conn, toSnapshotView(snapshot)); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case update, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeSnapshot(conn, toSnapshotView(update)); err != nil {
				return
			}
			if update.Deleted {
				deadline := time.Now().Add(timeouts.WatcherWrite)
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "battle deleted"), deadline)
				return
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, view snapshotView) error {
	if err := conn.SetWriteDeadline(time.Now().Add(timeouts.WatcherWrite)); err != nil {
		return err
	}
	return conn.WriteJSON(view)
}
