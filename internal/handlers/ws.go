// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/deadserious/poker/internal/game"
	"github.com/deadserious/poker/internal/postoffice"
)

// LobbyWSHandler streams the caller's lobby events over a websocket as JSON
// frames, mirroring the SSE stream for clients that prefer a socket.
func LobbyWSHandler(logger *logrus.Logger, e *game.Engine, post *postoffice.PostOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := EnsureIdentity(w, r)
		lobby, ok := e.LobbyByUserID(id.UserID)
		if !ok {
			http.Error(w, "not in a lobby", http.StatusBadRequest)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"poker"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		events := make(chan postoffice.Event, 16)
		unwatch := post.Watch(func(ev postoffice.Event) {
			if ev.LobbyID != lobby.ID {
				return
			}
			select {
			case events <- ev:
			default:
			}
		})
		defer unwatch()

		logger.WithFields(logrus.Fields{
			"remote":   r.RemoteAddr,
			"lobby_id": lobby.ID,
		}).Info("websocket connected")

		// The socket is push-only; drain reads so pings are handled and a
		// client close ends the stream.
		go func() {
			defer cancel()
			for {
				if _, _, err := c.Read(ctx); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				c.Close(websocket.StatusNormalClosure, "")
				return
			case ev := <-events:
				buf, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				if err := c.Write(ctx, websocket.MessageText, buf); err != nil {
					logger.Debugf("websocket write failed: %v", err)
					return
				}
			}
		}
	}
}
