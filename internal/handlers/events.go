// internal/handlers/events.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/deadserious/poker/internal/game"
	"github.com/deadserious/poker/internal/postoffice"
)

// LobbyEventsHandler streams the caller's lobby events as SSE. Clients use
// the event name to decide which fragment to re-fetch; the data line is a
// bare refresh hint.
func LobbyEventsHandler(logger *logrus.Logger, e *game.Engine, post *postoffice.PostOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := EnsureIdentity(w, r)
		lobby, ok := e.LobbyByUserID(id.UserID)
		if !ok {
			http.Error(w, "not in a lobby", http.StatusBadRequest)
			return
		}
		streamEvents(logger, w, r, post, func(ev postoffice.Event) bool {
			return ev.LobbyID == lobby.ID
		})
	}
}

// DashboardEventsHandler streams dashboard:update events so the lobby list
// can refresh itself.
func DashboardEventsHandler(logger *logrus.Logger, post *postoffice.PostOffice) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		EnsureIdentity(w, r)
		streamEvents(logger, w, r, post, func(ev postoffice.Event) bool {
			return ev.Type == postoffice.EventDashboardUpdate
		})
	}
}

// streamEvents writes matching post office events to the response as SSE
// frames until the client disconnects.
func streamEvents(logger *logrus.Logger, w http.ResponseWriter, r *http.Request, post *postoffice.PostOffice, match func(postoffice.Event) bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := make(chan postoffice.Event, 16)
	unwatch := post.Watch(func(ev postoffice.Event) {
		if !match(ev) {
			return
		}
		select {
		case events <- ev:
		default:
			// Slow consumer; drop rather than block the sender.
		}
	})
	defer unwatch()

	logger.WithField("remote", r.RemoteAddr).Debug("event stream opened")

	for {
		select {
		case <-r.Context().Done():
			logger.WithField("remote", r.RemoteAddr).Debug("event stream closed")
			return
		case ev := <-events:
			fmt.Fprintf(w, "event: %s\ndata: 1\n\n", ev.Type)
			flusher.Flush()
		}
	}
}
