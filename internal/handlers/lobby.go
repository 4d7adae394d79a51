// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/deadserious/poker/internal/game"
)

// ListLobbiesHandler returns all lobbies, oldest first. ?notFull=1 keeps
// only lobbies with a free seat.
func ListLobbiesHandler(e *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := game.LobbyFilter{NotFull: r.URL.Query().Get("notFull") == "1"}
		writeJSON(w, http.StatusOK, e.Lobbies(filter))
	}
}

// CreateLobbyHandler creates a lobby seated by the caller and returns it.
func CreateLobbyHandler(e *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := EnsureIdentity(w, r)
		lobby := e.CreateLobby(id.UserID, id.UserName)
		writeJSON(w, http.StatusOK, lobby)
	}
}

// JoinLobbyHandler seats the caller in the requested lobby. When the join
// fills the last seat, the first story is opened for voting.
func JoinLobbyHandler(e *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := EnsureIdentity(w, r)

		var req struct {
			LobbyID uuid.UUID `json:"lobbyId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LobbyID == uuid.Nil {
			http.Error(w, "invalid lobbyId", http.StatusBadRequest)
			return
		}

		lobby, err := e.JoinLobby(req.LobbyID, id.UserID, id.UserName)
		if err != nil {
			writeError(w, err)
			return
		}
		if lobby.Full() {
			if _, err := e.StartStory(lobby.ID); err != nil && !errors.Is(err, game.ErrNoMoreStories) {
				writeError(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, lobby)
	}
}

// LeaveLobbyHandler removes the caller from their current lobby.
func LeaveLobbyHandler(e *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := EnsureIdentity(w, r)
		e.LeaveLobby(id.UserID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// GetLobbyHandler returns the caller's current lobby.
func GetLobbyHandler(e *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := EnsureIdentity(w, r)
		lobby, ok := e.LobbyByUserID(id.UserID)
		if !ok {
			writeError(w, game.ErrLobbyNotFound)
			return
		}
		writeJSON(w, http.StatusOK, lobby)
	}
}

// LobbyUsersHandler returns who is seated in the caller's lobby.
func LobbyUsersHandler(e *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := EnsureIdentity(w, r)
		lobby, ok := e.LobbyByUserID(id.UserID)
		if !ok {
			writeError(w, game.ErrLobbyNotFound)
			return
		}
		users, err := e.LobbyUsers(lobby.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

// FinishLobbyHandler evicts everyone and deletes the caller's lobby.
func FinishLobbyHandler(e *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := EnsureIdentity(w, r)
		lobby, ok := e.LobbyByUserID(id.UserID)
		if !ok {
			writeError(w, game.ErrLobbyNotFound)
			return
		}
		if err := e.FinishLobby(lobby.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "finished"})
	}
}

// StartStoryHandler opens the next story in the caller's lobby for voting.
// Once the batch is exhausted it reports finished instead of failing.
func StartStoryHandler(e *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := EnsureIdentity(w, r)
		lobby, ok := e.LobbyByUserID(id.UserID)
		if !ok {
			writeError(w, game.ErrLobbyNotFound)
			return
		}
		story, err := e.StartStory(lobby.ID)
		if errors.Is(err, game.ErrNoMoreStories) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"finished": true})
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, story)
	}
}

// VoteHandler upserts the caller's vote on a story in their lobby. A closed
// voting window is reported as not accepted, not as an error.
func VoteHandler(e *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := EnsureIdentity(w, r)

		var req struct {
			StoryID uuid.UUID `json:"storyId"`
			Vote    string    `json:"vote"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StoryID == uuid.Nil || req.Vote == "" {
			http.Error(w, "invalid vote request", http.StatusBadRequest)
			return
		}

		lobby, ok := e.LobbyByUserID(id.UserID)
		if !ok {
			writeError(w, game.ErrLobbyNotFound)
			return
		}
		count, err := e.VoteStory(lobby.ID, req.StoryID, id.UserID, id.UserName, req.Vote)
		if errors.Is(err, game.ErrVotingClosed) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"accepted": false, "votes": count})
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"accepted": true, "votes": count})
	}
}
