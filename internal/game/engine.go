// internal/game/engine.go
package game

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/deadserious/poker/internal/config"
	"github.com/deadserious/poker/internal/models"
	"github.com/deadserious/poker/internal/postoffice"
)

// Engine owns every lobby, story and vote in the process, plus the
// membership index mapping each user to their single current lobby. All
// state lives behind one mutex, so operations are serialized; callers only
// ever receive deep-copied snapshots, never live references.
//
// Events are sent while the mutex is held, which is what guarantees
// per-lobby emission order. Post office handlers therefore must not call
// back into the Engine.
type Engine struct {
	mu      sync.Mutex
	lobbies map[uuid.UUID]*models.Lobby
	members map[uuid.UUID]models.LobbyUser // userID -> current membership
	reveals map[revealKey]*time.Timer      // pending deferred reveals

	post *postoffice.PostOffice
	cfg  config.Config

	// Overridable in tests; default to time.Now and uuid.New.
	now   func() time.Time
	newID func() uuid.UUID
}

// revealKey identifies a pending reveal so lobby deletion can cancel it.
type revealKey struct {
	lobbyID uuid.UUID
	storyID uuid.UUID
}

// NewEngine returns an empty engine publishing to post.
func NewEngine(post *postoffice.PostOffice, cfg config.Config) *Engine {
	return &Engine{
		lobbies: make(map[uuid.UUID]*models.Lobby),
		members: make(map[uuid.UUID]models.LobbyUser),
		reveals: make(map[revealKey]*time.Timer),
		post:    post,
		cfg:     cfg,
		now:     time.Now,
		newID:   uuid.New,
	}
}

// LobbyFilter restricts the output of Lobbies.
type LobbyFilter struct {
	// NotFull drops lobbies with no free seats.
	NotFull bool
}

// Lobbies returns snapshots of all lobbies, ordered by creation time.
func (e *Engine) Lobbies(filter LobbyFilter) []*models.Lobby {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*models.Lobby, 0, len(e.lobbies))
	for _, l := range e.lobbies {
		if filter.NotFull && l.Full() {
			continue
		}
		out = append(out, l.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// LobbyByID returns a snapshot of the lobby, if it exists.
func (e *Engine) LobbyByID(lobbyID uuid.UUID) (*models.Lobby, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.lobbies[lobbyID]
	if !ok {
		return nil, false
	}
	return l.Clone(), true
}

// LobbyByUserID returns a snapshot of the lobby the user currently occupies.
func (e *Engine) LobbyByUserID(userID uuid.UUID) (*models.Lobby, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	member, ok := e.members[userID]
	if !ok {
		return nil, false
	}
	l, ok := e.lobbies[member.LobbyID]
	if !ok {
		return nil, false
	}
	return l.Clone(), true
}

// LobbyUsers returns the membership entries seated in the lobby. Order is
// unspecified beyond being stable for a given snapshot.
func (e *Engine) LobbyUsers(lobbyID uuid.UUID) ([]models.LobbyUser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.lobbies[lobbyID]; !ok {
		return nil, ErrLobbyNotFound
	}
	var users []models.LobbyUser
	for _, m := range e.members {
		if m.LobbyID == lobbyID {
			users = append(users, m)
		}
	}
	return users, nil
}

// CreateLobby creates a fresh lobby with a generated story batch and seats
// the founder. A user who is already in another lobby leaves it first.
func (e *Engine) CreateLobby(userID uuid.UUID, userName string) *models.Lobby {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.leaveLocked(userID)

	lobby := &models.Lobby{
		ID:          e.newID(),
		Name:        GenerateProjectName(),
		CreatedAt:   e.now(),
		Capacity:    e.cfg.LobbyCapacity,
		SeatedCount: 1,
		Stories:     e.generateStories(),
	}
	e.lobbies[lobby.ID] = lobby
	e.members[userID] = models.LobbyUser{UserID: userID, UserName: userName, LobbyID: lobby.ID}

	log.WithFields(log.Fields{
		"lobby_id": lobby.ID,
		"name":     lobby.Name,
		"user_id":  userID,
	}).Info("lobby created")

	e.post.Send(postoffice.Event{Type: postoffice.EventDashboardUpdate, LobbyID: lobby.ID})
	return lobby.Clone()
}

// JoinLobby seats the user in the lobby. A user who is already in another
// lobby leaves it first; rejoining the lobby they are already in is a no-op.
// Returns ErrLobbyFull without any state change when no seat is free.
func (e *Engine) JoinLobby(lobbyID, userID uuid.UUID, userName string) (*models.Lobby, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lobby, ok := e.lobbies[lobbyID]
	if !ok {
		return nil, ErrLobbyNotFound
	}
	if member, ok := e.members[userID]; ok && member.LobbyID == lobbyID {
		return lobby.Clone(), nil
	}
	if lobby.Full() {
		return nil, ErrLobbyFull
	}

	e.leaveLocked(userID)

	lobby.SeatedCount++
	e.members[userID] = models.LobbyUser{UserID: userID, UserName: userName, LobbyID: lobbyID}

	e.post.Send(postoffice.Event{Type: postoffice.EventDashboardUpdate, LobbyID: lobbyID})
	if lobby.Full() {
		// This join filled the last seat.
		e.post.Send(postoffice.Event{Type: postoffice.EventStoryUpdate, LobbyID: lobbyID})
	} else {
		e.post.Send(postoffice.Event{Type: postoffice.EventLobbyUpdate, LobbyID: lobbyID})
	}
	return lobby.Clone(), nil
}

// LeaveLobby removes the user from their current lobby, if any. When the
// last seat empties, the lobby is deleted and its pending reveals are
// cancelled.
func (e *Engine) LeaveLobby(userID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.leaveLocked(userID)
}

// leaveLocked is the leave procedure shared by LeaveLobby, CreateLobby and
// JoinLobby. Caller holds e.mu.
func (e *Engine) leaveLocked(userID uuid.UUID) {
	member, ok := e.members[userID]
	if !ok {
		return
	}
	delete(e.members, userID)

	lobby, ok := e.lobbies[member.LobbyID]
	if !ok {
		// Stale membership entry; nothing left to update.
		return
	}

	if lobby.SeatedCount > 0 {
		lobby.SeatedCount--
	}
	if lobby.SeatedCount == 0 {
		e.deleteLobbyLocked(lobby.ID)
	} else {
		e.post.Send(postoffice.Event{Type: postoffice.EventLobbyUpdate, LobbyID: lobby.ID})
	}
	e.post.Send(postoffice.Event{Type: postoffice.EventDashboardUpdate, LobbyID: lobby.ID})
}

// StartStory opens the next story for voting. If a story is already in
// progress it is returned unchanged, keeping a single story in progress per
// lobby. Returns ErrNoMoreStories once the batch is exhausted.
func (e *Engine) StartStory(lobbyID uuid.UUID) (*models.Story, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lobby, ok := e.lobbies[lobbyID]
	if !ok {
		return nil, ErrLobbyNotFound
	}
	if current := lobby.CurrentStory(); current != nil {
		clone := current.Clone()
		return &clone, nil
	}
	story := e.startNextLocked(lobby)
	if story == nil {
		return nil, ErrNoMoreStories
	}
	clone := story.Clone()
	return &clone, nil
}

// startNextLocked opens the first never-started story, if any, and emits
// story:update. Caller holds e.mu.
func (e *Engine) startNextLocked(lobby *models.Lobby) *models.Story {
	for i := range lobby.Stories {
		s := &lobby.Stories[i]
		if s.StartedAt == nil {
			t := e.now()
			s.StartedAt = &t
			e.post.Send(postoffice.Event{Type: postoffice.EventStoryUpdate, LobbyID: lobby.ID})
			return s
		}
	}
	return nil
}

// VoteStory upserts the caller's vote on an open story and returns the
// resulting vote count. Returns ErrVotingClosed once the story already holds
// one vote per seat. The final vote emits story:vote:finish and schedules
// the deferred reveal.
func (e *Engine) VoteStory(lobbyID, storyID, userID uuid.UUID, userName, value string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	lobby, ok := e.lobbies[lobbyID]
	if !ok {
		return 0, ErrLobbyNotFound
	}
	story := findStory(lobby, storyID)
	if story == nil {
		return 0, ErrStoryNotFound
	}
	if len(story.Votes) >= lobby.SeatedCount {
		return len(story.Votes), ErrVotingClosed
	}

	vote := models.Vote{UserID: userID, UserName: userName, Value: value, CastAt: e.now()}
	replaced := false
	for i := range story.Votes {
		if story.Votes[i].UserID == userID {
			story.Votes[i] = vote
			replaced = true
			break
		}
	}
	if !replaced {
		story.Votes = append(story.Votes, vote)
	}

	count := len(story.Votes)
	if count == lobby.SeatedCount {
		e.post.Send(postoffice.Event{Type: postoffice.EventVoteFinish, LobbyID: lobbyID, Payload: count})
		e.scheduleRevealLocked(lobbyID, storyID)
	} else {
		e.post.Send(postoffice.Event{Type: postoffice.EventVoteUpdate, LobbyID: lobbyID, Payload: count})
	}
	return count, nil
}

// scheduleRevealLocked arms the deferred reveal for a fully voted story.
// Caller holds e.mu.
func (e *Engine) scheduleRevealLocked(lobbyID, storyID uuid.UUID) {
	key := revealKey{lobbyID: lobbyID, storyID: storyID}
	if _, armed := e.reveals[key]; armed {
		return
	}
	e.reveals[key] = time.AfterFunc(e.cfg.RevealDelay, func() {
		e.reveal(key)
	})
}

// reveal runs when a reveal timer fires: it exposes the story's votes, opens
// the next story and nudges watchers to re-fetch. A lobby or story that
// vanished in the meantime is a benign outcome.
func (e *Engine) reveal(key revealKey) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, armed := e.reveals[key]; !armed {
		// Cancelled between firing and acquiring the lock.
		return
	}
	delete(e.reveals, key)

	lobby, ok := e.lobbies[key.lobbyID]
	if !ok {
		return
	}
	story := findStory(lobby, key.storyID)
	if story == nil {
		return
	}

	t := e.now()
	story.RevealedAt = &t
	e.startNextLocked(lobby)
	e.post.Send(postoffice.Event{Type: postoffice.EventVoteUpdate, LobbyID: lobby.ID})

	log.WithFields(log.Fields{
		"lobby_id": lobby.ID,
		"story_id": story.ID,
	}).Debug("story revealed")
}

// FinishLobby evicts every current member and deletes the lobby.
func (e *Engine) FinishLobby(lobbyID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.lobbies[lobbyID]; !ok {
		return ErrLobbyNotFound
	}
	for userID, member := range e.members {
		if member.LobbyID == lobbyID {
			delete(e.members, userID)
		}
	}
	e.deleteLobbyLocked(lobbyID)
	e.post.Send(postoffice.Event{Type: postoffice.EventStoryFinish, LobbyID: lobbyID})
	e.post.Send(postoffice.Event{Type: postoffice.EventDashboardUpdate, LobbyID: lobbyID})
	return nil
}

// deleteLobbyLocked drops the lobby and cancels its pending reveal timers.
// Caller holds e.mu.
func (e *Engine) deleteLobbyLocked(lobbyID uuid.UUID) {
	for key, timer := range e.reveals {
		if key.lobbyID == lobbyID {
			timer.Stop()
			delete(e.reveals, key)
		}
	}
	delete(e.lobbies, lobbyID)
	log.WithField("lobby_id", lobbyID).Info("lobby deleted")
}

func (e *Engine) generateStories() []models.Story {
	stories := make([]models.Story, e.cfg.StoriesPerLobby)
	for i := range stories {
		as, want, reason := GenerateUserStory()
		stories[i] = models.Story{
			ID:     e.newID(),
			Title:  GenerateStoryTitle(),
			As:     as,
			Want:   want,
			Reason: reason,
			Votes:  []models.Vote{},
		}
	}
	return stories
}

func findStory(lobby *models.Lobby, storyID uuid.UUID) *models.Story {
	for i := range lobby.Stories {
		if lobby.Stories[i].ID == storyID {
			return &lobby.Stories[i]
		}
	}
	return nil
}
