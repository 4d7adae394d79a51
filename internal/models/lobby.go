// internal/models/lobby.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is a single user's estimate for a story. Value is an opaque token
// like "5", "M" or "☕"; the engine never interprets it.
type Vote struct {
	UserID   uuid.UUID `json:"userId"`
	UserName string    `json:"userName"`
	Value    string    `json:"value"`
	CastAt   time.Time `json:"castAt"`
}

// Story is one unit of work to be estimated. The narrative fields are
// generated flavor text, immutable after creation. A nil StartedAt means the
// story has not been opened for voting yet; a nil RevealedAt means the votes
// are still hidden.
type Story struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	As         string     `json:"as"`
	Want       string     `json:"want"`
	Reason     string     `json:"reason"`
	Votes      []Vote     `json:"votes"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	RevealedAt *time.Time `json:"revealedAt,omitempty"`
}

// InProgress reports whether the story is open for voting but not revealed.
func (s *Story) InProgress() bool {
	return s.StartedAt != nil && s.RevealedAt == nil
}

// Clone returns a deep copy of the story.
func (s Story) Clone() Story {
	out := s
	out.Votes = append([]Vote(nil), s.Votes...)
	if s.StartedAt != nil {
		t := *s.StartedAt
		out.StartedAt = &t
	}
	if s.RevealedAt != nil {
		t := *s.RevealedAt
		out.RevealedAt = &t
	}
	return out
}

// Lobby is a bounded group of users jointly estimating a batch of stories.
// Stories are ordered; the order is the estimation order.
type Lobby struct {
	ID          uuid.UUID `json:"lobbyId"`
	Name        string    `json:"lobbyName"`
	CreatedAt   time.Time `json:"createdAt"`
	Capacity    int       `json:"capacity"`
	SeatedCount int       `json:"seatedCount"`
	Stories     []Story   `json:"stories"`
}

// Full reports whether every seat is taken.
func (l *Lobby) Full() bool {
	return l.SeatedCount >= l.Capacity
}

// CurrentStory returns the earliest story that is open for voting but not
// yet revealed, or nil if the lobby is between stories or finished.
func (l *Lobby) CurrentStory() *Story {
	for i := range l.Stories {
		if l.Stories[i].InProgress() {
			return &l.Stories[i]
		}
	}
	return nil
}

// Clone returns a deep copy safe to hand outside the engine.
func (l *Lobby) Clone() *Lobby {
	out := *l
	out.Stories = make([]Story, len(l.Stories))
	for i, s := range l.Stories {
		out.Stories[i] = s.Clone()
	}
	return &out
}

// LobbyUser is a membership-index entry: which lobby a user currently
// occupies, and under what display name.
type LobbyUser struct {
	UserID   uuid.UUID `json:"userId"`
	UserName string    `json:"userName"`
	LobbyID  uuid.UUID `json:"lobbyId"`
}
