// internal/postoffice/postoffice.go
package postoffice

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Event types emitted by the game engine. The post office does not filter;
// consumers match on Type and LobbyID themselves.
const (
	EventDashboardUpdate = "dashboard:update"
	EventLobbyUpdate     = "lobby:update"
	EventStoryUpdate     = "story:update"
	EventVoteUpdate      = "story:vote:update"
	EventVoteFinish      = "story:vote:finish"
	EventStoryFinish     = "story:finish"
)

// Event is a single notification about a lobby. Payload is optional and
// event-type specific (e.g. the current vote count for vote events).
type Event struct {
	Type    string      `json:"type"`
	LobbyID uuid.UUID   `json:"lobbyId"`
	Payload interface{} `json:"payload,omitempty"`
}

// Handler receives events. Handlers run synchronously on the sender's
// goroutine and must not call back into the engine, or they will deadlock.
type Handler func(Event)

type subscriber struct {
	id uint64
	fn Handler
}

// PostOffice is a process-wide, in-memory pub/sub channel. There is no
// buffering and no replay: an event is delivered to exactly the handlers
// registered at the moment Send is called, in registration order.
type PostOffice struct {
	mu   sync.Mutex
	next uint64
	subs []subscriber
}

// New returns an empty PostOffice. It lives for the whole process; there is
// no teardown beyond process exit.
func New() *PostOffice {
	return &PostOffice{}
}

// Watch registers fn for every subsequent Send. The returned function
// removes the registration; calling it more than once is a no-op.
func (p *PostOffice) Watch(fn Handler) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	id := p.next
	p.subs = append(p.subs, subscriber{id: id, fn: fn})
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, s := range p.subs {
			if s.id == id {
				p.subs = append(p.subs[:i], p.subs[i+1:]...)
				return
			}
		}
	}
}

// Send delivers ev to every currently registered handler, synchronously, in
// registration order. Handlers registered or removed during delivery do not
// affect the in-flight delivery. A panicking handler is logged and skipped;
// the remaining handlers still receive the event.
func (p *PostOffice) Send(ev Event) {
	p.mu.Lock()
	snapshot := make([]subscriber, len(p.subs))
	copy(snapshot, p.subs)
	p.mu.Unlock()

	for _, s := range snapshot {
		deliver(s, ev)
	}
}

func deliver(s subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"type":     ev.Type,
				"lobby_id": ev.LobbyID,
				"panic":    r,
			}).Error("post office handler panicked")
		}
	}()
	s.fn(ev)
}
