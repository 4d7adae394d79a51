// internal/game/errors.go
package game

import "errors"

// Engine errors. All of them are local, recoverable conditions returned to
// the immediate caller; none should crash the process.
var (
	ErrLobbyNotFound = errors.New("lobby not found")
	ErrStoryNotFound = errors.New("story not found")
	ErrLobbyFull     = errors.New("lobby is full")
	ErrVotingClosed  = errors.New("voting is closed for this story")
	ErrNoMoreStories = errors.New("no more stories to start")
)
