// Package session owns the game session runtime: the seat registry that
// binds transport connections to player identities, and the single-threaded
// turn orchestrator that drives the world engine.
package session

import "github.com/osharon-scottlogic/sl-hackathon-2026-sub000/pkg/skirmish"

// Conn abstracts one transport connection. Send must not block the caller
// on a slow peer; implementations enqueue and fail fast when the peer
// cannot keep up.
type Conn interface {
	ID() string
	Send(msg any) error
	Close(reason string)
}

// Event is an input to the orchestrator's inbox. All events are processed
// sequentially by the single driver goroutine.
type Event interface {
	sessionEvent()
}

// JoinEvent fires when a connection has been seated.
type JoinEvent struct {
	PlayerID string
}

// LeaveEvent fires exactly once when a seat is freed.
type LeaveEvent struct {
	PlayerID string
}

// ActionEvent carries one player's action batch for the current half-turn.
type ActionEvent struct {
	PlayerID string
	Actions  []*skirmish.Action
}

func (JoinEvent) sessionEvent()   {}
func (LeaveEvent) sessionEvent()  {}
func (ActionEvent) sessionEvent() {}
