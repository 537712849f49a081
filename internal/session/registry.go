package session

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/protocol"
)

// Seat identities. The first attached connection gets Player1, the second
// Player2. A freed seat re-issues the same identity to its next occupant.
const (
	Player1 = "player-1"
	Player2 = "player-2"

	// SeatCapacity is the number of concurrent seats; this server runs
	// exactly one two-player game.
	SeatCapacity = 2
)

// ErrCapacityExceeded is returned by Attach when both seats are taken. The
// boundary must close rejected connections with this reason.
var ErrCapacityExceeded = errors.New("seat capacity exceeded")

var seatIdentities = [SeatCapacity]string{Player1, Player2}

type seat struct {
	playerID string
	conn     Conn
}

// Registry is the bounded directory from player identity to transport
// connection. It is mutated from transport goroutines on connect and
// disconnect and read by the orchestrator, so every access is mutex-guarded.
type Registry struct {
	mu     sync.Mutex
	seats  [SeatCapacity]*seat
	events chan<- Event
}

// NewRegistry creates a registry that reports joins and leaves on the given
// inbox.
func NewRegistry(events chan<- Event) *Registry {
	return &Registry{events: events}
}

// Attach assigns the first free seat to the connection and returns the
// issued player identity. Concurrent attaches get disjoint seats.
func (r *Registry) Attach(c Conn) (string, error) {
	r.mu.Lock()
	for i := range r.seats {
		if r.seats[i] != nil {
			continue
		}
		playerID := seatIdentities[i]
		r.seats[i] = &seat{playerID: playerID, conn: c}
		r.mu.Unlock()

		log.Info().Str("playerId", playerID).Str("connId", c.ID()).Msg("Player seated")
		// The assignment notice must be enqueued before JoinEvent is
		// processed so it always precedes START_GAME on the wire.
		if err := c.Send(protocol.NewPlayerAssigned(playerID)); err != nil {
			log.Warn().Err(err).Str("playerId", playerID).Msg("Seat assignment notice failed")
		}
		r.emit(JoinEvent{PlayerID: playerID})
		return playerID, nil
	}
	r.mu.Unlock()
	return "", ErrCapacityExceeded
}

// Detach frees the seat bound to the connection, if any, and notifies the
// orchestrator once. Detaching an unknown connection is a no-op.
func (r *Registry) Detach(connID string) {
	r.mu.Lock()
	var freed string
	for i, s := range r.seats {
		if s != nil && s.conn.ID() == connID {
			freed = s.playerID
			r.seats[i] = nil
			break
		}
	}
	r.mu.Unlock()

	if freed != "" {
		log.Info().Str("playerId", freed).Str("connId", connID).Msg("Seat freed")
		r.emit(LeaveEvent{PlayerID: freed})
	}
}

// Ready reports whether both seats are occupied.
func (r *Registry) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.seats {
		if s == nil {
			return false
		}
	}
	return true
}

// Players returns the seated identities in seat order.
func (r *Registry) Players() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var players []string
	for _, s := range r.seats {
		if s != nil {
			players = append(players, s.playerID)
		}
	}
	return players
}

// Unicast delivers a message to one player. A failed send means the peer is
// gone or hopelessly slow; the connection is closed and the seat detached.
func (r *Registry) Unicast(playerID string, msg any) {
	r.mu.Lock()
	var target Conn
	for _, s := range r.seats {
		if s != nil && s.playerID == playerID {
			target = s.conn
			break
		}
	}
	r.mu.Unlock()

	if target == nil {
		log.Debug().Str("playerId", playerID).Msg("Unicast to detached seat dropped")
		return
	}
	if err := target.Send(msg); err != nil {
		log.Warn().Err(err).Str("playerId", playerID).Msg("Unicast failed, detaching seat")
		target.Close("send failed")
		r.Detach(target.ID())
	}
}

// Broadcast delivers a message to every seated connection. Failures are
// isolated per connection and never propagated to the caller.
func (r *Registry) Broadcast(msg any) {
	r.mu.Lock()
	conns := make([]Conn, 0, SeatCapacity)
	for _, s := range r.seats {
		if s != nil {
			conns = append(conns, s.conn)
		}
	}
	r.mu.Unlock()

	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			log.Warn().Err(err).Str("connId", c.ID()).Msg("Broadcast send failed, detaching seat")
			c.Close("send failed")
			r.Detach(c.ID())
		}
	}
}

// CloseAll closes every seated connection with the given reason and empties
// the registry without emitting leave events. Used during teardown.
func (r *Registry) CloseAll(reason string) {
	r.mu.Lock()
	conns := make([]Conn, 0, SeatCapacity)
	for i, s := range r.seats {
		if s != nil {
			conns = append(conns, s.conn)
			r.seats[i] = nil
		}
	}
	r.mu.Unlock()

	for _, c := range conns {
		c.Close(reason)
	}
}

// emit pushes an event on the inbox without ever blocking a transport
// goroutine. The inbox is sized far beyond anything a
// two-player game produces; overflow indicates a stuck driver.
func (r *Registry) emit(ev Event) {
	select {
	case r.events <- ev:
	default:
		log.Error().Interface("event", ev).Msg("Session inbox full, event dropped")
	}
}
