package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/logger"
	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/protocol"
	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/pkg/skirmish"
)

// Result summarizes a finished game from the bot's point of view.
type Result struct {
	PlayerID string
	WinnerID string
	Won      bool
	Turns    int
}

// Client is a websocket player driven by a Strategy.
type Client struct {
	strategy Strategy
	conn     *websocket.Conn
	log      zerolog.Logger

	playerID string
	layout   skirmish.MapLayout
	turns    int
}

// NewClient creates a client using the given strategy. The log gains a
// per-seat field once the server assigns an identity.
func NewClient(strategy Strategy) *Client {
	return &Client{strategy: strategy, log: logger.Get()}
}

// Play connects to the server's /ws endpoint and plays until END_GAME or
// context cancellation. The url is the websocket address, e.g.
// ws://localhost:8009/ws.
func (c *Client) Play(ctx context.Context, url string) (*Result, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c.conn = conn
	defer conn.Close()

	// Abort the blocking read when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("read: %w", err)
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			c.log.Warn().Err(err).Msg("Undecodable server frame")
			continue
		}

		result, gameOver, err := c.handle(msg)
		if err != nil {
			return nil, err
		}
		if gameOver {
			return result, nil
		}
	}
}

// handle processes one server message; the bool return reports game end.
func (c *Client) handle(msg any) (*Result, bool, error) {
	switch m := msg.(type) {
	case *protocol.PlayerAssigned:
		c.playerID = m.PlayerID
		c.log = logger.Get().With().Str("bot", m.PlayerID).Logger()
		c.log.Info().Msg("Seat assigned")

	case *protocol.StartGame:
		c.layout = m.GameStart.Map
		c.log.Info().
			Int("units", len(m.GameStart.InitialUnits)).
			Msg("Game started")

	case *protocol.NextTurn:
		if m.PlayerID != c.playerID {
			return nil, false, nil
		}
		c.turns++
		gs := &skirmish.GameState{StartAt: time.UnixMilli(m.GameState.StartAt)}
		for _, u := range m.GameState.Units {
			gs.Units = append(gs.Units, u.ToGame())
		}
		actions := c.strategy.Act(c.layout, gs, c.playerID)
		batch := protocol.NewActionBatch(c.playerID, actions)
		if err := c.conn.WriteJSON(batch); err != nil {
			return nil, false, fmt.Errorf("send actions: %w", err)
		}

	case *protocol.InvalidOperation:
		// The server keeps the turn on us; strategy bugs surface here.
		c.log.Warn().Str("reason", m.Reason).Msg("Batch rejected by server")

	case *protocol.EndGame:
		result := &Result{PlayerID: c.playerID, Turns: c.turns}
		if m.GameEnd.WinnerID != nil {
			result.WinnerID = *m.GameEnd.WinnerID
			result.Won = result.WinnerID == c.playerID
		}
		c.log.Info().
			Str("winnerId", result.WinnerID).
			Int("deltas", len(m.GameEnd.Deltas)).
			Msg("Game over")
		return result, true, nil
	}
	return nil, false, nil
}
