// Package protocol defines the JSON wire messages exchanged between the
// game server and player clients, and the boundary codec that turns raw
// text frames into typed messages.
//
// Every message is a JSON object with a required "type" discriminator.
// Unknown or malformed frames are rejected here so nothing deeper in the
// server ever sees them.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/pkg/skirmish"
)

// Message type discriminators.
const (
	TypePlayerAssigned   = "PLAYER_ASSIGNED"
	TypeStartGame        = "START_GAME"
	TypeNextTurn         = "NEXT_TURN"
	TypeInvalidOperation = "INVALID_OPERATION"
	TypeEndGame          = "END_GAME"
	TypeAction           = "ACTION"
)

var (
	// ErrBlankFrame marks an empty or whitespace-only frame.
	ErrBlankFrame = errors.New("blank frame")
	// ErrMissingType marks a frame without a "type" field.
	ErrMissingType = errors.New("missing type field")
)

// UnknownTypeError marks a frame whose "type" is not in the enumerated set.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown message type %q", e.Type)
}

// Unit is the wire shape of a board unit. Owner is null iff the unit is
// food.
type Unit struct {
	ID       int               `json:"id"`
	Owner    *string           `json:"owner"`
	Type     string            `json:"type"`
	Position skirmish.Position `json:"position"`
}

// Action is the wire shape of a single pawn order.
type Action struct {
	UnitID    int    `json:"unitId"`
	Direction string `json:"direction"`
}

// GameDelta is the wire shape of a structural state diff.
type GameDelta struct {
	AddedOrModified []Unit `json:"addedOrModified"`
	Removed         []int  `json:"removed"`
	Timestamp       int64  `json:"timestamp"`
}

// GameStateBody carries a full unit snapshot inside NEXT_TURN.
type GameStateBody struct {
	Units   []Unit `json:"units"`
	StartAt int64  `json:"startAt"`
}

// PlayerAssigned is sent exactly once right after seat assignment.
type PlayerAssigned struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

// GameStartBody carries the map and initial units of START_GAME.
type GameStartBody struct {
	Map          skirmish.MapLayout `json:"map"`
	InitialUnits []Unit             `json:"initialUnits"`
	Timestamp    int64              `json:"timestamp"`
}

// StartGame is broadcast when both seats are filled.
type StartGame struct {
	Type      string        `json:"type"`
	GameStart GameStartBody `json:"gameStart"`
}

// NextTurn is unicast to the active player at the start of their half-turn.
type NextTurn struct {
	Type      string        `json:"type"`
	PlayerID  string        `json:"playerId"`
	GameState GameStateBody `json:"gameState"`
}

// InvalidOperation is unicast to a player whose action batch failed
// validation.
type InvalidOperation struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Reason   string `json:"reason"`
}

// GameEndBody carries the replayable outcome of a finished game.
type GameEndBody struct {
	Map       skirmish.MapLayout `json:"map"`
	Deltas    []GameDelta        `json:"deltas"`
	WinnerID  *string            `json:"winnerId,omitempty"`
	Timestamp int64              `json:"timestamp"`
}

// EndGame is broadcast exactly once on termination.
type EndGame struct {
	Type    string      `json:"type"`
	GameEnd GameEndBody `json:"gameEnd"`
}

// ActionBatch is the client's reply to NEXT_TURN. Null batch elements are
// preserved as nil pointers so the engine can reject them.
type ActionBatch struct {
	Type     string    `json:"type"`
	PlayerID string    `json:"playerId"`
	Actions  []*Action `json:"actions"`
}

// Decode parses one inbound text frame into a typed message. It enforces
// the frame-level invariants: a blank payload, a missing "type" or a type
// outside the enumerated set all fail without producing a message.
func Decode(data []byte) (any, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrBlankFrame
	}

	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	if envelope.Type == "" {
		return nil, ErrMissingType
	}

	var msg any
	switch envelope.Type {
	case TypePlayerAssigned:
		msg = &PlayerAssigned{}
	case TypeStartGame:
		msg = &StartGame{}
	case TypeNextTurn:
		msg = &NextTurn{}
	case TypeInvalidOperation:
		msg = &InvalidOperation{}
	case TypeEndGame:
		msg = &EndGame{}
	case TypeAction:
		msg = &ActionBatch{}
	default:
		return nil, &UnknownTypeError{Type: envelope.Type}
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("malformed %s frame: %w", envelope.Type, err)
	}
	return msg, nil
}

// UnitFromGame converts an engine unit to its wire shape.
func UnitFromGame(u skirmish.Unit) Unit {
	wu := Unit{ID: u.ID, Type: string(u.Kind), Position: u.Position}
	if u.Kind != skirmish.UnitFood {
		owner := u.Owner
		wu.Owner = &owner
	}
	return wu
}

// UnitsFromGame converts a unit slice to wire shapes.
func UnitsFromGame(units []skirmish.Unit) []Unit {
	out := make([]Unit, len(units))
	for i, u := range units {
		out[i] = UnitFromGame(u)
	}
	return out
}

// ToGame converts a wire unit back to its engine shape.
func (u Unit) ToGame() skirmish.Unit {
	gu := skirmish.Unit{ID: u.ID, Kind: skirmish.UnitKind(u.Type), Position: u.Position}
	if u.Owner != nil {
		gu.Owner = *u.Owner
	}
	return gu
}

// ToGame converts a wire action to its engine shape, preserving nils.
func (a *Action) ToGame() *skirmish.Action {
	if a == nil {
		return nil
	}
	return &skirmish.Action{UnitID: a.UnitID, Direction: skirmish.Direction(a.Direction)}
}

// ActionsToGame converts a wire action batch, preserving null elements.
func ActionsToGame(actions []*Action) []*skirmish.Action {
	out := make([]*skirmish.Action, len(actions))
	for i, a := range actions {
		out[i] = a.ToGame()
	}
	return out
}

// DeltaFromGame converts an engine delta to its wire shape.
func DeltaFromGame(d skirmish.Delta) GameDelta {
	wd := GameDelta{
		AddedOrModified: UnitsFromGame(d.AddedOrModified),
		Removed:         d.Removed,
		Timestamp:       d.Timestamp.UnixMilli(),
	}
	if wd.AddedOrModified == nil {
		wd.AddedOrModified = []Unit{}
	}
	if wd.Removed == nil {
		wd.Removed = []int{}
	}
	return wd
}

// NewPlayerAssigned builds a PLAYER_ASSIGNED message.
func NewPlayerAssigned(playerID string) *PlayerAssigned {
	return &PlayerAssigned{Type: TypePlayerAssigned, PlayerID: playerID}
}

// NewStartGame builds a START_GAME broadcast from the initial state.
func NewStartGame(layout skirmish.MapLayout, gs *skirmish.GameState) *StartGame {
	return &StartGame{
		Type: TypeStartGame,
		GameStart: GameStartBody{
			Map:          layout,
			InitialUnits: UnitsFromGame(gs.Units),
			Timestamp:    gs.StartAt.UnixMilli(),
		},
	}
}

// NewNextTurn builds the turn prompt for the active player.
func NewNextTurn(playerID string, gs *skirmish.GameState) *NextTurn {
	return &NextTurn{
		Type:     TypeNextTurn,
		PlayerID: playerID,
		GameState: GameStateBody{
			Units:   UnitsFromGame(gs.Units),
			StartAt: gs.StartAt.UnixMilli(),
		},
	}
}

// NewInvalidOperation builds the validation failure notice.
func NewInvalidOperation(playerID, reason string) *InvalidOperation {
	return &InvalidOperation{Type: TypeInvalidOperation, PlayerID: playerID, Reason: reason}
}

// NewEndGame builds the END_GAME broadcast. winnerID empty means a draw.
func NewEndGame(layout skirmish.MapLayout, deltas []skirmish.Delta, winnerID string, at time.Time) *EndGame {
	body := GameEndBody{
		Map:       layout,
		Deltas:    make([]GameDelta, len(deltas)),
		Timestamp: at.UnixMilli(),
	}
	for i, d := range deltas {
		body.Deltas[i] = DeltaFromGame(d)
	}
	if winnerID != "" {
		body.WinnerID = &winnerID
	}
	return &EndGame{Type: TypeEndGame, GameEnd: body}
}

// NewActionBatch builds a client ACTION message.
func NewActionBatch(playerID string, actions []*skirmish.Action) *ActionBatch {
	batch := &ActionBatch{Type: TypeAction, PlayerID: playerID, Actions: make([]*Action, len(actions))}
	for i, a := range actions {
		if a != nil {
			batch.Actions[i] = &Action{UnitID: a.UnitID, Direction: string(a.Direction)}
		}
	}
	return batch
}
