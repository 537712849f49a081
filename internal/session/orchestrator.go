package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/protocol"
	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/pkg/skirmish"
)

// Phase is the orchestrator's lifecycle state.
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseRunning Phase = "running"
	PhaseEnded   Phase = "ended"
)

// DefaultStallRounds is the number of consecutive no-change rounds after
// which a game is declared a draw.
const DefaultStallRounds = 1000

var errEngineFault = errors.New("engine fault")

// Orchestrator is the single driver of the game session. It owns the
// authoritative state reference, sequences half-turns, enforces the
// per-half-turn deadline and declares the winner. All inputs arrive on its
// event inbox; the engine is only ever invoked from Run's goroutine.
type Orchestrator struct {
	registry *Registry
	engine   *skirmish.Engine
	settings skirmish.Settings
	events   <-chan Event

	phase      Phase
	players    []string
	state      *skirmish.GameState
	history    []skirmish.Delta
	roundIndex int
	activeSeat int

	winnerID    string
	stallRounds int
	onEnd       func()
}

// NewOrchestrator wires the driver to its collaborators. The events channel
// is the same one the registry and transport boundary write to.
func NewOrchestrator(registry *Registry, engine *skirmish.Engine, settings skirmish.Settings, events <-chan Event) *Orchestrator {
	return &Orchestrator{
		registry:    registry,
		engine:      engine,
		settings:    settings,
		events:      events,
		phase:       PhaseWaiting,
		stallRounds: DefaultStallRounds,
	}
}

// SetStallRounds overrides the draw-on-stall bound.
func (o *Orchestrator) SetStallRounds(n int) {
	if n > 0 {
		o.stallRounds = n
	}
}

// SetShutdownFunc registers the hook invoked after END_GAME has been
// broadcast, used to tear the transport down.
func (o *Orchestrator) SetShutdownFunc(fn func()) {
	o.onEnd = fn
}

// Phase returns the current lifecycle phase. Only safe to call from tests
// after Run has returned.
func (o *Orchestrator) Phase() Phase {
	return o.phase
}

// History returns the accumulated delta history.
func (o *Orchestrator) History() []skirmish.Delta {
	return o.history
}

// WinnerID returns the declared winner, or empty for a draw or an unended
// game. Only safe to call after Run has returned.
func (o *Orchestrator) WinnerID() string {
	return o.winnerID
}

// Run drives the session to completion: wait for two seats, play the game,
// broadcast the outcome. It returns once the game has ended or the context
// is cancelled.
func (o *Orchestrator) Run(ctx context.Context) {
	log.Info().Msg("Session driver started, waiting for players")

	for o.phase == PhaseWaiting {
		select {
		case <-ctx.Done():
			o.endGame("", "shutdown requested")
			return
		case ev := <-o.events:
			switch ev.(type) {
			case JoinEvent:
				if o.registry.Ready() {
					o.startGame()
				}
			case LeaveEvent:
				// Still waiting; the seat is simply free again.
			case ActionEvent:
				// No game yet; drop.
			}
		}
	}

	if o.phase == PhaseRunning {
		o.runTurns(ctx)
	}
}

// startGame initializes the world and broadcasts START_GAME.
func (o *Orchestrator) startGame() {
	players := o.registry.Players()
	state, err := o.engine.Init(o.settings, players)
	if err != nil {
		log.Error().Err(err).Msg("World initialization failed")
		o.endGame("", "initialization failed")
		return
	}

	o.players = players
	o.state = state
	o.phase = PhaseRunning
	o.roundIndex = 0
	o.activeSeat = 0

	log.Info().Strs("players", players).
		Int("units", len(state.Units)).
		Msg("Game started")
	o.registry.Broadcast(protocol.NewStartGame(o.settings.Layout(), state))
}

// runTurns is the half-turn loop: prompt the active player, block on the
// inbox under the deadline, apply the batch, advance.
func (o *Orchestrator) runTurns(ctx context.Context) {
	quietRounds := 0
	roundQuiet := true

	for {
		active := o.players[o.activeSeat]
		o.promptTurn(active)

		deadline := time.NewTimer(o.settings.TurnTimeLimit)
		delta, ok := o.awaitBatch(ctx, active, deadline)
		deadline.Stop()
		if !ok {
			return // awaitBatch already ended the game
		}

		o.history = append(o.history, delta)
		if !delta.Empty() {
			roundQuiet = false
		}

		if o.engine.Terminated(o.state) {
			winner, _ := o.engine.Winner(o.state, active)
			o.endGame(winner, "terminal state reached")
			return
		}

		o.activeSeat++
		if o.activeSeat == len(o.players) {
			o.activeSeat = 0
			o.roundIndex++
			if roundQuiet {
				quietRounds++
			} else {
				quietRounds = 0
			}
			roundQuiet = true
			if quietRounds >= o.stallRounds {
				log.Warn().Int("rounds", quietRounds).Msg("Game stalled, declaring draw")
				o.endGame("", "stalled")
				return
			}
		}
	}
}

// promptTurn unicasts NEXT_TURN to the active player, projecting the state
// through fog of war when enabled.
func (o *Orchestrator) promptTurn(playerID string) {
	visible := o.state
	if o.settings.FogOfWar {
		visible = skirmish.VisibleTo(o.state, playerID)
	}
	o.registry.Unicast(playerID, protocol.NewNextTurn(playerID, visible))
}

// awaitBatch blocks on the inbox until the active player's batch has been
// applied, the deadline expires, a player leaves, or the context is
// cancelled. It returns the applied delta and true, or false when it has
// already ended the game.
func (o *Orchestrator) awaitBatch(ctx context.Context, active string, deadline *time.Timer) (skirmish.Delta, bool) {
	for {
		select {
		case <-ctx.Done():
			o.endGame("", "shutdown requested")
			return skirmish.Delta{}, false

		case <-deadline.C:
			log.Info().Str("playerId", active).Msg("Turn deadline expired, forfeiting")
			o.endGame(o.opponentOf(active), "turn deadline expired")
			return skirmish.Delta{}, false

		case ev := <-o.events:
			switch e := ev.(type) {
			case ActionEvent:
				// Late or foreign batches are dropped without a reply.
				if e.PlayerID != active {
					log.Debug().Str("playerId", e.PlayerID).Str("active", active).Msg("Stale action batch dropped")
					continue
				}
				next, delta, err := o.applyBatch(e)
				if errors.Is(err, errEngineFault) {
					o.endGame("", "internal engine error")
					return skirmish.Delta{}, false
				}
				if err != nil {
					// Validation failure: notify, re-prompt, keep the
					// running deadline.
					log.Info().Err(err).Str("playerId", active).Msg("Action batch rejected")
					o.registry.Unicast(active, protocol.NewInvalidOperation(active, err.Error()))
					o.promptTurn(active)
					continue
				}
				o.state = next
				return delta, true

			case LeaveEvent:
				log.Info().Str("playerId", e.PlayerID).Msg("Player left mid-game, forfeiting")
				o.endGame(o.opponentOf(e.PlayerID), "player disconnected")
				return skirmish.Delta{}, false

			case JoinEvent:
				// A seat can only refill after a leave, which ends the
				// game first; nothing to do.
			}
		}
	}
}

// applyBatch invokes the engine, converting any panic into errEngineFault
// so a rules bug ends the game instead of killing the driver.
func (o *Orchestrator) applyBatch(e ActionEvent) (next *skirmish.GameState, delta skirmish.Delta, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("playerId", e.PlayerID).Msg("Engine panicked applying batch")
			next, delta, err = nil, skirmish.Delta{}, errEngineFault
		}
	}()
	return o.engine.Apply(o.state, e.PlayerID, e.Actions)
}

// opponentOf returns the other seated player, or empty if there is none.
func (o *Orchestrator) opponentOf(playerID string) string {
	for _, p := range o.players {
		if p != playerID {
			return p
		}
	}
	return ""
}

// endGame broadcasts END_GAME exactly once, transitions to ENDED and asks
// the transport to shut down. An empty winner means a draw.
func (o *Orchestrator) endGame(winner, reason string) {
	if o.phase == PhaseEnded {
		return
	}
	o.phase = PhaseEnded
	o.winnerID = winner

	evt := log.Info().Str("reason", reason)
	if winner != "" {
		evt = evt.Str("winnerId", winner)
	}
	evt.Msg("Game ended")

	o.registry.Broadcast(protocol.NewEndGame(o.settings.Layout(), o.history, winner, time.Now().UTC()))
	if o.onEnd != nil {
		go o.onEnd()
	}
}
