// Package server hosts the HTTP listener and the websocket message
// boundary: it upgrades connections, seats them through the session
// registry, and translates text frames into typed session events.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/protocol"
	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // transport is trusted; no origin policy
	},
}

// Server is the websocket-facing edge of the game server.
type Server struct {
	registry *session.Registry
	events   chan<- session.Event
	httpSrv  *http.Server
}

// New builds a server listening on the given port. Inbound action batches
// land on the events inbox; connection lifecycle goes through the registry.
func New(port int, registry *session.Registry, events chan<- session.Event) *Server {
	s := &Server{registry: registry, events: events}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("GET /ws", s.serveWS)

	s.httpSrv = &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	return s
}

// ListenAndServe blocks until the listener is shut down.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.httpSrv.Addr).Msg("Server listening")
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Handler exposes the route table, used by tests running against
// httptest.Server.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Shutdown closes all seated connections and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.registry.CloseAll("server shutting down")
	return s.httpSrv.Shutdown(ctx)
}

// serveWS upgrades the connection and seats the player. A full registry
// rejects the connection with a capacity-exceeded close reason.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Websocket upgrade failed")
		return
	}

	conn := newWSConn(sock)
	go conn.writePump()

	playerID, err := s.registry.Attach(conn)
	if err != nil {
		log.Warn().Err(err).Str("connId", conn.ID()).Msg("Connection rejected")
		conn.Close(session.ErrCapacityExceeded.Error())
		return
	}

	log.Info().Str("playerId", playerID).Str("remote", r.RemoteAddr).Msg("Websocket client connected")
	go s.readPump(conn, playerID)
}

// readPump reads frames until the connection dies, enforcing the boundary
// invariants: blank, malformed or unknown frames are logged and dropped
// without ever reaching the orchestrator.
func (s *Server) readPump(conn *wsConn, playerID string) {
	defer func() {
		conn.Close("read loop terminated")
		s.registry.Detach(conn.ID())
		log.Info().Str("playerId", playerID).Msg("Websocket client disconnected")
	}()

	conn.sock.SetReadLimit(maxMsgSize)
	conn.sock.SetReadDeadline(time.Now().Add(pongWait))
	conn.sock.SetPongHandler(func(string) error {
		conn.sock.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("playerId", playerID).Msg("Websocket unexpected close")
			}
			return
		}
		conn.sock.SetReadDeadline(time.Now().Add(pongWait))

		msg, err := protocol.Decode(data)
		if err != nil {
			log.Warn().Err(err).Str("playerId", playerID).Msg("Rejected inbound frame")
			continue
		}

		batch, ok := msg.(*protocol.ActionBatch)
		if !ok {
			log.Warn().Str("playerId", playerID).Msgf("Unexpected %T from client, dropped", msg)
			continue
		}
		if batch.PlayerID != playerID {
			log.Warn().Str("playerId", playerID).Str("claimed", batch.PlayerID).Msg("Action batch for foreign identity dropped")
			continue
		}
		s.enqueue(session.ActionEvent{
			PlayerID: batch.PlayerID,
			Actions:  protocol.ActionsToGame(batch.Actions),
		})
	}
}

// enqueue pushes an event without blocking the read loop.
func (s *Server) enqueue(ev session.Event) {
	select {
	case s.events <- ev:
	default:
		log.Error().Msg("Session inbox full, inbound action dropped")
	}
}
