package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait   = time.Second // bounded send; a slower peer is treated as gone
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // must be less than pongWait
	maxMsgSize  = 64 * 1024
	sendBufSize = 64
)

var errSendUnavailable = errors.New("connection closed or send buffer full")

// wsConn wraps one websocket connection behind the session.Conn contract.
// Outbound messages funnel through a single buffered channel drained by
// writePump, so frames to one player never interleave. writePump is the
// only goroutine that ever writes data frames on the socket.
type wsConn struct {
	id   string
	sock *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once

	// closeReason is written inside once.Do before done is closed and
	// read by writePump only after observing done.
	closeReason string
}

func newWSConn(sock *websocket.Conn) *wsConn {
	return &wsConn{
		id:   uuid.NewString(),
		sock: sock,
		send: make(chan []byte, sendBufSize),
		done: make(chan struct{}),
	}
}

func (c *wsConn) ID() string {
	return c.id
}

// Send marshals and enqueues a message without blocking. A full buffer or a
// closed connection fails fast; callers treat that as a disconnect.
func (c *wsConn) Send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return errSendUnavailable
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return errSendUnavailable
	}
}

// Close asks the write pump to flush whatever is still queued, send a
// close frame with the given reason and shut the socket down. Safe to call
// from any goroutine, any number of times; the first reason wins.
func (c *wsConn) Close(reason string) {
	c.once.Do(func() {
		c.closeReason = reason
		close(c.done)
	})
}

// writePump is the sole writer on the socket. It drains the send channel,
// keeps the peer alive with pings, and on Close flushes the remaining
// buffered frames before the close frame goes out.
func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close("write loop terminated")
		c.sock.Close()
	}()

	for {
		select {
		case <-c.done:
			c.flush()
			return
		case data := <-c.send:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("connId", c.id).Msg("Websocket write failed")
				return
			}
		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// flush writes the queued frames followed by the close frame, all under a
// single bounded deadline so a dead peer cannot stall teardown.
func (c *wsConn) flush() {
	deadline := time.Now().Add(writeWait)
	for {
		select {
		case data := <-c.send:
			c.sock.SetWriteDeadline(deadline)
			if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("connId", c.id).Msg("Websocket flush failed")
				return
			}
		default:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, c.closeReason)
			c.sock.WriteControl(websocket.CloseMessage, msg, deadline)
			return
		}
	}
}
