package live

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/gridrun/grid-runner-go/internal/engine"
	"github.com/gridrun/grid-runner-go/internal/snapshot"
)

// Session owns one progression engine and serializes its triggers (the
// one-second clock and the websocket message stream) through a single event
// loop, so no two state transitions are ever applied concurrently.
type Session struct {
	ID       uuid.UUID
	eng      *engine.Engine
	intents  *engine.IntentQueue
	log      *logrus.Entry
	attached atomic.Bool
}

func newSession(eng *engine.Engine, log *logrus.Logger) *Session {
	id := uuid.New()
	return &Session{
		ID:      id,
		eng:     eng,
		intents: engine.NewIntentQueue(16),
		log:     log.WithField("session", id.String()),
	}
}

// Document returns the session's current state in its persisted shape.
func (s *Session) Document() *snapshot.Document {
	return snapshot.Encode(s.eng.Snapshot())
}

// Outcome returns the engine's current outcome.
func (s *Session) Outcome() engine.Outcome {
	return s.eng.Outcome()
}

// Attach claims the session's single socket slot. A session runs exactly one
// clock, so a second concurrent connection must be refused; it reports false
// while another connection holds the slot.
func (s *Session) Attach() bool {
	return s.attached.CompareAndSwap(false, true)
}

// Detach releases the socket slot claimed by Attach.
func (s *Session) Detach() {
	s.attached.Store(false)
}

// Serve runs the session loop over conn until the game reaches a terminal
// outcome, the client disconnects, or ctx is cancelled. The loop is the only
// writer on the socket; a reader goroutine feeds client messages into it.
func (s *Session) Serve(ctx context.Context, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages := make(chan clientMessage, 32)
	go s.readLoop(ctx, conn, messages, cancel)

	clock := time.NewTicker(time.Second)
	defer clock.Stop()
	input := time.NewTicker(100 * time.Millisecond)
	defer input.Stop()

	s.push(conn)
	for {
		select {
		case <-ctx.Done():
			return
		case <-clock.C:
			if s.eng.OnClockTick() {
				s.push(conn)
			}
		case <-input.C:
			// at most one queued intent is consumed per input tick
			if in, ok := s.intents.Poll(); ok {
				if s.eng.Apply(in) {
					s.push(conn)
				}
			}
		case msg := <-messages:
			if s.apply(conn, msg) {
				s.push(conn)
			}
		}
		if s.eng.Outcome().Terminal() {
			s.log.WithField("outcome", s.eng.Outcome()).Info("session finished")
			return
		}
	}
}

// apply dispatches one client message. Returns true if the state changed.
func (s *Session) apply(conn *websocket.Conn, msg clientMessage) bool {
	switch msg.Type {
	case "position":
		return s.eng.OnPositionSample(msg.WorldX, msg.WorldZ)
	case "intent":
		in, err := engine.ParseIntent(msg.Intent)
		if err != nil {
			s.sendError(conn, err.Error())
			return false
		}
		if !s.intents.Offer(in) {
			s.log.Warn("intent queue full, dropping intent")
		}
		return false
	default:
		s.sendError(conn, "unknown message type "+msg.Type)
		return false
	}
}

func (s *Session) readLoop(ctx context.Context, conn *websocket.Conn, messages chan<- clientMessage, cancel context.CancelFunc) {
	defer cancel()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.WithError(err).Debug("socket read ended")
			}
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.WithError(err).Warn("discarding malformed message")
			continue
		}
		select {
		case messages <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) push(conn *websocket.Conn) {
	frame := stateFrame{
		Type:    "state",
		Outcome: string(s.eng.Outcome()),
		State:   s.Document(),
	}
	if err := conn.WriteJSON(frame); err != nil {
		s.log.WithError(err).Debug("state push failed")
	}
}

func (s *Session) sendError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(errorFrame{Type: "error", Message: message}); err != nil {
		s.log.WithError(err).Debug("error push failed")
	}
}
