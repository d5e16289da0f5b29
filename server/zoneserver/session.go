package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/btrahan1/Scrapper3000/internal/combat"
	"github.com/btrahan1/Scrapper3000/internal/player"
)

const (
	perSecondAuthed   = 60
	perSecondUnauthed = 12
	maxAuthFailures   = 3
	mobSyncInterval   = 200 * time.Millisecond
)

// inbound is one client frame as seen by the session goroutine.
type inbound struct {
	msg     ClientMessage
	bad     bool
	limited bool
}

// session is one connected client. Everything below the reader fields is owned by the goroutine
// running run; the reader goroutine only touches conn reads, the rate window and inbox.
type session struct {
	z      *zoneServer
	conn   *websocket.Conn
	peer   string
	logger *slog.Logger

	inbox    chan inbound
	kicked   chan string
	kickOnce sync.Once
	done     chan struct{}
	authed   atomic.Bool

	windowStart time.Time
	windowCount int

	user         string
	authFailures int
	closing      bool
	player       *player.Player
	field        *combat.Field
	pos          combat.Position
	sinceMobSync time.Duration

	redraw  bool
	persist bool
	events  []player.Event
}

func newSession(z *zoneServer, conn *websocket.Conn, peer string) *session {
	return &session{
		z:      z,
		conn:   conn,
		peer:   peer,
		logger: z.logger.With("peer", peer),
		inbox:  make(chan inbound, 64),
		kicked: make(chan string, 1),
		done:   make(chan struct{}),
	}
}

// Redraw, Persist and Event make the session the player's observer. They only set flags;
// flush acts on them once the current command or tick is done.
func (s *session) Redraw()              { s.redraw = true }
func (s *session) Persist()             { s.persist = true }
func (s *session) Event(ev player.Event) { s.events = append(s.events, ev) }

func (s *session) allowCommand(now time.Time) bool {
	if s.windowStart.IsZero() || now.Sub(s.windowStart) >= time.Second {
		s.windowStart = now
		s.windowCount = 0
	}
	s.windowCount++

	limit := perSecondUnauthed
	if s.authed.Load() {
		limit = perSecondAuthed
	}
	return s.windowCount <= limit
}

func (s *session) readLoop() {
	defer close(s.inbox)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("client read error", "error", err)
			}
			return
		}
		var in inbound
		if err := json.Unmarshal(data, &in.msg); err != nil {
			in.bad = true
		}
		in.limited = !s.allowCommand(time.Now())
		select {
		case s.inbox <- in:
		case <-s.done:
			return
		}
	}
}

// kick asks the session to end with reason. Only the first reason counts.
func (s *session) kick(reason string) {
	s.kickOnce.Do(func() { s.kicked <- reason })
}

func (s *session) run(ctx context.Context) {
	defer close(s.done)

	authTimer := time.NewTimer(authTimeout)
	defer authTimer.Stop()
	var ticker *time.Ticker
	var ticks <-chan time.Time
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	s.send(ServerMessage{Command: RespAuthRequired, Payload: MsgLoginRequired})

	for !s.closing {
		select {
		case <-ctx.Done():
			s.sendError("", MsgShuttingDown)
			s.closing = true
		case reason := <-s.kicked:
			s.sendError("", reason)
			s.closing = true
		case <-authTimer.C:
			if !s.authed.Load() {
				s.logger.Info("client auth timeout")
				s.sendError("", MsgAuthTimeout)
				s.closing = true
			}
		case in, ok := <-s.inbox:
			if !ok {
				s.closing = true
				break
			}
			wasAuthed := s.authed.Load()
			s.handle(ctx, in)
			if !wasAuthed && s.authed.Load() {
				authTimer.Stop()
				ticker = time.NewTicker(s.z.tickRate)
				ticks = ticker.C
			}
		case <-ticks:
			s.tick(s.z.tickRate)
		}
		s.flush()
	}
	s.savePending()
}

func (s *session) handle(ctx context.Context, in inbound) {
	cmd := strings.ToUpper(strings.TrimSpace(in.msg.Command))
	switch {
	case in.bad:
		s.sendError("", MsgBadPayload)
		return
	case in.limited:
		s.sendError(cmd, MsgTooManyRequests)
		return
	}

	if !s.authed.Load() {
		if cmd != ReqAuth {
			s.send(ServerMessage{Command: RespAuthRequired, Payload: MsgLoginRequired})
			return
		}
		s.handleAuth(ctx, in.msg.Payload)
		return
	}
	if cmd == ReqAuth {
		s.sendError(cmd, MsgAlreadyAuthed)
		return
	}

	if !s.handleCommand(ctx, cmd, in.msg.Payload) {
		s.sendError(cmd, MsgUnknownCommand)
	}
}

// tick advances the junkyard while the scrapper is actually playing.
func (s *session) tick(dt time.Duration) {
	if s.player == nil || s.player.Mode() != player.ModePlaying || s.player.IsShopOpen() {
		return
	}
	events := s.field.Tick(dt.Seconds(), s.pos, s.player)
	if len(events) > 0 {
		s.send(ServerMessage{Command: RespCombat, Payload: CombatPayload{Events: events}})
	}
	s.sinceMobSync += dt
	if s.sinceMobSync >= mobSyncInterval {
		s.sinceMobSync = 0
		s.send(ServerMessage{Command: RespMobs, Payload: s.field.Mobs()})
	}
}

// flush acts on observer flags: queue a save, then push the new state.
func (s *session) flush() {
	if s.closing {
		return
	}
	s.savePending()
	if s.redraw && s.player != nil {
		s.send(ServerMessage{Command: RespState, Payload: s.state()})
	}
	s.redraw = false
	s.events = s.events[:0]
}

func (s *session) savePending() {
	if !s.persist || s.player == nil {
		return
	}
	s.persist = false
	s.z.saves.Request(s.slotKey(), s.player.Snapshot())
}

func (s *session) slotKey() string {
	return s.user + "/" + s.player.SelectedSlot()
}

func (s *session) send(msg ServerMessage) {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug("client write failed", "command", msg.Command, "error", err)
	}
}

func (s *session) sendError(cmd, reason string) {
	s.send(ServerMessage{Command: RespError, Payload: ErrorPayload{Command: cmd, Reason: reason}})
}
