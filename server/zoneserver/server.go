package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/btrahan1/Scrapper3000/internal/auth"
	"github.com/btrahan1/Scrapper3000/internal/catalog"
	"github.com/btrahan1/Scrapper3000/internal/combat"
	"github.com/btrahan1/Scrapper3000/internal/savegame"
)

const (
	authTimeout     = 15 * time.Second
	writeTimeout    = 5 * time.Second
	replaceTimeout  = 3 * time.Second
	maxMessageBytes = 64 * 1024
	defaultSaveSlot = "1"
)

// zoneServer hosts one single-player junkyard per websocket connection.
type zoneServer struct {
	ctx      context.Context
	logger   *slog.Logger
	catalog  *catalog.Catalog
	profiles map[combat.Kind]combat.Profile
	layout   combat.Layout
	tokens   *auth.Tokens
	limiter  *auth.Limiter
	saves    *savegame.Autosaver
	sessions *registry
	tickRate time.Duration
	upgrader websocket.Upgrader

	// newRand seeds the combat random source for each session.
	newRand func() *rand.Rand

	wg sync.WaitGroup
}

type zoneDeps struct {
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Profiles map[combat.Kind]combat.Profile
	Tokens   *auth.Tokens
	Saves    *savegame.Autosaver
	TickRate time.Duration
}

func newZoneServer(ctx context.Context, deps zoneDeps) *zoneServer {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Profiles == nil {
		deps.Profiles = combat.DefaultProfiles()
	}
	if deps.TickRate <= 0 {
		deps.TickRate = 50 * time.Millisecond
	}
	return &zoneServer{
		ctx:      ctx,
		logger:   deps.Logger,
		catalog:  deps.Catalog,
		profiles: deps.Profiles,
		layout:   combat.DefaultLayout(),
		tokens:   deps.Tokens,
		limiter:  auth.NewLimiter(auth.DefaultMaxAttempts, auth.DefaultWindow, auth.DefaultBlock),
		saves:    deps.Saves,
		sessions: newRegistry(),
		tickRate: deps.TickRate,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

func (z *zoneServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", z.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (z *zoneServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := z.upgrader.Upgrade(w, r, nil)
	if err != nil {
		z.logger.WarnContext(r.Context(), "websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn.SetReadLimit(maxMessageBytes)

	z.wg.Add(1)
	defer z.wg.Done()

	s := newSession(z, conn, auth.PeerKey(r.RemoteAddr))
	z.sessions.add(s)
	defer z.sessions.remove(s)

	z.logger.InfoContext(z.ctx, "client connected", "remote", r.RemoteAddr, "sessions", z.sessions.len())
	go s.readLoop()
	s.run(z.ctx)
	_ = conn.Close()
	z.logger.InfoContext(z.ctx, "client disconnected", "remote", r.RemoteAddr, "user", s.user)
}

// wait blocks until every session has finished and queued its last save.
func (z *zoneServer) wait() {
	z.wg.Wait()
}
