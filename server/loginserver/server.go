package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/btrahan1/Scrapper3000/internal/auth"
)

const (
	bannerReady  = "LOGIN_SERVER_READY"
	replyLoginOK = "LOGIN_OK"

	errBadFormat          = "BAD_FORMAT"
	errInvalidCredentials = "INVALID_CREDENTIALS"
	errTooManyAttempts    = "TOO_MANY_ATTEMPTS"
	errInternal           = "INTERNAL"

	idleTimeout  = 2 * time.Minute
	maxLineBytes = 1024
)

// loginServer trades a username and password for a zone token over a line-based TCP protocol.
type loginServer struct {
	logger   *slog.Logger
	accounts *auth.Accounts
	tokens   *auth.Tokens
	limiter  *auth.Limiter

	wg sync.WaitGroup
}

func newLoginServer(logger *slog.Logger, accounts *auth.Accounts, tokens *auth.Tokens) *loginServer {
	return &loginServer{
		logger:   logger,
		accounts: accounts,
		tokens:   tokens,
		limiter:  auth.NewLimiter(auth.DefaultMaxAttempts, auth.DefaultWindow, auth.DefaultBlock),
	}
}

// serve accepts clients on ln until ctx is done, then waits for open connections to finish.
func (l *loginServer) serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer l.wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			l.logger.WarnContext(ctx, "accept failed", "error", err)
			continue
		}
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.handleConn(ctx, conn)
		}()
	}
}

func (l *loginServer) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	peer := auth.PeerKey(conn.RemoteAddr().String())
	logger := l.logger.With("peer", peer)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 256), maxLineBytes)

	fmt.Fprintln(conn, bannerReady)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(idleTimeout))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				logger.DebugContext(ctx, "login client read ended", "error", err)
			}
			return
		}
		reply, keep := l.handleLine(ctx, logger, peer, scanner.Text())
		fmt.Fprintln(conn, reply)
		if !keep {
			return
		}
	}
}

// handleLine answers one protocol line. It reports false when the connection should close.
func (l *loginServer) handleLine(ctx context.Context, logger *slog.Logger, peer, line string) (string, bool) {
	parts := strings.Fields(line)
	if len(parts) != 3 || parts[0] != "LOGIN" {
		return "ERROR " + errBadFormat, true
	}

	if ok, retry := l.limiter.Allow(peer); !ok {
		logger.InfoContext(ctx, "login locked out", "retry", retry)
		return fmt.Sprintf("ERROR %s %d", errTooManyAttempts, int(retry.Seconds())), false
	}

	user, err := l.accounts.Verify(parts[1], parts[2])
	if err != nil {
		logger.InfoContext(ctx, "login rejected", "user", parts[1])
		return "ERROR " + errInvalidCredentials, true
	}

	token, expires, err := l.tokens.Issue(user)
	if err != nil {
		logger.ErrorContext(ctx, "issuing token failed", "user", user, "error", err)
		return "ERROR " + errInternal, true
	}
	l.limiter.Reset(peer)
	logger.InfoContext(ctx, "user logged in", "user", user, "expires", expires)
	return replyLoginOK + " " + token, true
}
