package main

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/btrahan1/Scrapper3000/internal/auth"
)

type testLogin struct {
	addr   string
	tokens *auth.Tokens
	srv    *loginServer
}

func newTestLogin(t *testing.T) *testLogin {
	t.Helper()
	accounts, err := auth.LoadAccounts(filepath.Join(t.TempDir(), "accounts.json"))
	if err != nil {
		t.Fatalf("load accounts: %v", err)
	}
	if err := accounts.Register("Rusty", "hunter2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	tokens, err := auth.NewTokens("login-test-secret", time.Hour, false)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := newLoginServer(slog.New(slog.DiscardHandler), accounts, tokens)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("serve: %v", err)
		}
	})
	return &testLogin{addr: ln.Addr().String(), tokens: tokens, srv: srv}
}

type lineConn struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func (tl *testLogin) dial(t *testing.T) *lineConn {
	t.Helper()
	conn, err := net.Dial("tcp", tl.addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	c := &lineConn{t: t, conn: conn, r: bufio.NewReader(conn)}
	if got := c.read(); got != bannerReady {
		t.Fatalf("banner=%q want %q", got, bannerReady)
	}
	return c
}

func (c *lineConn) exchange(line string) string {
	c.t.Helper()
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		c.t.Fatalf("write %q: %v", line, err)
	}
	return c.read()
}

func (c *lineConn) read() string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	line, err := c.r.ReadString('\n')
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	return strings.TrimSpace(line)
}

func TestLoginIssuesZoneToken(t *testing.T) {
	tl := newTestLogin(t)
	c := tl.dial(t)

	reply := c.exchange("LOGIN rusty hunter2")
	token, ok := strings.CutPrefix(reply, replyLoginOK+" ")
	if !ok {
		t.Fatalf("reply=%q want LOGIN_OK", reply)
	}
	claims, err := tl.tokens.Parse(token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Username != "rusty" {
		t.Fatalf("username=%q want rusty", claims.Username)
	}
}

func TestLoginReplies(t *testing.T) {
	tl := newTestLogin(t)
	c := tl.dial(t)

	tests := []struct {
		line string
		want string
	}{
		{line: "HELLO", want: "ERROR BAD_FORMAT"},
		{line: "LOGIN rusty", want: "ERROR BAD_FORMAT"},
		{line: "LOGIN rusty hunter2 extra", want: "ERROR BAD_FORMAT"},
		{line: "login rusty hunter2", want: "ERROR BAD_FORMAT"},
		{line: "LOGIN rusty wrong", want: "ERROR INVALID_CREDENTIALS"},
		{line: "LOGIN nobody hunter2", want: "ERROR INVALID_CREDENTIALS"},
	}
	for _, tc := range tests {
		if got := c.exchange(tc.line); got != tc.want {
			t.Fatalf("%q -> %q want %q", tc.line, got, tc.want)
		}
	}
	if got := c.exchange("LOGIN rusty hunter2"); !strings.HasPrefix(got, replyLoginOK) {
		t.Fatalf("connection unusable after errors: %q", got)
	}
}

func TestLoginLocksOutAfterRepeatedFailures(t *testing.T) {
	tl := newTestLogin(t)
	c := tl.dial(t)

	for i := 0; i < auth.DefaultMaxAttempts; i++ {
		if got := c.exchange("LOGIN rusty wrong"); got != "ERROR INVALID_CREDENTIALS" {
			t.Fatalf("attempt %d: %q", i+1, got)
		}
	}
	if got := c.exchange("LOGIN rusty hunter2"); !strings.HasPrefix(got, "ERROR TOO_MANY_ATTEMPTS") {
		t.Fatalf("locked out login=%q", got)
	}

	// The lockout follows the peer onto a new connection.
	again := tl.dial(t)
	if got := again.exchange("LOGIN rusty hunter2"); !strings.HasPrefix(got, "ERROR TOO_MANY_ATTEMPTS") {
		t.Fatalf("new connection login=%q", got)
	}
}

func TestHandleLineSuccessResetsLimiter(t *testing.T) {
	tl := newTestLogin(t)
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	for range auth.DefaultMaxAttempts - 1 {
		tl.srv.handleLine(ctx, logger, "10.0.0.1", "LOGIN rusty wrong")
	}
	if reply, keep := tl.srv.handleLine(ctx, logger, "10.0.0.1", "LOGIN rusty hunter2"); !keep || !strings.HasPrefix(reply, replyLoginOK) {
		t.Fatalf("reply=%q keep=%v", reply, keep)
	}
	for range auth.DefaultMaxAttempts {
		if reply, _ := tl.srv.handleLine(ctx, logger, "10.0.0.1", "LOGIN rusty wrong"); reply != "ERROR INVALID_CREDENTIALS" {
			t.Fatalf("budget not reset after success: %q", reply)
		}
	}
}
