package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrAccountExists      = errors.New("auth: account already exists")
)

// Accounts maps usernames to bcrypt password hashes, backed by a JSON file.
type Accounts struct {
	path string

	mu     sync.RWMutex
	hashes map[string]string
}

// LoadAccounts reads the account file at path. A missing file yields an empty set.
func LoadAccounts(path string) (*Accounts, error) {
	a := &Accounts{path: path, hashes: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return a, nil
		}
		return nil, fmt.Errorf("read accounts: %w", err)
	}
	if err := json.Unmarshal(data, &a.hashes); err != nil {
		return nil, fmt.Errorf("parse accounts %s: %w", path, err)
	}
	normalized := make(map[string]string, len(a.hashes))
	for user, hash := range a.hashes {
		normalized[normalizeUser(user)] = hash
	}
	a.hashes = normalized
	return a, nil
}

func normalizeUser(user string) string {
	return strings.ToLower(strings.TrimSpace(user))
}

// Verify checks a password. Unknown users and wrong passwords both return ErrInvalidCredentials.
func (a *Accounts) Verify(user, password string) (string, error) {
	user = normalizeUser(user)
	a.mu.RLock()
	hash, ok := a.hashes[user]
	a.mu.RUnlock()
	if !ok || user == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return user, nil
}

// Register hashes password for a new user and rewrites the account file.
func (a *Accounts) Register(user, password string) error {
	user = normalizeUser(user)
	if user == "" || strings.ContainsAny(user, " \t/") {
		return fmt.Errorf("%w: bad username %q", ErrInvalidCredentials, user)
	}
	if password == "" {
		return fmt.Errorf("%w: empty password", ErrInvalidCredentials)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.hashes[user]; exists {
		return ErrAccountExists
	}
	a.hashes[user] = string(hash)
	if err := a.writeLocked(); err != nil {
		delete(a.hashes, user)
		return err
	}
	return nil
}

func (a *Accounts) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.hashes)
}

func (a *Accounts) writeLocked() error {
	if a.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(a.hashes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("create accounts dir: %w", err)
	}
	if err := os.WriteFile(a.path, data, 0o600); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}
	return nil
}
