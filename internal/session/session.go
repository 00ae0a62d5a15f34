// Package session holds the authenticated state for one running panel:
// the bearer credential and the signed-in user. The session is an
// explicit object injected into every resource client at construction,
// so isolated sessions can coexist in tests.
package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/JesVite28/products-front/internal/domain/models"
)

// Session stores the current bearer credential and decorates outgoing
// requests with it. The credential survives restarts through a token
// file; there is no expiry or refresh, a dead token is only discovered
// when a request fails.
type Session struct {
	mu     sync.RWMutex
	token  string
	user   *models.User
	path   string
	logger *zap.Logger
}

// New builds a session backed by the token file at path. A previously
// persisted credential is re-applied so a restart preserves the session.
func New(path string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{path: path, logger: logger}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		s.token = strings.TrimSpace(string(data))
		if s.token != "" {
			logger.Info("restored persisted credential")
		}
	case errors.Is(err, os.ErrNotExist):
		// First run, nothing persisted yet.
	default:
		logger.Warn("could not read token file", zap.String("path", path), zap.Error(err))
	}

	return s
}

// SetCredential stores the token in memory and persists it.
func (s *Session) SetCredential(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		s.logger.Warn("could not persist credential", zap.Error(err))
		return err
	}
	return nil
}

// ClearCredential removes the token and the signed-in user from memory
// and deletes the persisted copy.
func (s *Session) ClearCredential() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// CurrentCredential returns the stored token, if any.
func (s *Session) CurrentCredential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// SetUser records the authenticated account.
func (s *Session) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// CurrentUser returns the authenticated account, nil when anonymous.
func (s *Session) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Decorate attaches the credential to an outgoing request. The token is
// sent both as a standard bearer header and as x-access-token for the
// server's alternate auth check.
func (s *Session) Decorate(req *resty.Request) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return
	}
	req.SetHeader("Authorization", "Bearer "+token)
	req.SetHeader("x-access-token", token)
}
