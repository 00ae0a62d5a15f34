// Package account drives the authentication state machine:
// anonymous -> authenticating -> authenticated, back to anonymous on
// failure (retaining the error) or logout (discarding all cached state).
package account

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/JesVite28/products-front/internal/alerts"
	"github.com/JesVite28/products-front/internal/domain/models"
	"github.com/JesVite28/products-front/internal/session"
	"github.com/JesVite28/products-front/pkg/clients/accounts"
)

// State is the authentication phase the panel is in.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// ErrMissingCredentials is returned when a required auth field is blank.
var ErrMissingCredentials = errors.New("all fields are required")

const (
	msgAuthFailed = "invalid credentials or server error"
	msgLoggedIn   = "signed in successfully"
	msgRegistered = "user registered and signed in"
	msgLoggedOut  = "signed out successfully"
)

// Service owns the session lifecycle. Other controllers register reset
// hooks so logout discards every cached list, override and selection.
type Service struct {
	client accounts.Client
	sess   *session.Session
	alerts *alerts.Store
	logger *zap.Logger

	mu        sync.Mutex
	state     State
	lastError string
	onLogout  []func()
}

// NewService wires the auth controller. A session restored from disk
// starts authenticated-pending: the credential is applied but the user
// is unknown until the next successful call identifies them.
func NewService(client accounts.Client, sess *session.Session, alertStore *alerts.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		sess:   sess,
		alerts: alertStore,
		logger: logger,
		state:  StateAnonymous,
	}
}

// OnLogout registers a hook run whenever the session ends.
func (s *Service) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Login authenticates with email and password. On success the credential
// is persisted and attached to all subsequent requests.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	return s.authenticate(ctx, func(ctx context.Context) (*accounts.Credentials, error) {
		if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
			return nil, ErrMissingCredentials
		}
		return s.client.Login(ctx, email, password)
	}, msgLoggedIn)
}

// Register creates an account and signs it in; the register endpoint
// returns a credential just like login.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.authenticate(ctx, func(ctx context.Context) (*accounts.Credentials, error) {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
			return nil, ErrMissingCredentials
		}
		return s.client.Register(ctx, name, email, password)
	}, msgRegistered)
}

func (s *Service) authenticate(ctx context.Context, call func(context.Context) (*accounts.Credentials, error), successMsg string) (*models.User, error) {
	s.mu.Lock()
	s.state = StateAuthenticating
	s.lastError = ""
	s.mu.Unlock()

	creds, err := call(ctx)
	if err != nil {
		message := msgAuthFailed
		if errors.Is(err, ErrMissingCredentials) {
			message = err.Error()
		}

		s.mu.Lock()
		s.state = StateAnonymous
		s.lastError = message
		s.mu.Unlock()

		s.logger.Warn("authentication failed", zap.Error(err))
		s.alerts.Error(message)
		return nil, err
	}

	if creds.Token != "" {
		if err := s.sess.SetCredential(creds.Token); err != nil {
			s.logger.Warn("credential not persisted", zap.Error(err))
		}
	}
	s.sess.SetUser(creds.User)

	s.mu.Lock()
	s.state = StateAuthenticated
	s.lastError = ""
	s.mu.Unlock()

	s.alerts.Success(successMsg)
	return creds.User, nil
}

// Logout is local-only: it clears the persisted credential, returns the
// state machine to anonymous and runs every registered reset hook.
func (s *Service) Logout() {
	if err := s.sess.ClearCredential(); err != nil {
		s.logger.Warn("could not clear persisted credential", zap.Error(err))
	}

	s.mu.Lock()
	s.state = StateAnonymous
	s.lastError = ""
	hooks := make([]func(), len(s.onLogout))
	copy(hooks, s.onLogout)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	s.alerts.Success(msgLoggedOut)
}

// State returns the current authentication phase.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the message retained from the last failed attempt.
func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// CurrentUser exposes the signed-in account, nil when anonymous.
func (s *Service) CurrentUser() *models.User {
	return s.sess.CurrentUser()
}
