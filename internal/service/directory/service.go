// Package directory is the view-state controller for user administration:
// listing accounts, creating them through registration, editing role
// assignments and deleting accounts.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/JesVite28/products-front/internal/alerts"
	"github.com/JesVite28/products-front/internal/domain/models"
	"github.com/JesVite28/products-front/internal/session"
	"github.com/JesVite28/products-front/pkg/clients/accounts"
)

var (
	// ErrReadOnly is returned when the acting role may not manage users.
	ErrReadOnly = errors.New("your role does not allow managing users")
	// ErrSelfDelete guards the account the actor is signed in with.
	ErrSelfDelete = errors.New("you cannot delete the user you are currently signed in with")
	// ErrMissingFields is returned when a required form field is blank.
	ErrMissingFields = errors.New("all fields are required")
	// ErrUnknownRole is returned for a role name outside the known set.
	ErrUnknownRole = errors.New("unknown role")
)

const (
	msgCreated      = "user created successfully"
	msgUpdated      = "user updated successfully"
	msgDeleted      = "user deleted successfully"
	msgCreateFailed = "could not create the user"
	msgUpdateFailed = "could not update the user"
	msgDeleteFailed = "could not delete the user"
	msgLoadFailed   = "could not load the users"
	msgNoUsers      = "there are no registered users"
)

// Service orchestrates the user administration view.
type Service struct {
	client accounts.Client
	sess   *session.Session
	alerts *alerts.Store
	logger *zap.Logger

	mu    sync.Mutex
	users []models.User
}

// NewService wires a directory controller.
func NewService(client accounts.Client, sess *session.Session, alertStore *alerts.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		sess:   sess,
		alerts: alertStore,
		logger: logger,
	}
}

func (s *Service) canManage() bool {
	return s.sess.CurrentUser().CanManage()
}

// Load fetches every registered account.
func (s *Service) Load(ctx context.Context) error {
	if !s.canManage() {
		s.alerts.Error(ErrReadOnly.Error())
		return ErrReadOnly
	}

	users, err := s.client.ListUsers(ctx)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		s.alerts.Error(msgLoadFailed)
		return err
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()

	if len(users) > 0 {
		s.alerts.Success(fmt.Sprintf("loaded %d user(s)", len(users)))
	} else {
		s.alerts.Error(msgNoUsers)
	}
	return nil
}

// Create registers a new account on behalf of an administrator. The
// credential returned by the register endpoint is discarded: the actor
// keeps their own session. The list is reloaded afterwards.
func (s *Service) Create(ctx context.Context, name, email, password string) error {
	if !s.canManage() {
		s.alerts.Error(ErrReadOnly.Error())
		return ErrReadOnly
	}

	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		s.alerts.Error(ErrMissingFields.Error())
		return ErrMissingFields
	}

	if _, err := s.client.Register(ctx, name, email, password); err != nil {
		s.logger.Error("register user failed", zap.Error(err))
		s.alerts.Error(msgCreateFailed)
		return err
	}

	s.alerts.Success(msgCreated)
	return s.Load(ctx)
}

// Update edits an account's name, email and role. The role is resolved
// to one of the three known names and sent as a single-entry role list.
func (s *Service) Update(ctx context.Context, id, name, email, role string) (*models.User, error) {
	if !s.canManage() {
		s.alerts.Error(ErrReadOnly.Error())
		return nil, ErrReadOnly
	}

	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		s.alerts.Error(ErrMissingFields.Error())
		return nil, ErrMissingFields
	}

	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleCashier:
	default:
		s.alerts.Error(ErrUnknownRole.Error())
		return nil, ErrUnknownRole
	}

	updated, err := s.client.UpdateUser(ctx, id, accounts.UserUpdate{
		Name:  name,
		Email: email,
		Roles: []string{role},
	})
	if err != nil {
		s.logger.Error("update user failed", zap.String("id", id), zap.Error(err))
		s.alerts.Error(msgUpdateFailed)
		return nil, err
	}

	if updated == nil {
		updated = &models.User{ID: id, Name: name, Email: email, Roles: models.RoleList{role}}
	}

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == updated.ID {
			s.users[i] = *updated
		}
	}
	s.mu.Unlock()

	s.alerts.Success(msgUpdated)
	return updated, nil
}

// Delete removes an account. Deleting the account the actor is signed in
// with is refused locally before any request.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !s.canManage() {
		s.alerts.Error(ErrReadOnly.Error())
		return ErrReadOnly
	}

	target := s.findUser(id)
	if current := s.sess.CurrentUser(); current != nil {
		if current.ID == id || (target != nil && target.Email == current.Email) {
			s.alerts.Error(ErrSelfDelete.Error())
			return ErrSelfDelete
		}
	}

	if err := s.client.DeleteUser(ctx, id); err != nil {
		s.logger.Error("delete user failed", zap.String("id", id), zap.Error(err))
		s.alerts.Error(msgDeleteFailed)
		return err
	}

	s.mu.Lock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	s.users = out
	s.mu.Unlock()

	s.alerts.Success(msgDeleted)
	return nil
}

// Users returns a copy of the loaded account list.
func (s *Service) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Reset discards the loaded account list. Used on logout.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nil
}

func (s *Service) findUser(id string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u
		}
	}
	return nil
}
