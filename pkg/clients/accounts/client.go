// Package accounts is the typed client for the auth and user resources.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/JesVite28/products-front/internal/domain/models"
	"github.com/JesVite28/products-front/internal/session"
)

// ErrRequestFailed is the single failure surfaced for any transport or
// non-2xx outcome on an account call.
var ErrRequestFailed = errors.New("accounts request failed")

// Credentials is the payload returned by login and register: a bearer
// token plus the authenticated account.
type Credentials struct {
	Token string
	User  *models.User
}

// UserUpdate carries the editable account fields. The role travels as a
// single-name role list.
type UserUpdate struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// Client exposes the auth and user operations used by the panel. Logout
// is intentionally absent: it is a local operation owned by the session.
type Client interface {
	Register(ctx context.Context, name, email, password string) (*Credentials, error)
	Login(ctx context.Context, email, password string) (*Credentials, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, payload UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient builds an accounts client rooted at the API's base URL (one
// level above the product resource), bound to the given session.
func NewClient(rootURL string, sess *session.Session, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(rootURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			sess.Decorate(req)
			return nil
		})

	return &APIClient{httpClient: restyClient, logger: logger}
}

type authEnvelope struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    *models.User `json:"data"`
	Token   string       `json:"token"`
}

type usersEnvelope struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Data    []models.User `json:"data"`
}

type userEnvelope struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    *models.User `json:"data"`
}

// Register creates a new account and returns its credential.
func (c *APIClient) Register(ctx context.Context, name, email, password string) (*Credentials, error) {
	result := new(authEnvelope)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": name, "email": email, "password": password}).
		SetResult(result).
		Post("/auth/register")
	if err := c.check("register", resp, err); err != nil {
		return nil, err
	}
	return &Credentials{Token: result.Token, User: result.Data}, nil
}

// Login authenticates an existing account and returns its credential.
func (c *APIClient) Login(ctx context.Context, email, password string) (*Credentials, error) {
	result := new(authEnvelope)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(result).
		Post("/auth/login")
	if err := c.check("login", resp, err); err != nil {
		return nil, err
	}
	return &Credentials{Token: result.Token, User: result.Data}, nil
}

// ListUsers fetches every registered account.
func (c *APIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	result := new(usersEnvelope)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		Get("/user/index")
	if err := c.check("list users", resp, err); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// UpdateUser edits an account's name, email and role list.
func (c *APIClient) UpdateUser(ctx context.Context, id string, payload UserUpdate) (*models.User, error) {
	result := new(userEnvelope)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		Patch(fmt.Sprintf("/user/update/%s", id))
	if err := c.check("update user", resp, err); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// DeleteUser removes an account by identifier.
func (c *APIClient) DeleteUser(ctx context.Context, id string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/user/delete/%s", id))
	return c.check("delete user", resp, err)
}

func (c *APIClient) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Error("accounts call failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, ErrRequestFailed)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		c.logger.Error("accounts call rejected",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("%s: %w", op, ErrRequestFailed)
	}
	return nil
}
