// Package inventory is the typed client for the remote product resource.
// Each call issues exactly one request and unwraps the response envelope;
// there is no retry, caching or batching here.
package inventory

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
// non-2xx outcome. The caller cannot distinguish not-found from
// unauthorized from server error at this layer.
var ErrRequestFailed = errors.New("inventory request failed")

// Client exposes the product operations used by the panel.
type Client interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product models.Product) (*models.Product, error)
	Update(ctx context.Context, id string, payload models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient builds a product client bound to the given session. The
// session decorates every request with the current credential.
func NewClient(baseURL string, sess *session.Session, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			sess.Decorate(req)
			return nil
		})

	return &APIClient{httpClient: restyClient, logger: logger}
}

type listEnvelope struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Data    []models.Product `json:"data"`
}

type itemEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    *models.Product `json:"data"`
}

// List fetches every product.
func (c *APIClient) List(ctx context.Context) ([]models.Product, error) {
	result := new(listEnvelope)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		Get("/index")
	if err := c.check("list products", resp, err); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Get fetches a single product by identifier.
func (c *APIClient) Get(ctx context.Context, id string) (*models.Product, error) {
	result := new(itemEnvelope)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		Get(fmt.Sprintf("/indexId/%s", id))
	if err := c.check("get product", resp, err); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Create saves a new product and returns the server's copy.
func (c *APIClient) Create(ctx context.Context, product models.Product) (*models.Product, error) {
	result := new(itemEnvelope)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(product).
		SetResult(result).
		Post("/save")
	if err := c.check("create product", resp, err); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Update sends a partial update; fields omitted from the payload are left
// untouched server-side.
func (c *APIClient) Update(ctx context.Context, id string, payload models.ProductPatch) (*models.Product, error) {
	result := new(itemEnvelope)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		Patch(fmt.Sprintf("/update/%s", id))
	if err := c.check("update product", resp, err); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Delete removes a product by identifier.
func (c *APIClient) Delete(ctx context.Context, id string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/delete/%s", id))
	return c.check("delete product", resp, err)
}

func (c *APIClient) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Error("inventory call failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, ErrRequestFailed)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		c.logger.Error("inventory call rejected",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("%s: %w", op, ErrRequestFailed)
	}
	return nil
}
