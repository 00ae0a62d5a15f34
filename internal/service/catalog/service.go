// Package catalog is the view-state controller for the product resource.
// It sequences reads and writes against the remote API and keeps three
// derived views consistent: the authoritative full list, the currently
// displayed (possibly filtered) list and an optional detail selection.
// The reconciliation cache is always the source of truth for entities the
// panel has modified locally.
package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/JesVite28/products-front/internal/alerts"
	"github.com/JesVite28/products-front/internal/cache"
	"github.com/JesVite28/products-front/internal/domain/models"
	"github.com/JesVite28/products-front/internal/session"
	"github.com/JesVite28/products-front/pkg/clients/inventory"
)

// ErrReadOnly is returned when the acting role may not modify products.
// The check is advisory; the remote API is the enforcement boundary.
var ErrReadOnly = errors.New("your role only allows viewing products")

const (
	msgCreated    = "product created successfully"
	msgUpdated    = "product updated successfully"
	msgDeleted    = "product deleted successfully"
	msgSaveFailed = "could not save the product, check the data and try again"
	msgDelFailed  = "something went wrong deleting the product"
)

// Service orchestrates product state. All list and detail state is
// mutated under one mutex, the Go analogue of the original single event
// loop: one operation's continuation at a time.
type Service struct {
	client inventory.Client
	sess   *session.Session
	alerts *alerts.Store
	logger *zap.Logger

	mu        sync.Mutex
	overrides *cache.Overrides
	all       []models.Product
	displayed []models.Product
	detail    *models.Product
	// readSeq is the monotonically increasing token attached to every
	// read; a completion whose token is no longer the latest is stale
	// and gets discarded instead of overwriting newer state.
	readSeq uint64
}

// NewService wires a catalog controller.
func NewService(client inventory.Client, sess *session.Session, alertStore *alerts.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:    client,
		sess:      sess,
		alerts:    alertStore,
		logger:    logger,
		overrides: cache.NewOverrides(),
	}
}

func (s *Service) nextRead() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readSeq++
	return s.readSeq
}

func (s *Service) canManage() bool {
	return s.sess.CurrentUser().CanManage()
}

// ListAll fetches every product, passes the result through the
// reconciliation cache and replaces both the authoritative and the
// displayed list.
func (s *Service) ListAll(ctx context.Context) error {
	seq := s.nextRead()

	list, err := s.client.List(ctx)
	if err != nil {
		s.logger.Error("list products failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.readSeq {
		s.logger.Debug("discarding stale list result", zap.Uint64("seq", seq))
		return nil
	}

	merged := s.overrides.Apply(list)
	s.all = merged
	s.displayed = merged
	return nil
}

// Search resolves a free-text query. A query shaped like a server
// identifier (24 hex characters) first attempts a direct lookup; a miss
// silently yields an empty direct result. The case-insensitive text
// filter over name, description and provider then runs unconditionally
// and its result replaces the direct one. Both steps run in this order
// on purpose: the observed contract is that the text filter wins.
// An empty query resets to the full list.
func (s *Service) Search(ctx context.Context, query string) error {
	term := strings.TrimSpace(query)
	if term == "" {
		return s.ListAll(ctx)
	}

	seq := s.nextRead()

	var direct []models.Product
	if _, err := primitive.ObjectIDFromHex(term); err == nil {
		product, err := s.client.Get(ctx, term)
		switch {
		case err != nil || product == nil:
			s.logger.Debug("direct lookup missed", zap.String("id", term))
			direct = []models.Product{}
		default:
			direct = []models.Product{*product}
		}
	}

	lower := strings.ToLower(term)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.readSeq {
		s.logger.Debug("discarding stale search result", zap.Uint64("seq", seq))
		return nil
	}

	if direct != nil {
		for i, p := range direct {
			direct[i] = s.overrides.ApplyOne(p)
		}
		s.displayed = direct
	}

	filtered := make([]models.Product, 0)
	for _, p := range s.all {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.Description), lower) ||
			strings.Contains(strings.ToLower(p.Provider), lower) {
			filtered = append(filtered, p)
		}
	}
	s.displayed = filtered
	return nil
}

// Create validates the form locally, saves the product and folds the
// server-assigned fields into the submitted payload. Nothing is sent
// when validation fails.
func (s *Service) Create(ctx context.Context, form models.ProductForm) (*models.Product, error) {
	if !s.canManage() {
		s.alerts.Error(ErrReadOnly.Error())
		return nil, ErrReadOnly
	}

	payload, err := form.Parse()
	if err != nil {
		s.alerts.Error(err.Error())
		return nil, err
	}
	if payload.Image == nil {
		empty := ""
		payload.Image = &empty
	}

	created, err := s.client.Create(ctx, *payload)
	if err != nil {
		s.logger.Error("create product failed", zap.Error(err))
		s.alerts.Error(msgSaveFailed)
		return nil, err
	}

	merged := *payload
	if created != nil {
		merged = merged.Merge(*created)
	}

	s.mu.Lock()
	s.overrides.Record(merged)
	s.all = append(s.all, merged)
	s.displayed = append(s.displayed, merged)
	s.readSeq++ // invalidate reads issued before this write
	s.mu.Unlock()

	s.alerts.Success(msgCreated)
	return &merged, nil
}

// Update validates the submitted fields, sends a partial update and
// merges the edit over the previously known entity so unsubmitted fields
// survive. The override map, both lists and an open detail selection are
// updated in place.
func (s *Service) Update(ctx context.Context, id string, form models.ProductForm) (*models.Product, error) {
	if !s.canManage() {
		s.alerts.Error(ErrReadOnly.Error())
		return nil, ErrReadOnly
	}

	patch, err := form.ParsePatch()
	if err != nil {
		s.alerts.Error(err.Error())
		return nil, err
	}

	s.mu.Lock()
	prior := models.Product{ID: id}
	for _, p := range s.all {
		if p.ID == id {
			prior = p
			break
		}
	}
	s.mu.Unlock()

	if _, err := s.client.Update(ctx, id, *patch); err != nil {
		s.logger.Error("update product failed", zap.String("id", id), zap.Error(err))
		s.alerts.Error(msgSaveFailed)
		return nil, err
	}

	merged := patch.ApplyTo(prior)
	merged.ID = id

	s.mu.Lock()
	s.overrides.Record(merged)
	s.all = replaceByID(s.all, merged)
	s.displayed = replaceByID(s.displayed, merged)
	if s.detail != nil && s.detail.ID == id {
		s.detail = &merged
	}
	s.readSeq++
	s.mu.Unlock()

	s.alerts.Success(msgUpdated)
	return &merged, nil
}

// Delete removes the product from both lists, drops its override and
// clears a matching detail selection.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !s.canManage() {
		s.alerts.Error(ErrReadOnly.Error())
		return ErrReadOnly
	}

	if err := s.client.Delete(ctx, id); err != nil {
		s.logger.Error("delete product failed", zap.String("id", id), zap.Error(err))
		s.alerts.Error(msgDelFailed)
		return err
	}

	s.mu.Lock()
	s.all = removeByID(s.all, id)
	s.displayed = removeByID(s.displayed, id)
	s.overrides.Drop(id)
	if s.detail != nil && s.detail.ID == id {
		s.detail = nil
	}
	s.readSeq++
	s.mu.Unlock()

	s.alerts.Success(msgDeleted)
	return nil
}

// Displayed returns a copy of the list currently rendered.
func (s *Service) Displayed() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.displayed))
	copy(out, s.displayed)
	return out
}

// All returns a copy of the authoritative list.
func (s *Service) All() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.all))
	copy(out, s.all)
	return out
}

// OpenDetail selects a product from the authoritative list for the
// detail view.
func (s *Service) OpenDetail(id string) (*models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.all {
		if p.ID == id {
			selected := p
			s.detail = &selected
			return &selected, true
		}
	}
	return nil, false
}

// Detail returns the open detail selection, nil when none.
func (s *Service) Detail() *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil {
		return nil
	}
	selected := *s.detail
	return &selected
}

// CloseDetail clears the detail selection.
func (s *Service) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detail = nil
}

// Reset discards all lists, overrides and the detail selection. Used on
// logout and view navigation away.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = nil
	s.displayed = nil
	s.detail = nil
	s.overrides.Reset()
	s.readSeq++
}

func replaceByID(list []models.Product, p models.Product) []models.Product {
	for i := range list {
		if list[i].ID == p.ID {
			list[i] = p
		}
	}
	return list
}

func removeByID(list []models.Product, id string) []models.Product {
	// Fresh slice: the authoritative and displayed lists may share a
	// backing array after a full refresh.
	out := make([]models.Product, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
