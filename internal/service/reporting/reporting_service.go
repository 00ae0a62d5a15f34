// Package reporting turns the catalog's authoritative list into stock
// snapshot rows and appends them to a spreadsheet for offline review.
package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JesVite28/products-front/internal/domain/models"
	repo "github.com/JesVite28/products-front/internal/repository/sheets"
)

const (
	snapshotRange = "Inventory!A:H"
	dateFormat    = "2006-01-02 15:04"
)

// Catalog is the slice of the product controller the exporter needs.
type Catalog interface {
	All() []models.Product
}

// Service exports stock snapshots.
type Service struct {
	repo    repo.Repository
	catalog Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a snapshot exporter.
func NewService(repository repo.Repository, catalog Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:    repository,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// ExportSnapshot writes one row per product plus a totals row. Products
// the panel has not loaded yet simply produce an empty export.
func (s *Service) ExportSnapshot(ctx context.Context) error {
	products := s.catalog.All()
	if len(products) == 0 {
		s.logger.Info("snapshot skipped, catalog empty")
		return nil
	}

	stamp := s.now().UTC().Format(dateFormat)
	rows := make([][]interface{}, 0, len(products)+1)

	var totalStock int
	var totalValue float64
	for _, p := range products {
		rows = append(rows, []interface{}{
			stamp, p.ID, p.Name, p.Provider, p.Stock, p.Price, p.PurchasePrice, p.ExpiryDate,
		})
		totalStock += p.Stock
		totalValue += float64(p.Stock) * p.Price
	}
	rows = append(rows, []interface{}{
		stamp, "", "TOTAL", "", totalStock, fmt.Sprintf("%.2f", totalValue), "", "",
	})

	if err := s.repo.AppendRows(ctx, snapshotRange, rows); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	s.logger.Info("stock snapshot exported", zap.Int("products", len(products)))
	return nil
}
