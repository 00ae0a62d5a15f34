package models

import "strings"

// ProductPatch is the partial-update payload. Only non-nil fields travel
// to the server and only those overwrite the locally known entity;
// everything else is preserved from the prior local copy.
type ProductPatch struct {
	Name          *string  `json:"name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
	ExpiryDate    *string  `json:"date_caducity,omitempty"`
	PurchaseDate  *string  `json:"date_buy,omitempty"`
	Provider      *string  `json:"provider,omitempty"`
	PurchasePrice *float64 `json:"price_buy,omitempty"`
	Image         *string  `json:"image,omitempty"`
}

// ParsePatch validates the submitted fields of the form and converts them
// into a partial-update payload. Blank fields count as not submitted.
// The same numeric rules as Parse apply to whatever is present.
func (f *ProductForm) ParsePatch() (*ProductPatch, error) {
	patch := &ProductPatch{Image: f.Image}

	if v := strings.TrimSpace(f.Name); v != "" {
		patch.Name = &f.Name
	}
	if v := strings.TrimSpace(f.Description); v != "" {
		patch.Description = &f.Description
	}
	if v := strings.TrimSpace(f.ExpiryDate); v != "" {
		patch.ExpiryDate = &f.ExpiryDate
	}
	if v := strings.TrimSpace(f.PurchaseDate); v != "" {
		patch.PurchaseDate = &f.PurchaseDate
	}
	if v := strings.TrimSpace(f.Provider); v != "" {
		patch.Provider = &f.Provider
	}

	if strings.TrimSpace(f.Price) != "" {
		price, err := parseFinite(f.Price)
		if err != nil {
			return nil, err
		}
		if price < 0 {
			return nil, ErrNegativePrice
		}
		patch.Price = &price
	}
	if strings.TrimSpace(f.PurchasePrice) != "" {
		purchasePrice, err := parseFinite(f.PurchasePrice)
		if err != nil {
			return nil, err
		}
		if purchasePrice < 0 {
			return nil, ErrNegativePrice
		}
		patch.PurchasePrice = &purchasePrice
	}
	if raw := strings.TrimSpace(f.Stock); raw != "" {
		stock, err := parseStock(raw)
		if err != nil {
			return nil, err
		}
		patch.Stock = &stock
	}

	return patch, nil
}

// ApplyTo overlays the submitted fields onto the previously known entity
// and returns the merged result.
func (p *ProductPatch) ApplyTo(prior Product) Product {
	merged := prior
	if p.Name != nil {
		merged.Name = *p.Name
	}
	if p.Price != nil {
		merged.Price = *p.Price
	}
	if p.Description != nil {
		merged.Description = *p.Description
	}
	if p.Stock != nil {
		merged.Stock = *p.Stock
	}
	if p.ExpiryDate != nil {
		merged.ExpiryDate = *p.ExpiryDate
	}
	if p.PurchaseDate != nil {
		merged.PurchaseDate = *p.PurchaseDate
	}
	if p.Provider != nil {
		merged.Provider = *p.Provider
	}
	if p.PurchasePrice != nil {
		merged.PurchasePrice = *p.PurchasePrice
	}
	if p.Image != nil {
		merged.Image = p.Image
	}
	return merged
}
