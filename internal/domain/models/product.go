package models

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Validation failures surfaced before any request is issued.
var (
	ErrMissingFields = errors.New("all fields are required")
	ErrInvalidNumber = errors.New("numeric fields must be valid numbers")
	ErrNegativeStock = errors.New("stock cannot be negative")
	ErrNegativePrice = errors.New("prices cannot be negative")
)

// Product mirrors the remote inventory API's product resource. The
// identifier is server-assigned and absent until the first save.
type Product struct {
	ID            string  `json:"_id,omitempty"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Description   string  `json:"description"`
	Stock         int     `json:"stock"`
	ExpiryDate    string  `json:"date_caducity"`
	PurchaseDate  string  `json:"date_buy"`
	Provider      string  `json:"provider"`
	PurchasePrice float64 `json:"price_buy"`
	// Image is an inline data URI. A nil pointer means "not submitted":
	// the field is omitted from update payloads so the server keeps the
	// current image.
	Image *string `json:"image,omitempty"`
}

// ProductForm carries user input for create and update. Numeric fields
// arrive as strings and are validated locally; nothing is sent to the
// server until the form parses cleanly.
type ProductForm struct {
	Name          string  `json:"name"`
	Price         string  `json:"price"`
	Description   string  `json:"description"`
	Stock         string  `json:"stock"`
	ExpiryDate    string  `json:"date_caducity"`
	PurchaseDate  string  `json:"date_buy"`
	Provider      string  `json:"provider"`
	PurchasePrice string  `json:"price_buy"`
	Image         *string `json:"image,omitempty"`
}

// Parse validates the form and converts it into a Product payload.
// Price, stock and purchase price must parse as finite numbers, stock
// must be a non-negative integer and no price may be negative.
func (f *ProductForm) Parse() (*Product, error) {
	required := []string{
		f.Name, f.Price, f.Description, f.Stock,
		f.ExpiryDate, f.PurchaseDate, f.Provider, f.PurchasePrice,
	}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return nil, ErrMissingFields
		}
	}

	price, err := parseFinite(f.Price)
	if err != nil {
		return nil, err
	}
	purchasePrice, err := parseFinite(f.PurchasePrice)
	if err != nil {
		return nil, err
	}
	stock, err := parseStock(f.Stock)
	if err != nil {
		return nil, err
	}

	if price < 0 || purchasePrice < 0 {
		return nil, ErrNegativePrice
	}

	return &Product{
		Name:          f.Name,
		Price:         price,
		Description:   f.Description,
		Stock:         stock,
		ExpiryDate:    f.ExpiryDate,
		PurchaseDate:  f.PurchaseDate,
		Provider:      f.Provider,
		PurchasePrice: purchasePrice,
		Image:         f.Image,
	}, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidNumber
	}
	return v, nil
}

func parseStock(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidNumber
	}
	if v < 0 {
		return 0, ErrNegativeStock
	}
	return v, nil
}

// Merge overlays the non-zero fields of other onto p and returns the
// result. Used to fold a server response into the locally submitted
// payload without losing fields the server echoed back empty.
func (p Product) Merge(other Product) Product {
	if other.ID != "" {
		p.ID = other.ID
	}
	if other.Name != "" {
		p.Name = other.Name
	}
	if other.Price != 0 {
		p.Price = other.Price
	}
	if other.Description != "" {
		p.Description = other.Description
	}
	if other.Stock != 0 {
		p.Stock = other.Stock
	}
	if other.ExpiryDate != "" {
		p.ExpiryDate = other.ExpiryDate
	}
	if other.PurchaseDate != "" {
		p.PurchaseDate = other.PurchaseDate
	}
	if other.Provider != "" {
		p.Provider = other.Provider
	}
	if other.PurchasePrice != 0 {
		p.PurchasePrice = other.PurchasePrice
	}
	if other.Image != nil {
		p.Image = other.Image
	}
	return p
}
