package domain

import (
	"errors"
)

var (
	ErrInvalidProductName     = errors.New("name required")
	ErrInvalidProductPrice    = errors.New("price must be a non-negative number")
	ErrInvalidProductQuantity = errors.New("quantity must be a non-negative integer")
	ErrInvalidProductID       = errors.New("invalid product identifier")
)

// Product represents the catalog entity as the REST API returns it.
// ID is zero only for products that have not been created yet.
type Product struct {
	ID          int64
	Name        string
	Price       float64
	Quantity    int
	Description string
	Category    string
	DateAdded   string
	ImageURL    string
}

// IsNew reports whether the product has no server-assigned identifier.
func (p *Product) IsNew() bool {
	return p.ID == 0
}

// ProductDraft is the body of a create or update request. Price and
// Quantity are nil when the form value did not coerce to a number.
type ProductDraft struct {
	Name        string
	Price       *float64
	Quantity    *int
	Description string
	Category    string
	DateAdded   string
	ImageURL    string
}

// Validate performs business validation on the draft
func (d *ProductDraft) Validate() error {
	if d.Name == "" {
		return ErrInvalidProductName
	}
	if d.Price == nil || *d.Price < 0 {
		return ErrInvalidProductPrice
	}
	if d.Quantity == nil || *d.Quantity < 0 {
		return ErrInvalidProductQuantity
	}
	return nil
}

// Apply copies the draft onto p, keeping p's identifier.
func (d *ProductDraft) Apply(p *Product) {
	p.Name = d.Name
	if d.Price != nil {
		p.Price = *d.Price
	}
	if d.Quantity != nil {
		p.Quantity = *d.Quantity
	}
	p.Description = d.Description
	p.Category = d.Category
	p.DateAdded = d.DateAdded
	p.ImageURL = d.ImageURL
}
