package dto

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/mrops-br/catalog-ui/internal/domain"
)

// Form field identifiers shared with the page markup
const (
	FieldProductID   = "product-id"
	FieldName        = "name"
	FieldPrice       = "price"
	FieldQuantity    = "quantity"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldDateAdded   = "date-added"
	FieldImageURL    = "image-url"
)

// FormFieldIDs lists every field of the product form in display order
var FormFieldIDs = []string{
	FieldProductID,
	FieldName,
	FieldPrice,
	FieldQuantity,
	FieldDescription,
	FieldCategory,
	FieldDateAdded,
	FieldImageURL,
}

// FormValues holds the raw text of the product form fields
type FormValues struct {
	ID          string `mapstructure:"product-id"`
	Name        string `mapstructure:"name"`
	Price       string `mapstructure:"price"`
	Quantity    string `mapstructure:"quantity"`
	Description string `mapstructure:"description"`
	Category    string `mapstructure:"category"`
	DateAdded   string `mapstructure:"date-added"`
	ImageURL    string `mapstructure:"image-url"`
}

// FormFromProduct fills the form from an existing product, identifier included
func FormFromProduct(p *domain.Product) FormValues {
	return FormValues{
		ID:          strconv.FormatInt(p.ID, 10),
		Name:        p.Name,
		Price:       FormatPrice(p.Price),
		Quantity:    strconv.Itoa(p.Quantity),
		Description: p.Description,
		Category:    p.Category,
		DateAdded:   p.DateAdded,
		ImageURL:    p.ImageURL,
	}
}

// Identifier returns the product identifier held by the form. ok is false
// when the field is empty, meaning the form creates a new product.
func (f FormValues) Identifier() (id int64, ok bool, err error) {
	if f.ID == "" {
		return 0, false, nil
	}
	id, err = strconv.ParseInt(f.ID, 10, 64)
	if err != nil || id <= 0 {
		return 0, true, fmt.Errorf("%w: %q", domain.ErrInvalidProductID, f.ID)
	}
	return id, true, nil
}

// Draft converts the form into a request body, coercing price and quantity
func (f FormValues) Draft() *domain.ProductDraft {
	return &domain.ProductDraft{
		Name:        f.Name,
		Price:       ParseFloatPrefix(f.Price),
		Quantity:    ParseIntPrefix(f.Quantity),
		Description: f.Description,
		Category:    f.Category,
		DateAdded:   f.DateAdded,
		ImageURL:    f.ImageURL,
	}
}

// DecodeForm binds submitted form fields by their markup identifiers
func DecodeForm(form url.Values) (FormValues, error) {
	raw := make(map[string]string, len(FormFieldIDs))
	for _, field := range FormFieldIDs {
		raw[field] = form.Get(field)
	}

	var values FormValues
	if err := mapstructure.Decode(raw, &values); err != nil {
		return FormValues{}, fmt.Errorf("failed to decode product form: %w", err)
	}
	return values, nil
}

// Tile is the display model of one product in the grid
type Tile struct {
	ID          int64
	Name        string
	Price       string
	Quantity    string
	Description string
	Category    string
	DateAdded   string
	ImageURL    string
}

// ToTile converts a domain Product to its Tile
func ToTile(p domain.Product) Tile {
	return Tile{
		ID:          p.ID,
		Name:        p.Name,
		Price:       FormatPrice(p.Price),
		Quantity:    strconv.Itoa(p.Quantity),
		Description: p.Description,
		Category:    p.Category,
		DateAdded:   p.DateAdded,
		ImageURL:    p.ImageURL,
	}
}

// ToTileList converts a list of domain Products to tiles
func ToTileList(products []domain.Product) []Tile {
	tiles := make([]Tile, len(products))
	for i, p := range products {
		tiles[i] = ToTile(p)
	}
	return tiles
}

// FormatPrice renders a price in its shortest round-trip form (1.5, 2, 0.1)
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
