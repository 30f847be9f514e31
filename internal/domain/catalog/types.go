// Package catalog contains domain types for the product catalog.
package catalog

import "github.com/shopspring/decimal"

// Product is a menu item as served by the catalog endpoint.
type Product struct {
	ID          int64           `json:"id_producto"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	ImageURL    string          `json:"imagen_url"`
	CategoryID  int64           `json:"id_categoria"`

	// Available is a pointer because older backend responses omit the
	// field, and an absent disponible means the product is on sale.
	Available *bool `json:"disponible"`
}

// IsAvailable reports whether the product can be ordered. Only an explicit
// disponible=false marks a product as unavailable.
func (p Product) IsAvailable() bool {
	return p.Available == nil || *p.Available
}

// Category groups menu items.
type Category struct {
	ID   int64  `json:"id_categoria"`
	Name string `json:"nombre"`
}

// Snapshot captures the fields of a product that the cart needs to keep
// stable between add-to-cart time and checkout, even if the catalog price
// changes concurrently.
type Snapshot struct {
	ProductID int64           `json:"id_producto"`
	Name      string          `json:"nombre_producto"`
	Price     decimal.Decimal `json:"precio"`
	ImageURL  string          `json:"imagen_url"`
}

// Snapshot copies the cart-relevant fields of p.
func (p Product) Snapshot() Snapshot {
	return Snapshot{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
	}
}
