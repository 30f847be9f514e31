package restapi

import (
	"context"
	"net/http"

	"github.com/cafetec/cafetec-client/internal/domain/catalog"
	"github.com/cafetec/cafetec-client/internal/ports"
)

var _ ports.CatalogAPI = (*Client)(nil)

// Products lists the menu. The token is optional; the backend hides some
// items from anonymous callers.
func (c *Client) Products(ctx context.Context, token string) ([]catalog.Product, error) {
	raw, err := c.do(ctx, http.MethodGet, "/productos", token, nil)
	if err != nil {
		return nil, err
	}

	products := []catalog.Product{}
	c.decodeList(ctx, "/productos", raw, &products)
	return products, nil
}

// Categories lists the menu categories.
func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	raw, err := c.do(ctx, http.MethodGet, "/categorias", "", nil)
	if err != nil {
		return nil, err
	}

	categories := []catalog.Category{}
	c.decodeList(ctx, "/categorias", raw, &categories)
	return categories, nil
}
