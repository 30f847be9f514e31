package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cafetec/cafetec-client/internal/domain/catalog"
	"github.com/cafetec/cafetec-client/internal/domain/order"
	"github.com/cafetec/cafetec-client/internal/ports"
)

var _ ports.AdminAPI = (*Client)(nil)

// AllProducts lists every product, active or not.
func (c *Client) AllProducts(ctx context.Context, token string) ([]catalog.Product, error) {
	raw, err := c.do(ctx, http.MethodGet, "/productos/admin", token, nil)
	if err != nil {
		return nil, err
	}

	products := []catalog.Product{}
	c.decodeList(ctx, "/productos/admin", raw, &products)
	return products, nil
}

// CreateProduct adds a product to the catalog.
func (c *Client) CreateProduct(ctx context.Context, token string, in ports.ProductInput) (catalog.Product, error) {
	raw, err := c.do(ctx, http.MethodPost, "/productos", token, in)
	if err != nil {
		return catalog.Product{}, err
	}

	var p catalog.Product
	if err := json.Unmarshal(unwrapObject(raw), &p); err != nil {
		return catalog.Product{}, fmt.Errorf("decode created product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces a product's editable fields.
func (c *Client) UpdateProduct(ctx context.Context, token string, id int64, in ports.ProductInput) (catalog.Product, error) {
	raw, err := c.do(ctx, http.MethodPut, "/productos/"+strconv.FormatInt(id, 10), token, in)
	if err != nil {
		return catalog.Product{}, err
	}

	var p catalog.Product
	if err := json.Unmarshal(unwrapObject(raw), &p); err != nil {
		return catalog.Product{}, fmt.Errorf("decode updated product: %w", err)
	}
	return p, nil
}

// SetProductActive toggles a product's availability.
func (c *Client) SetProductActive(ctx context.Context, token string, id int64, active bool) error {
	body := struct {
		Active bool `json:"activo"`
	}{Active: active}
	_, err := c.do(ctx, http.MethodPatch, "/productos/"+strconv.FormatInt(id, 10)+"/activo", token, body)
	return err
}

// AllOrders lists every order across all accounts.
func (c *Client) AllOrders(ctx context.Context, token string) ([]order.Order, error) {
	raw, err := c.do(ctx, http.MethodGet, "/admin/pedidos", token, nil)
	if err != nil {
		return nil, err
	}

	orders := []order.Order{}
	c.decodeList(ctx, "/admin/pedidos", raw, &orders)
	return orders, nil
}

// OrderDetails fetches one order regardless of its owner.
func (c *Client) OrderDetails(ctx context.Context, token string, id int64) (order.Order, error) {
	raw, err := c.do(ctx, http.MethodGet, "/admin/pedidos/"+strconv.FormatInt(id, 10), token, nil)
	if err != nil {
		return order.Order{}, err
	}

	var o order.Order
	if err := json.Unmarshal(unwrapObject(raw), &o); err != nil {
		return order.Order{}, fmt.Errorf("decode order: %w", err)
	}
	return o, nil
}

// UpdateOrderStatus moves an order to the status with the given numeric id.
func (c *Client) UpdateOrderStatus(ctx context.Context, token string, id int64, statusID int) error {
	body := struct {
		StatusID int `json:"id_estado"`
	}{StatusID: statusID}
	_, err := c.do(ctx, http.MethodPut, "/pedidos/"+strconv.FormatInt(id, 10)+"/estado", token, body)
	return err
}

// Stats fetches the dashboard aggregate.
func (c *Client) Stats(ctx context.Context, token string) (ports.DashboardStats, error) {
	raw, err := c.do(ctx, http.MethodGet, "/admin/dashboard/stats", token, nil)
	if err != nil {
		return ports.DashboardStats{}, err
	}

	var stats ports.DashboardStats
	if err := json.Unmarshal(unwrapObject(raw), &stats); err != nil {
		return ports.DashboardStats{}, fmt.Errorf("decode dashboard stats: %w", err)
	}
	return stats, nil
}

// Users lists every account.
func (c *Client) Users(ctx context.Context, token string) ([]ports.User, error) {
	raw, err := c.do(ctx, http.MethodGet, "/admin/users", token, nil)
	if err != nil {
		return nil, err
	}

	users := []ports.User{}
	c.decodeList(ctx, "/admin/users", raw, &users)
	return users, nil
}

// SetUserAdmin grants or revokes the administrator role.
func (c *Client) SetUserAdmin(ctx context.Context, token string, id int64, isAdmin bool) error {
	body := struct {
		IsAdmin bool `json:"is_admin"`
	}{IsAdmin: isAdmin}
	_, err := c.do(ctx, http.MethodPatch, "/admin/users/"+strconv.FormatInt(id, 10)+"/role", token, body)
	return err
}

// SetUserActive enables or disables an account.
func (c *Client) SetUserActive(ctx context.Context, token string, id int64, active bool) error {
	body := struct {
		Active bool `json:"activo"`
	}{Active: active}
	_, err := c.do(ctx, http.MethodPatch, "/admin/users/"+strconv.FormatInt(id, 10)+"/active", token, body)
	return err
}
