package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cafetec/cafetec-client/internal/domain/order"
	"github.com/cafetec/cafetec-client/internal/ports"
)

var _ ports.OrderAPI = (*Client)(nil)

// idempotencyHeader carries the client-generated order reference so that a
// retried create cannot place a duplicate order.
const idempotencyHeader = "x-idempotency-key"

// Create places an order.
func (c *Client) Create(ctx context.Context, token string, req ports.CreateOrderRequest) (order.Order, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return order.Order{}, fmt.Errorf("marshal order: %w", err)
	}

	raw, err := c.doWithHeaders(ctx, http.MethodPost, "/pedidos", token,
		json.RawMessage(data), map[string]string{idempotencyHeader: req.ClientID})
	if err != nil {
		return order.Order{}, err
	}

	var o order.Order
	if err := json.Unmarshal(unwrapObject(raw), &o); err != nil {
		return order.Order{}, fmt.Errorf("decode created order: %w", err)
	}
	return o, nil
}

// MyOrders lists the caller's orders.
func (c *Client) MyOrders(ctx context.Context, token string) ([]order.Order, error) {
	raw, err := c.do(ctx, http.MethodGet, "/pedidos", token, nil)
	if err != nil {
		return nil, err
	}

	orders := []order.Order{}
	c.decodeList(ctx, "/pedidos", raw, &orders)
	return orders, nil
}

// Get fetches one order by id.
func (c *Client) Get(ctx context.Context, token string, id int64) (order.Order, error) {
	raw, err := c.do(ctx, http.MethodGet, "/pedidos/"+strconv.FormatInt(id, 10), token, nil)
	if err != nil {
		return order.Order{}, err
	}

	var o order.Order
	if err := json.Unmarshal(unwrapObject(raw), &o); err != nil {
		return order.Order{}, fmt.Errorf("decode order: %w", err)
	}
	return o, nil
}

// Status fetches just the order status, used by polling.
func (c *Client) Status(ctx context.Context, token string, id int64) (order.Status, error) {
	raw, err := c.do(ctx, http.MethodGet, "/pedidos/"+strconv.FormatInt(id, 10)+"/estado", token, nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		Status order.Status `json:"estado"`
	}
	if err := json.Unmarshal(unwrapObject(raw), &resp); err != nil {
		return "", fmt.Errorf("decode order status: %w", err)
	}
	if resp.Status == "" {
		return "", fmt.Errorf("order status response missing estado")
	}
	return resp.Status, nil
}

// Pay records a payment for the order.
func (c *Client) Pay(ctx context.Context, token string, id int64, method string) error {
	body := struct {
		Method string `json:"metodo_pago"`
	}{Method: method}
	_, err := c.do(ctx, http.MethodPost, "/pedidos/"+strconv.FormatInt(id, 10)+"/pagar", token, body)
	return err
}

// Slots lists today's available pickup slots.
func (c *Client) Slots(ctx context.Context) ([]order.Slot, error) {
	raw, err := c.do(ctx, http.MethodGet, "/pedidos/horarios/disponibles", "", nil)
	if err != nil {
		return nil, err
	}

	slots := []order.Slot{}
	c.decodeList(ctx, "/pedidos/horarios/disponibles", raw, &slots)
	return slots, nil
}
