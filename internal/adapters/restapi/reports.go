package restapi

import (
	"context"
	"net/http"

	"github.com/cafetec/cafetec-client/internal/ports"
)

var _ ports.ReportAPI = (*Client)(nil)

// Sales lists all sales rows for the admin report.
func (c *Client) Sales(ctx context.Context, token string) ([]ports.SalesRow, error) {
	raw, err := c.do(ctx, http.MethodGet, "/ventas", token, nil)
	if err != nil {
		return nil, err
	}

	rows := []ports.SalesRow{}
	c.decodeList(ctx, "/ventas", raw, &rows)
	return rows, nil
}
