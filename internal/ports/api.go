package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cafetec/cafetec-client/internal/domain/auth"
	"github.com/cafetec/cafetec-client/internal/domain/catalog"
	"github.com/cafetec/cafetec-client/internal/domain/order"
)

// LoginResult is the successful response of the login endpoint.
type LoginResult struct {
	Token   string
	Profile json.RawMessage // optional; some backend versions include it
}

// Registration carries the fields of the registration form.
type Registration struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"contrasena"`
}

// AuthAPI is the authentication endpoint surface.
type AuthAPI interface {
	// Login exchanges credentials for a token. Failures carry the server's
	// display message.
	Login(ctx context.Context, email, password string) (LoginResult, error)

	// Register creates an account. It does not establish a session.
	Register(ctx context.Context, reg Registration) error

	// Profile fetches the profile for token. A non-2xx response means the
	// token is invalid or expired.
	Profile(ctx context.Context, token string) (auth.Profile, error)
}

// CatalogAPI is the menu/catalog endpoint surface. List calls degrade to an
// empty slice when the response shape is unrecognized.
type CatalogAPI interface {
	Products(ctx context.Context, token string) ([]catalog.Product, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
}

// CreateOrderRequest is the payload of the order creation endpoint.
type CreateOrderRequest struct {
	SlotID   int64           `json:"id_horario"`
	Lines    []order.Line    `json:"productos"`
	Notes    string          `json:"notas"`
	Total    decimal.Decimal `json:"total"`
	ClientID string          `json:"-"` // idempotency key, sent as a header
}

// OrderAPI is the order endpoint surface.
type OrderAPI interface {
	Create(ctx context.Context, token string, req CreateOrderRequest) (order.Order, error)
	MyOrders(ctx context.Context, token string) ([]order.Order, error)
	Get(ctx context.Context, token string, id int64) (order.Order, error)
	Status(ctx context.Context, token string, id int64) (order.Status, error)
	Pay(ctx context.Context, token string, id int64, method string) error
	Slots(ctx context.Context) ([]order.Slot, error)
}

// SalesRow is one line of the admin sales report.
type SalesRow struct {
	Date        time.Time       `json:"fecha"`
	OrderID     int64           `json:"id_pedido"`
	ProductName string          `json:"nombre_producto"`
	Quantity    int             `json:"cantidad"`
	Total       decimal.Decimal `json:"total"`
	Method      string          `json:"metodo_pago"`
}

// ReportAPI is the admin sales report surface.
type ReportAPI interface {
	Sales(ctx context.Context, token string) ([]SalesRow, error)
}
