package ports

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/cafetec/cafetec-client/internal/domain/auth"
	"github.com/cafetec/cafetec-client/internal/domain/catalog"
	"github.com/cafetec/cafetec-client/internal/domain/order"
)

// ProductInput is the payload for creating or updating a catalog product.
type ProductInput struct {
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	ImageURL    string          `json:"imagen_url"`
	CategoryID  int64           `json:"id_categoria"`
}

// User is an account record from the admin user listing.
type User struct {
	ID     int64  `json:"id_usuario"`
	Name   string `json:"nombre"`
	Email  string `json:"email"`
	Active bool   `json:"activo"`

	// Raw is the full record, retained so role derivation sees every shape
	// the backend has shipped.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the record and keeps the raw payload.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = User(p)
	u.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Roles derives the user's role set from the raw record.
func (u User) Roles() auth.RoleSet {
	return auth.NormalizeRoles(u.Raw)
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Roles().Has(auth.RoleAdministrator)
}

// SalesDay is one day of the trailing-week sales series.
type SalesDay struct {
	Date  string          `json:"fecha"`
	Total decimal.Decimal `json:"total_ventas"`
}

// TopProduct is one entry of the best-sellers ranking.
type TopProduct struct {
	ProductID int64           `json:"id_producto"`
	Name      string          `json:"nombre_producto"`
	Sold      int             `json:"total_vendido"`
	Revenue   decimal.Decimal `json:"ingresos_totales"`
	Price     decimal.Decimal `json:"precio"`
}

// DashboardStats is the admin dashboard aggregate.
type DashboardStats struct {
	TotalOrders    int             `json:"totalPedidos"`
	OrdersToday    int             `json:"pedidosHoy"`
	SalesToday     decimal.Decimal `json:"ventasHoy"`
	ActiveProducts int             `json:"productosActivos"`
	PendingOrders  int             `json:"pedidosPendientes"`
	LastWeekSales  []SalesDay      `json:"ventasUltimaSemana"`
	TopProducts    []TopProduct    `json:"productosMasVendidos"`
}

// AdminAPI is the administration endpoint surface: product management, the
// full order book, dashboard stats, and account management. Every call
// requires an administrator token.
type AdminAPI interface {
	// AllProducts lists every product, including inactive ones the public
	// catalog hides.
	AllProducts(ctx context.Context, token string) ([]catalog.Product, error)

	CreateProduct(ctx context.Context, token string, in ProductInput) (catalog.Product, error)
	UpdateProduct(ctx context.Context, token string, id int64, in ProductInput) (catalog.Product, error)

	// SetProductActive toggles availability without touching other fields.
	SetProductActive(ctx context.Context, token string, id int64, active bool) error

	// AllOrders lists every order across all accounts.
	AllOrders(ctx context.Context, token string) ([]order.Order, error)
	OrderDetails(ctx context.Context, token string, id int64) (order.Order, error)
	UpdateOrderStatus(ctx context.Context, token string, id int64, statusID int) error

	Stats(ctx context.Context, token string) (DashboardStats, error)

	Users(ctx context.Context, token string) ([]User, error)
	SetUserAdmin(ctx context.Context, token string, id int64, isAdmin bool) error
	SetUserActive(ctx context.Context, token string, id int64, active bool) error
}
