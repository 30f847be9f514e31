// Package dashboard assembles the student landing view: the product catalog,
// the user's recent orders, and their favorites, fetched concurrently.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cafetec/cafetec-client/internal/domain/catalog"
	"github.com/cafetec/cafetec-client/internal/domain/order"
	"github.com/cafetec/cafetec-client/internal/ports"
	"github.com/cafetec/cafetec-client/internal/service/favorites"
)

// View is the assembled dashboard payload.
type View struct {
	Products  []catalog.Product
	Orders    []order.Order
	Favorites []catalog.Product
}

// ActiveOrders filters the view's orders down to the ones still in flight.
func (v View) ActiveOrders() []order.Order {
	active := make([]order.Order, 0, len(v.Orders))
	for _, o := range v.Orders {
		if !o.Status.Terminal() {
			active = append(active, o)
		}
	}
	return active
}

// ServiceOptions groups dependencies for Service.
type ServiceOptions struct {
	Catalog   ports.CatalogAPI
	Orders    ports.OrderAPI
	Favorites *favorites.Manager
	Logger    *slog.Logger
}

// Service loads the dashboard.
type Service struct {
	catalog   ports.CatalogAPI
	orders    ports.OrderAPI
	favorites *favorites.Manager
	logger    *slog.Logger
}

// NewService constructs a dashboard Service.
func NewService(opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog:   opts.Catalog,
		orders:    opts.Orders,
		favorites: opts.Favorites,
		logger:    logger,
	}
}

// Load fetches products and order history in parallel and resolves favorite
// IDs against the fetched catalog. A favorite whose product no longer exists
// in the catalog is silently dropped from the view; the stored ID survives in
// case the product comes back.
func (s *Service) Load(ctx context.Context, token string) (View, error) {
	var view View

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.catalog.Products(gctx, token)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		view.Products = products
		return nil
	})
	g.Go(func() error {
		orders, err := s.orders.MyOrders(gctx, token)
		if err != nil {
			return fmt.Errorf("load orders: %w", err)
		}
		view.Orders = orders
		return nil
	})
	if err := g.Wait(); err != nil {
		return View{}, err
	}

	byID := make(map[int64]catalog.Product, len(view.Products))
	for _, p := range view.Products {
		byID[p.ID] = p
	}
	for _, id := range s.favorites.IDs() {
		p, ok := byID[id]
		if !ok {
			s.logger.DebugContext(ctx, "favorite not in catalog", "product_id", id)
			continue
		}
		view.Favorites = append(view.Favorites, p)
	}

	return view, nil
}

// AvailableProducts filters the catalog down to products currently on sale.
func AvailableProducts(products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if p.IsAvailable() {
			out = append(out, p)
		}
	}
	return out
}
