package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/cafetec/cafetec-client/internal/domain/order"
	"github.com/cafetec/cafetec-client/internal/ports"
	"github.com/cafetec/cafetec-client/internal/service/guard"
)

func runAdmin(cmdCtx *commandContext, args []string) error {
	token, err := adminSession(cmdCtx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return printAdminDashboard(cmdCtx, token)
	}
	switch args[0] {
	case "dashboard":
		return printAdminDashboard(cmdCtx, token)
	case "products":
		return printAdminProducts(cmdCtx, token)
	case "product-add":
		return runAdminProductAdd(cmdCtx, token, args[1:])
	case "product-update":
		return runAdminProductUpdate(cmdCtx, token, args[1:])
	case "product-active":
		return runAdminProductActive(cmdCtx, token, args[1:])
	case "orders":
		return printAdminOrders(cmdCtx, token)
	case "order-status":
		return runAdminOrderStatus(cmdCtx, token, args[1:])
	case "users":
		return printAdminUsers(cmdCtx, token)
	case "user-role":
		return runAdminUserRole(cmdCtx, token, args[1:])
	case "user-active":
		return runAdminUserActive(cmdCtx, token, args[1:])
	default:
		return fmt.Errorf("unknown admin action %q (valid: dashboard, products, product-add, product-update, product-active, orders, order-status, users, user-role, user-active)", args[0])
	}
}

// adminSession restores the session and verifies the administrator role.
func adminSession(cmdCtx *commandContext) (string, error) {
	token, err := restoreSession(cmdCtx)
	if err != nil {
		return "", err
	}
	g := cmdCtx.App.AdminGuard()
	defer g.Close()
	if g.State() != guard.StateGranted {
		return "", errors.New("administration requires the administrator role")
	}
	return token, nil
}

func printAdminDashboard(cmdCtx *commandContext, token string) error {
	ov, err := cmdCtx.App.Admin.Overview(cmdCtx.Ctx, token)
	if err != nil {
		return err
	}

	if err := writef(os.Stdout, "Orders total: %d  today: %d  pending: %d\n",
		ov.Stats.TotalOrders, ov.Stats.OrdersToday, ov.Stats.PendingOrders); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Sales today: %s  Active products: %d\n",
		ov.Stats.SalesToday.StringFixed(2), ov.Stats.ActiveProducts); err != nil {
		return err
	}

	if len(ov.Stats.TopProducts) > 0 {
		if err := writef(os.Stdout, "\nTop products:\n"); err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		if err := writeln(w, "ID\tProduct\tSold\tRevenue"); err != nil {
			return err
		}
		for _, p := range ov.Stats.TopProducts {
			if err := writef(w, "%d\t%s\t%d\t%s\n", p.ProductID, p.Name, p.Sold, p.Revenue.StringFixed(2)); err != nil {
				return err
			}
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush top products table: %w", err)
		}
	}

	if len(ov.RecentOrders) == 0 {
		return nil
	}
	if err := writef(os.Stdout, "\nRecent orders:\n"); err != nil {
		return err
	}
	return printOrderTable(ov.RecentOrders)
}

func printAdminProducts(cmdCtx *commandContext, token string) error {
	products, err := cmdCtx.App.API.AllProducts(cmdCtx.Ctx, token)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	if len(products) == 0 {
		return writeln(os.Stdout, "(no products)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tProduct\tPrice\tActive"); err != nil {
		return err
	}
	for _, p := range products {
		active := "yes"
		if !p.IsAvailable() {
			active = "no"
		}
		if err := writef(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), active); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush products table: %w", err)
	}
	return nil
}

func parseProductInput(name string, args []string) (int64, ports.ProductInput, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	productID := fs.Int64("product", 0, "Product ID (update only)")
	prodName := fs.String("name", "", "Product name (required)")
	desc := fs.String("desc", "", "Product description")
	price := fs.String("price", "", "Unit price (required)")
	image := fs.String("image", "", "Image URL")
	category := fs.Int64("category", 0, "Category ID (required)")

	if err := fs.Parse(args); err != nil {
		return 0, ports.ProductInput{}, err
	}
	if *prodName == "" {
		return 0, ports.ProductInput{}, errors.New("--name is required")
	}
	if *category <= 0 {
		return 0, ports.ProductInput{}, errors.New("--category is required")
	}
	p, err := decimal.NewFromString(*price)
	if err != nil {
		return 0, ports.ProductInput{}, fmt.Errorf("invalid --price %q", *price)
	}

	return *productID, ports.ProductInput{
		Name:        *prodName,
		Description: *desc,
		Price:       p,
		ImageURL:    *image,
		CategoryID:  *category,
	}, nil
}

func runAdminProductAdd(cmdCtx *commandContext, token string, args []string) error {
	_, in, err := parseProductInput("admin product-add", args)
	if err != nil {
		return err
	}

	p, err := cmdCtx.App.API.CreateProduct(cmdCtx.Ctx, token, in)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return writef(os.Stdout, "Product %d created: %s\n", p.ID, p.Name)
}

func runAdminProductUpdate(cmdCtx *commandContext, token string, args []string) error {
	id, in, err := parseProductInput("admin product-update", args)
	if err != nil {
		return err
	}
	if id <= 0 {
		return errors.New("--product is required")
	}

	p, err := cmdCtx.App.API.UpdateProduct(cmdCtx.Ctx, token, id, in)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return writef(os.Stdout, "Product %d updated: %s\n", p.ID, p.Name)
}

func runAdminProductActive(cmdCtx *commandContext, token string, args []string) error {
	fs := flag.NewFlagSet("admin product-active", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	productID := fs.Int64("product", 0, "Product ID (required)")
	active := fs.Bool("active", true, "Whether the product is on sale")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *productID <= 0 {
		return errors.New("--product is required")
	}

	if err := cmdCtx.App.API.SetProductActive(cmdCtx.Ctx, token, *productID, *active); err != nil {
		return fmt.Errorf("set product availability: %w", err)
	}
	return writef(os.Stdout, "Product %d active=%v\n", *productID, *active)
}

func printAdminOrders(cmdCtx *commandContext, token string) error {
	orders, err := cmdCtx.App.API.AllOrders(cmdCtx.Ctx, token)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	if len(orders) == 0 {
		return writeln(os.Stdout, "(no orders)")
	}
	return printOrderTable(orders)
}

func printOrderTable(orders []order.Order) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tStatus\tPaid\tTotal\tPlaced"); err != nil {
		return err
	}
	for _, o := range orders {
		placed := ""
		if !o.Placed.IsZero() {
			placed = o.Placed.Format("2006-01-02 15:04")
		}
		paid := ""
		if o.Paid {
			paid = "yes"
		}
		if err := writef(w, "%d\t%s\t%s\t%s\t%s\n", o.ID, o.Status, paid, o.Total.StringFixed(2), placed); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush orders table: %w", err)
	}
	return nil
}

func runAdminOrderStatus(cmdCtx *commandContext, token string, args []string) error {
	fs := flag.NewFlagSet("admin order-status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	orderID := fs.Int64("order", 0, "Order ID (required)")
	status := fs.String("status", "", "New status name (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *orderID <= 0 {
		return errors.New("--order is required")
	}
	if *status == "" {
		return errors.New("--status is required")
	}

	if err := cmdCtx.App.Admin.SetOrderStatus(cmdCtx.Ctx, token, *orderID, order.Status(*status)); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return writef(os.Stdout, "Order %d moved to %s\n", *orderID, *status)
}

func printAdminUsers(cmdCtx *commandContext, token string) error {
	users, err := cmdCtx.App.API.Users(cmdCtx.Ctx, token)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	if len(users) == 0 {
		return writeln(os.Stdout, "(no users)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tName\tEmail\tAdmin\tActive"); err != nil {
		return err
	}
	for _, u := range users {
		admin := ""
		if u.IsAdmin() {
			admin = "yes"
		}
		active := "yes"
		if !u.Active {
			active = "no"
		}
		if err := writef(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, admin, active); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush users table: %w", err)
	}
	return nil
}

func runAdminUserRole(cmdCtx *commandContext, token string, args []string) error {
	fs := flag.NewFlagSet("admin user-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	userID := fs.Int64("user", 0, "User ID (required)")
	isAdmin := fs.Bool("admin", false, "Grant (true) or revoke (false) the administrator role")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID <= 0 {
		return errors.New("--user is required")
	}

	if err := cmdCtx.App.API.SetUserAdmin(cmdCtx.Ctx, token, *userID, *isAdmin); err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	return writef(os.Stdout, "User %d admin=%v\n", *userID, *isAdmin)
}

func runAdminUserActive(cmdCtx *commandContext, token string, args []string) error {
	fs := flag.NewFlagSet("admin user-active", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	userID := fs.Int64("user", 0, "User ID (required)")
	active := fs.Bool("active", true, "Enable (true) or disable (false) the account")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID <= 0 {
		return errors.New("--user is required")
	}

	if err := cmdCtx.App.API.SetUserActive(cmdCtx.Ctx, token, *userID, *active); err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return writef(os.Stdout, "User %d active=%v\n", *userID, *active)
}
