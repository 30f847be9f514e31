package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cafetec/cafetec-client/internal/service/dashboard"
	"github.com/cafetec/cafetec-client/internal/service/tracker"
)

type menuOptions struct {
	All bool
}

func parseMenuFlags(args []string) (menuOptions, error) {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts menuOptions
	fs.BoolVar(&opts.All, "all", false, "Include products marked unavailable")

	if err := fs.Parse(args); err != nil {
		return menuOptions{}, err
	}
	return opts, nil
}

func runMenu(cmdCtx *commandContext, args []string) error {
	opts, err := parseMenuFlags(args)
	if err != nil {
		return err
	}
	token, err := restoreSession(cmdCtx)
	if err != nil {
		return err
	}

	products, err := cmdCtx.App.API.Products(cmdCtx.Ctx, token)
	if err != nil {
		return fmt.Errorf("load menu: %w", err)
	}
	if !opts.All {
		products = dashboard.AvailableProducts(products)
	}
	if len(products) == 0 {
		return writeln(os.Stdout, "(menu is empty)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tProduct\tPrice\tFav"); err != nil {
		return err
	}
	for _, p := range products {
		fav := ""
		if cmdCtx.App.Favorites.IsFavorite(p.ID) {
			fav = "*"
		}
		name := p.Name
		if !p.IsAvailable() {
			name += " (unavailable)"
		}
		if err := writef(w, "%d\t%s\t%s\t%s\n", p.ID, name, p.Price.StringFixed(2), fav); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush menu table: %w", err)
	}
	return nil
}

func runFavorite(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("favorite", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	productID := fs.Int64("product", 0, "Product ID to toggle (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *productID <= 0 {
		return errors.New("--product is required")
	}

	added, err := cmdCtx.App.Favorites.Toggle(cmdCtx.Ctx, *productID)
	if err != nil {
		return fmt.Errorf("toggle favorite: %w", err)
	}
	if added {
		return writef(os.Stdout, "Product %d added to favorites\n", *productID)
	}
	return writef(os.Stdout, "Product %d removed from favorites\n", *productID)
}

func runCart(cmdCtx *commandContext, args []string) error {
	if len(args) == 0 {
		return printCart(cmdCtx)
	}

	switch args[0] {
	case "show":
		return printCart(cmdCtx)
	case "add":
		return runCartAdd(cmdCtx, args[1:])
	case "remove":
		return runCartRemove(cmdCtx, args[1:])
	case "set":
		return runCartSet(cmdCtx, args[1:])
	case "clear":
		if err := cmdCtx.App.Cart.Clear(cmdCtx.Ctx); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return writeln(os.Stdout, "Cart cleared.")
	default:
		return fmt.Errorf("unknown cart action %q (valid: show, add, remove, set, clear)", args[0])
	}
}

func runCartAdd(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("cart add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	productID := fs.Int64("product", 0, "Product ID (required)")
	qty := fs.Int("qty", 1, "Quantity to add")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *productID <= 0 {
		return errors.New("--product is required")
	}

	token, err := restoreSession(cmdCtx)
	if err != nil {
		return err
	}

	// Adding requires a price snapshot, so resolve the product first.
	products, err := cmdCtx.App.API.Products(cmdCtx.Ctx, token)
	if err != nil {
		return fmt.Errorf("load menu: %w", err)
	}
	for _, p := range products {
		if p.ID != *productID {
			continue
		}
		if !p.IsAvailable() {
			return fmt.Errorf("product %d is not available", *productID)
		}
		if err := cmdCtx.App.Cart.Add(cmdCtx.Ctx, p, *qty); err != nil {
			return fmt.Errorf("add to cart: %w", err)
		}
		return printCart(cmdCtx)
	}
	return fmt.Errorf("product %d not found in the menu", *productID)
}

func runCartRemove(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("cart remove", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	productID := fs.Int64("product", 0, "Product ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *productID <= 0 {
		return errors.New("--product is required")
	}

	if err := cmdCtx.App.Cart.Remove(cmdCtx.Ctx, *productID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return printCart(cmdCtx)
}

func runCartSet(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("cart set", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	productID := fs.Int64("product", 0, "Product ID (required)")
	qty := fs.Int("qty", 0, "New quantity (0 removes the line)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *productID <= 0 {
		return errors.New("--product is required")
	}

	if err := cmdCtx.App.Cart.SetQuantity(cmdCtx.Ctx, *productID, *qty); err != nil {
		return fmt.Errorf("set quantity: %w", err)
	}
	return printCart(cmdCtx)
}

func printCart(cmdCtx *commandContext) error {
	entries := cmdCtx.App.Cart.Entries()
	if len(entries) == 0 {
		return writeln(os.Stdout, "(cart is empty)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tProduct\tQty\tUnit\tSubtotal"); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writef(w, "%d\t%s\t%d\t%s\t%s\n",
			e.ProductID, e.Name, e.Quantity, e.Price.StringFixed(2), e.Subtotal().StringFixed(2)); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush cart table: %w", err)
	}
	return writef(os.Stdout, "\nItems: %d  Total: %s\n",
		cmdCtx.App.Cart.TotalItems(), cmdCtx.App.Cart.TotalPrice().StringFixed(2))
}

func runSlots(cmdCtx *commandContext, _ []string) error {
	slots, err := cmdCtx.App.API.Slots(cmdCtx.Ctx)
	if err != nil {
		return fmt.Errorf("load slots: %w", err)
	}
	if len(slots) == 0 {
		return writeln(os.Stdout, "(no pickup slots)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tStart\tEnd\tOpens in"); err != nil {
		return err
	}
	for _, s := range slots {
		opens, cdErr := cmdCtx.App.Tracker.Countdown(s)
		if cdErr != nil {
			opens = "?"
		}
		if err := writef(w, "%d\t%s\t%s\t%s\n", s.ID, s.Start, s.End, opens); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush slots table: %w", err)
	}
	return nil
}

func runCheckout(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	slotID := fs.Int64("slot", 0, "Pickup slot ID (required)")
	notes := fs.String("notes", "", "Order notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *slotID <= 0 {
		return errors.New("--slot is required")
	}

	if _, err := restoreSession(cmdCtx); err != nil {
		return err
	}

	placed, err := cmdCtx.App.Checkout.Place(cmdCtx.Ctx, *slotID, *notes)
	if err != nil {
		return err
	}

	return writef(os.Stdout, "Order %d placed (%s). Total: %s\n",
		placed.ID, placed.Status, placed.Total.StringFixed(2))
}

func runOrders(cmdCtx *commandContext, _ []string) error {
	token, err := restoreSession(cmdCtx)
	if err != nil {
		return err
	}

	orders, err := cmdCtx.App.API.MyOrders(cmdCtx.Ctx, token)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	if len(orders) == 0 {
		return writeln(os.Stdout, "(no orders)")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "ID\tStatus\tPaid\tTotal"); err != nil {
		return err
	}
	for _, o := range orders {
		paid := "no"
		if o.Paid {
			paid = "yes"
		}
		if err := writef(w, "%d\t%s\t%s\t%s\n", o.ID, o.Status, paid, o.Total.StringFixed(2)); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush orders table: %w", err)
	}
	return nil
}

func runPay(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	orderID := fs.Int64("order", 0, "Order ID to pay (required)")
	method := fs.String("method", "efectivo", "Payment method")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *orderID <= 0 {
		return errors.New("--order is required")
	}

	token, err := restoreSession(cmdCtx)
	if err != nil {
		return err
	}

	if err := cmdCtx.App.API.Pay(cmdCtx.Ctx, token, *orderID, *method); err != nil {
		return fmt.Errorf("pay order: %w", err)
	}
	return writef(os.Stdout, "Order %d paid (%s)\n", *orderID, *method)
}

func runTrack(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("track", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	orderID := fs.Int64("order", 0, "Order ID to follow (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *orderID <= 0 {
		return errors.New("--order is required")
	}

	token, err := restoreSession(cmdCtx)
	if err != nil {
		return err
	}

	final, err := cmdCtx.App.Tracker.Run(cmdCtx.Ctx, token, *orderID, func(u tracker.Update) {
		if werr := writef(os.Stdout, "order %d: %s\n", u.OrderID, u.Status); werr != nil {
			cmdCtx.Logger.Warn("write status update failed", "error", werr)
		}
	})
	if err != nil {
		return fmt.Errorf("track order: %w", err)
	}

	return writef(os.Stdout, "Order %d finished: %s\n", *orderID, final)
}
