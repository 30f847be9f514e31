// Command cafetec is a terminal client for the CaféTec campus cafeteria
// backend. It drives the same session, cart, and ordering services a kiosk
// frontend embeds.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cafetec/cafetec-client/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	App    *bootstrap.App
}

func main() {
	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if err := printUsage(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	ctx := context.Background()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger := bootstrap.InitLogger(cfg.IsDev)

	app, err := bootstrap.NewApp(ctx, &bootstrap.AppDeps{
		Config:    &cfg,
		Navigator: &printNavigator{logger: logger},
		Logger:    logger,
	})
	if err != nil {
		logger.ErrorContext(ctx, "bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.Warn("close app failed", "error", cerr)
		}
	}()

	cmdCtx := &commandContext{Ctx: ctx, Logger: logger, App: app}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1)
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in and persist the session token",
			run:         runLogin,
		},
		"register": {
			name:        "register",
			description: "Create an account (does not sign in)",
			run:         runRegister,
		},
		"logout": {
			name:        "logout",
			description: "Discard the persisted session",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the current session profile and roles",
			run:         runWhoami,
		},
		"menu": {
			name:        "menu",
			description: "List the product catalog",
			run:         runMenu,
		},
		"favorite": {
			name:        "favorite",
			description: "Toggle a product as favorite",
			run:         runFavorite,
		},
		"cart": {
			name:        "cart",
			description: "Show or edit the cart (add/remove/set/clear)",
			run:         runCart,
		},
		"slots": {
			name:        "slots",
			description: "List pickup time slots",
			run:         runSlots,
		},
		"checkout": {
			name:        "checkout",
			description: "Place an order from the current cart",
			run:         runCheckout,
		},
		"orders": {
			name:        "orders",
			description: "List your orders",
			run:         runOrders,
		},
		"pay": {
			name:        "pay",
			description: "Pay for an order",
			run:         runPay,
		},
		"track": {
			name:        "track",
			description: "Follow an order until it reaches a final status",
			run:         runTrack,
		},
		"report": {
			name:        "report",
			description: "Show or export the sales report (administrators)",
			run:         runReport,
		},
		"admin": {
			name:        "admin",
			description: "Manage products, orders, and users (administrators)",
			run:         runAdmin,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: cafetec <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	for _, name := range []string{
		"login", "register", "logout", "whoami",
		"menu", "favorite", "cart", "slots",
		"checkout", "orders", "pay", "track", "report", "admin",
	} {
		c := commands()[name]
		if err := writef(os.Stdout, "  %-12s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func writeln(w io.Writer, args ...any) error {
	if _, err := fmt.Fprintln(w, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
