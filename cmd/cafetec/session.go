package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cafetec/cafetec-client/internal/domain/auth"
	"github.com/cafetec/cafetec-client/internal/ports"
)

type loginOptions struct {
	Email    string
	Password string
}

func parseLoginFlags(args []string) (loginOptions, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts loginOptions
	fs.StringVar(&opts.Email, "email", "", "Account email (required)")
	fs.StringVar(&opts.Password, "password", "", "Account password (required)")

	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}
	if strings.TrimSpace(opts.Email) == "" || opts.Password == "" {
		return loginOptions{}, errors.New("--email and --password are required")
	}
	return opts, nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags(args)
	if err != nil {
		return err
	}

	if err := cmdCtx.App.Sessions.Login(cmdCtx.Ctx, opts.Email, opts.Password); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	s := cmdCtx.App.Sessions.Snapshot()
	return writef(os.Stdout, "Signed in as %s (%s)\n", s.Profile.Name, renderRoles(s))
}

type registerOptions struct {
	Name     string
	Email    string
	Password string
}

func parseRegisterFlags(args []string) (registerOptions, error) {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts registerOptions
	fs.StringVar(&opts.Name, "name", "", "Full name (required)")
	fs.StringVar(&opts.Email, "email", "", "Account email (required)")
	fs.StringVar(&opts.Password, "password", "", "Account password (required)")

	if err := fs.Parse(args); err != nil {
		return registerOptions{}, err
	}
	if strings.TrimSpace(opts.Name) == "" || strings.TrimSpace(opts.Email) == "" || opts.Password == "" {
		return registerOptions{}, errors.New("--name, --email and --password are required")
	}
	return opts, nil
}

func runRegister(cmdCtx *commandContext, args []string) error {
	opts, err := parseRegisterFlags(args)
	if err != nil {
		return err
	}

	if err := cmdCtx.App.Sessions.Register(cmdCtx.Ctx, ports.Registration{
		Name:     opts.Name,
		Email:    opts.Email,
		Password: opts.Password,
	}); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return writeln(os.Stdout, "Account created. Sign in with: cafetec login")
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	cmdCtx.App.Sessions.Logout(cmdCtx.Ctx)
	return writeln(os.Stdout, "Signed out.")
}

func runWhoami(cmdCtx *commandContext, _ []string) error {
	cmdCtx.App.Sessions.Restore(cmdCtx.Ctx)

	s := cmdCtx.App.Sessions.Snapshot()
	if !s.Authenticated() {
		return writeln(os.Stdout, "Not signed in.")
	}

	if err := writef(os.Stdout, "Name:  %s\n", s.Profile.Name); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Email: %s\n", s.Profile.Email); err != nil {
		return err
	}
	return writef(os.Stdout, "Roles: %s\n", renderRoles(s))
}

// restoreSession resolves the persisted session and returns the token, or an
// error telling the user to sign in.
func restoreSession(cmdCtx *commandContext) (string, error) {
	cmdCtx.App.Sessions.Restore(cmdCtx.Ctx)
	token, ok := cmdCtx.App.Sessions.Token()
	if !ok {
		return "", errors.New("not signed in; run: cafetec login")
	}
	return token, nil
}

func renderRoles(s auth.Session) string {
	if len(s.Roles) == 0 {
		return "none"
	}
	names := make([]string, 0, len(s.Roles))
	for r := range s.Roles {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
