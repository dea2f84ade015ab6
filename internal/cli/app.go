package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"discovery/internal/config"
	"discovery/internal/engine"
	"discovery/internal/kv"
	"discovery/internal/seed"
	"discovery/internal/session"
)

// app is one CLI invocation's wiring: configuration, the engine and the
// store connection behind it.
type app struct {
	cfg        *config.Config
	eng        *engine.Engine
	closeStore func() error
}

// withApp opens the app, runs fn and closes the app. Pending writes are
// flushed before the store connection is released.
func withApp(cmd *cobra.Command, fn func(a *app) error) (err error) {
	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

func openApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	setupLogging(cfg, logOut)

	catalog, err := seed.Catalog(cfg.SeedFile)
	if err != nil {
		return nil, err
	}

	creds, err := adminCredentials(cfg)
	if err != nil {
		return nil, err
	}
	guard := session.NewGuard(creds)
	guard.SetTTL(cfg.AdminSessionTTL)

	store, closeStore, err := kv.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}

	eng := engine.New(store, catalog, guard, engine.Options{PersistSession: cfg.PersistAdminSession})
	eng.Hydrate(ctx)

	return &app{cfg: cfg, eng: eng, closeStore: closeStore}, nil
}

// close stops the engine and reports whether any change failed to persist.
func (a *app) close() error {
	a.eng.Close()

	failed := 0
	for range a.eng.Errors() {
		failed++
	}
	if err := a.closeStore(); err != nil {
		slog.Warn("closing store", "error", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d storage operation(s) failed; see log for details", failed)
	}
	return nil
}

// setupLogging installs a text handler in development and JSON elsewhere.
func setupLogging(cfg *config.Config, w io.Writer) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler
	if cfg.IsDev() {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}

func adminCredentials(cfg *config.Config) (session.Credentials, error) {
	hash := cfg.AdminPasswordHash
	if hash == "" {
		var err error
		if hash, err = session.HashPassword(cfg.AdminPassword); err != nil {
			return session.Credentials{}, err
		}
	}
	return session.Credentials{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		TOTPSecret:   cfg.AdminTOTPSecret,
	}, nil
}

var errAdminRequired = errors.New("admin login required: run 'discovery admin login' with PERSIST_ADMIN_SESSION=true, or pass --username and --password")

// requireAdmin succeeds if a session is already live, otherwise logs in
// with the --username, --password and --totp flags.
func requireAdmin(cmd *cobra.Command, a *app) error {
	if a.eng.IsLoggedIn() {
		return nil
	}
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		return errAdminRequired
	}
	if username == "" {
		username = a.cfg.AdminUsername
	}
	return login(cmd, a, username, password)
}

func login(cmd *cobra.Command, a *app, username, password string) error {
	if err := a.eng.Login(username, password); err != nil {
		return err
	}
	if a.eng.AdminState() != session.PendingTOTP {
		return nil
	}
	code, _ := cmd.Flags().GetString("totp")
	if code == "" {
		a.eng.Logout()
		return errors.New("this admin account requires --totp")
	}
	return a.eng.VerifyTOTP(code)
}
