// Package app encapsulates the server components and lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/rajdev-xr/spire-thread-nexus/internal/demoreset"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/config"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/identity"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/session"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/store"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/validation"
)

// App wires the session KV, identity provider, content store and HTTP
// server together.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	sessions *session.Store
	idents   *identity.Provider
	store    *store.Store

	cancelReset context.CancelFunc
	srv         *http.Server
}

// New initializes resources that do not require a running context: the
// session KV, the identity provider and the seeded content store. It does
// not start the HTTP server; call Run to start it and block until
// shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	initValidation(eff)

	sessions, err := session.Open(eff.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session KV at %s: %w", eff.DBPath, err)
	}

	idents := identity.NewProvider(sessions, identity.Options{
		Latency:    eff.Config.Auth.Latency.Duration(),
		BcryptCost: eff.Config.Auth.BcryptCost,
	})
	st := store.New(idents, store.Options{
		LenientUpdates: eff.Config.Policy.LenientUpdates,
	})

	return &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		sessions:  sessions,
		idents:    idents,
		store:     st,
	}, nil
}

// Run starts the demo reset scheduler (if enabled) and the HTTP server,
// and blocks until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	cancelReset, err := demoreset.Start(ctx, a.eff.Config.Demo, a.store)
	if err != nil {
		return err
	}
	a.cancelReset = cancelReset

	a.printBanner()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		a.shutdown()
		return nil
	case err := <-errCh:
		a.shutdown()
		return err
	}
}

// initValidation applies payload limit overrides from config and sets
// them globally.
func initValidation(eff config.EffectiveConfigResult) {
	v := eff.Config.Validation
	validation.SetRules(validation.Rules{
		MaxTitleLen:    v.MaxTitleLen,
		MaxSegmentLen:  v.MaxSegmentLen,
		MaxSegments:    v.MaxSegments,
		MaxTags:        v.MaxTags,
		MaxTagLen:      v.MaxTagLen,
		MaxNameLen:     v.MaxNameLen,
		MinPasswordLen: v.MinPasswordLen,
	})
}

func (a *App) shutdown() {
	if a.cancelReset != nil {
		a.cancelReset()
	}
	if a.srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = a.srv.Shutdown(sctx)
	}
	if a.sessions != nil {
		_ = a.sessions.Close()
	}
}
