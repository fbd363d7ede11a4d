// Package api builds the HTTP router over the handler set.
package api

import (
	"github.com/gorilla/mux"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/api/handlers"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/identity"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/store"
)

// NewRouter returns the versioned API router. Health, readiness and
// metrics endpoints are mounted by the app, outside the /v1 prefix.
func NewRouter(idents *identity.Provider, st *store.Store) *mux.Router {
	a := handlers.New(idents, st)
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	a.RegisterAuth(v1)
	a.RegisterThreads(v1)
	a.RegisterCollections(v1)
	return r
}
