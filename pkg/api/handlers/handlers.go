// Package handlers implements the JSON HTTP endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/identity"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/store"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/utils"
)

// API bundles the dependencies the handlers need. Handlers hold no state
// of their own.
type API struct {
	Idents *identity.Provider
	Store  *store.Store
}

func New(idents *identity.Provider, st *store.Store) *API {
	return &API{Idents: idents, Store: st}
}

// writeErr maps domain errors onto HTTP statuses and writes the standard
// `{"error":...}` body.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotAuthenticated):
		utils.JSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials):
		utils.JSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrForbidden):
		utils.JSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, identity.ErrEmailTaken):
		utils.JSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrUnknownReaction), errors.Is(err, store.ErrNoSegments):
		utils.JSONError(w, http.StatusBadRequest, err.Error())
	default:
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
	}
}
