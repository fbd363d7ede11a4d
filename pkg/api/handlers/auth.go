package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/store"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/utils"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/validation"
)

// RegisterAuth registers the identity routes on the provided router.
func (a *API) RegisterAuth(r *mux.Router) {
	r.HandleFunc("/auth/login", a.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", a.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", a.logout).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", a.me).Methods(http.MethodGet)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := a.Idents.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, u)
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateRegistration(req.Name, req.Email, req.Password); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := a.Idents.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, u)
}

func (a *API) logout(w http.ResponseWriter, _ *http.Request) {
	a.Idents.Logout()
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) me(w http.ResponseWriter, _ *http.Request) {
	u, ok := a.Idents.Current()
	if !ok {
		writeErr(w, store.ErrNotAuthenticated)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, u)
}
