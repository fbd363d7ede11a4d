package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/models"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/store"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/utils"
	"github.com/rajdev-xr/spire-thread-nexus/pkg/validation"
)

// RegisterCollections registers the collection routes on the provided
// router.
func (a *API) RegisterCollections(r *mux.Router) {
	r.HandleFunc("/collections", a.listCollections).Methods(http.MethodGet)
	r.HandleFunc("/collections", a.createCollection).Methods(http.MethodPost)
	r.HandleFunc("/collections/{id}", a.updateCollection).Methods(http.MethodPatch)
	r.HandleFunc("/collections/{id}/threads/{threadID}", a.addToCollection).Methods(http.MethodPut)
	r.HandleFunc("/collections/{id}/threads/{threadID}", a.removeFromCollection).Methods(http.MethodDelete)
}

// listCollections handles GET /collections and returns the current user's
// collections.
func (a *API) listCollections(w http.ResponseWriter, _ *http.Request) {
	if _, ok := a.Idents.Current(); !ok {
		writeErr(w, store.ErrNotAuthenticated)
		return
	}
	list := a.Store.UserCollections()
	if list == nil {
		list = []*models.Collection{}
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]interface{}{"collections": list})
}

func (a *API) createCollection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		IsPublic bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateCollectionName(req.Name); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := a.Store.CreateCollection(req.Name, req.IsPublic)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, c)
}

// updateCollection handles PATCH /collections/{id}. Id and owner cannot
// change.
func (a *API) updateCollection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		IsPublic *bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name != nil {
		if err := validation.ValidateCollectionName(*req.Name); err != nil {
			utils.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	c, err := a.Store.UpdateCollection(mux.Vars(r)["id"], store.CollectionUpdate{
		Name:     req.Name,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, c)
}

func (a *API) addToCollection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := a.Store.AddToCollection(vars["threadID"], vars["id"]); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) removeFromCollection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := a.Store.RemoveFromCollection(vars["threadID"], vars["id"]); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"status": "ok"})
}
