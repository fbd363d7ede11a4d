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

// RegisterThreads registers all thread-related HTTP routes to the
// provided router.
func (a *API) RegisterThreads(r *mux.Router) {
	r.HandleFunc("/threads", a.listThreads).Methods(http.MethodGet)
	r.HandleFunc("/threads", a.createThread).Methods(http.MethodPost)

	r.HandleFunc("/threads/{id}", a.getThread).Methods(http.MethodGet)
	r.HandleFunc("/threads/{id}", a.updateThread).Methods(http.MethodPatch)

	r.HandleFunc("/threads/{id}/fork", a.forkThread).Methods(http.MethodPost)
	r.HandleFunc("/threads/{id}/reactions/{symbol}", a.toggleReaction).Methods(http.MethodPost)
	r.HandleFunc("/threads/{id}/reactions/{symbol}", a.getReaction).Methods(http.MethodGet)
	r.HandleFunc("/threads/{id}/bookmark", a.toggleBookmark).Methods(http.MethodPost)
	r.HandleFunc("/threads/{id}/bookmark", a.getBookmark).Methods(http.MethodGet)

	r.HandleFunc("/tags", a.listTags).Methods(http.MethodGet)
	r.HandleFunc("/me/stats", a.userStats).Methods(http.MethodGet)
}

// listThreads handles GET /threads. Without parameters it returns the
// published threads. Query parameters:
//   - "mine": any non-empty value switches to the current user's threads,
//     drafts included.
//   - "tag": filters published threads by tag (case-insensitive equality).
//   - "q": case-insensitive substring search over title, segments, tags.
//   - "sort": bookmarks, forks or newest; anything else keeps input order.
func (a *API) listThreads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var list []*models.Thread
	switch {
	case q.Get("mine") != "":
		if _, ok := a.Idents.Current(); !ok {
			writeErr(w, store.ErrNotAuthenticated)
			return
		}
		list = a.Store.UserThreads()
	case q.Get("tag") != "":
		list = a.Store.ThreadsByTag(q.Get("tag"))
	case q.Get("q") != "":
		list = a.Store.SearchThreads(q.Get("q"))
	default:
		list = a.Store.PublicThreads()
	}

	if sortBy := q.Get("sort"); sortBy != "" {
		list = a.Store.SortThreads(list, sortBy)
	}
	if list == nil {
		list = []*models.Thread{}
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]interface{}{"threads": list})
}

func (a *API) createThread(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string                 `json:"title"`
		Segments    []models.ThreadSegment `json:"segments"`
		Tags        []string               `json:"tags"`
		IsPublished bool                   `json:"isPublished"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateThreadInput(req.Title, req.Segments, req.Tags); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := a.Store.CreateThread(req.Title, req.Segments, req.Tags, req.IsPublished)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, t)
}

func (a *API) getThread(w http.ResponseWriter, r *http.Request) {
	t, err := a.Store.ThreadByID(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, t)
}

// updateThread handles PATCH /threads/{id}. Absent fields are left
// untouched; id, author and creation timestamp cannot change.
func (a *API) updateThread(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string                `json:"title"`
		Segments    []models.ThreadSegment `json:"segments"`
		Tags        []string               `json:"tags"`
		IsPublished *bool                  `json:"isPublished"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateThreadPatch(req.Title, req.Segments, req.Tags); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := a.Store.UpdateThread(mux.Vars(r)["id"], store.ThreadUpdate{
		Title:       req.Title,
		Segments:    req.Segments,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, t)
}

func (a *API) forkThread(w http.ResponseWriter, r *http.Request) {
	t, err := a.Store.ForkThread(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, t)
}

func (a *API) toggleReaction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	on, err := a.Store.ToggleReaction(vars["id"], vars["symbol"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]bool{"reacted": on})
}

func (a *API) getReaction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	_ = utils.JSONWrite(w, http.StatusOK, map[string]bool{"reacted": a.Store.HasUserReacted(vars["id"], vars["symbol"])})
}

func (a *API) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	on, err := a.Store.ToggleBookmark(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]bool{"bookmarked": on})
}

func (a *API) getBookmark(w http.ResponseWriter, r *http.Request) {
	_ = utils.JSONWrite(w, http.StatusOK, map[string]bool{"bookmarked": a.Store.IsThreadBookmarked(mux.Vars(r)["id"])})
}

func (a *API) listTags(w http.ResponseWriter, _ *http.Request) {
	tags := a.Store.AllTags()
	if tags == nil {
		tags = []string{}
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string][]string{"tags": tags})
}

func (a *API) userStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := a.Store.UserStats()
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, stats)
}
