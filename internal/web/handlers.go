package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/five82/wallfeed/internal/feed"
	"github.com/five82/wallfeed/internal/state"
	"github.com/five82/wallfeed/internal/wallpaper"
)

// Wallpaper is a record annotated with the user's flags.
type Wallpaper struct {
	feed.Record
	Favorite   bool `json:"favorite"`
	Downloaded bool `json:"downloaded"`
}

// FeedResponse is the body of GET /api/wallpapers and the fetch routes.
type FeedResponse struct {
	Items   []Wallpaper `json:"items"`
	Page    int         `json:"page"`
	HasMore bool        `json:"has_more"`
	Loading bool        `json:"loading"`
	Offline bool        `json:"offline"`
	Error   string      `json:"error,omitempty"`
	// Started is set by the fetch routes: false means the request was
	// rejected because a fetch was in flight or no pages remain.
	Started *bool `json:"started,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) listWallpapers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items := s.store.FilteredItems(q.Get("search"), q.Get("category"))
	writeJSON(w, http.StatusOK, s.feedResponse(items, nil))
}

func (s *server) refresh(w http.ResponseWriter, r *http.Request) {
	started, err := s.store.FetchFirstPage(r.Context())
	s.writeFetch(w, started, err)
}

func (s *server) loadMore(w http.ResponseWriter, r *http.Request) {
	started, err := s.store.FetchNextPage(r.Context())
	s.writeFetch(w, started, err)
}

func (s *server) writeFetch(w http.ResponseWriter, started bool, err error) {
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	resp := s.feedResponse(s.store.FilteredItems("", state.CategoryAll), &started)
	writeJSON(w, status, resp)
}

func (s *server) feedResponse(items []feed.Record, started *bool) FeedResponse {
	snap := s.store.Snapshot()
	resp := FeedResponse{
		Items:   s.annotate(items),
		Page:    snap.Page,
		HasMore: snap.HasMore,
		Loading: snap.Loading,
		Offline: snap.IsOffline(),
		Started: started,
	}
	if snap.LastError != nil {
		resp.Error = snap.LastError.Error()
	}
	return resp
}

func (s *server) annotate(items []feed.Record) []Wallpaper {
	out := make([]Wallpaper, 0, len(items))
	for _, rec := range items {
		out = append(out, Wallpaper{
			Record:     rec,
			Favorite:   s.store.IsFavorite(rec.ID),
			Downloaded: s.store.IsDownloaded(rec.ID),
		})
	}
	return out
}

func (s *server) categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Categories())
}

func (s *server) favorites(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.annotate(s.store.Snapshot().Favorites))
}

func (s *server) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	fav := s.store.ToggleFavorite(rec)
	writeJSON(w, http.StatusOK, Wallpaper{Record: rec, Favorite: fav, Downloaded: s.store.IsDownloaded(rec.ID)})
}

func (s *server) download(w http.ResponseWriter, r *http.Request) {
	if s.actions == nil {
		writeError(w, http.StatusNotImplemented, errors.New("downloads are disabled"))
		return
	}
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	path, err := s.actions.Download(r.Context(), rec)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": rec.ID, "path": path})
}

func (s *server) share(w http.ResponseWriter, r *http.Request) {
	if s.actions == nil {
		writeError(w, http.StatusNotImplemented, errors.New("sharing is disabled"))
		return
	}
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	link, err := s.actions.Share(r.Context(), rec)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": rec.ID, "url": link})
}

func (s *server) setWallpaper(w http.ResponseWriter, r *http.Request) {
	if s.actions == nil {
		writeError(w, http.StatusNotImplemented, errors.New("wallpaper setting is disabled"))
		return
	}
	target, err := wallpaper.ParseTarget(r.URL.Query().Get("target"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := s.actions.SetWallpaper(r.Context(), rec, target); err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) lookup(w http.ResponseWriter, r *http.Request) (feed.Record, bool) {
	id := mux.Vars(r)["id"]
	rec, ok := s.resolve(id)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("unknown wallpaper id "+id))
		return feed.Record{}, false
	}
	return rec, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
