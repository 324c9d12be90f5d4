package handlers

import (
	"net/http"
	"strings"

	"github.com/example/stream-catalog/internal/platform/analytics"
	"github.com/example/stream-catalog/internal/platform/api"
	"github.com/example/stream-catalog/internal/platform/httpserver"
	"github.com/example/stream-catalog/services/catalog/internal/catalog"
	"github.com/example/stream-catalog/services/catalog/internal/favorites"
)

// addFavoriteRequest accepts movieId from older clients.
type addFavoriteRequest struct {
	TitleID string `json:"titleId"`
	MovieID string `json:"movieId"`
}

func (req addFavoriteRequest) id() string {
	if id := strings.TrimSpace(req.TitleID); id != "" {
		return id
	}
	return strings.TrimSpace(req.MovieID)
}

type successResponse struct {
	Success bool `json:"success"`
}

type favoriteStatusResponse struct {
	TitleID  string `json:"title_id"`
	Favorite bool   `json:"favorite"`
}

// ListFavorites handles GET /favorites
func ListFavorites(s favorites.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		ids, err := s.List(r.Context())
		if err != nil {
			api.Internal(w, rid)
			return
		}
		if ids == nil {
			ids = []string{}
		}
		api.WriteJSON(w, http.StatusOK, ids)
	}
}

// ListFavoriteTitles handles GET /favorites/titles. Favorites no longer in
// the catalog are left out.
func ListFavoriteTitles(s favorites.Store, c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		ids, err := s.List(r.Context())
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, catalog.Select(c.Titles(r.Context()), ids))
	}
}

// GetFavorite handles GET /favorites/{id}
func GetFavorite(s favorites.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		id := pathParam(r, "id")
		fav, err := s.IsFavorite(r.Context(), id)
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, favoriteStatusResponse{TitleID: id, Favorite: fav})
	}
}

// AddFavorite handles POST /favorites
func AddFavorite(s favorites.Store, events EventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req addFavoriteRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		id := req.id()
		if id == "" {
			api.BadRequest(w, api.CodeMissingTitleID, "titleId is required", rid, nil)
			return
		}

		if err := s.Add(r.Context(), id); err != nil {
			api.Internal(w, rid)
			return
		}
		publish(events, analytics.SubjectFavoriteAdded, "favorite.added", map[string]any{"title_id": id})
		api.WriteJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

// RemoveFavorite handles DELETE /favorites/{id}. Removing a title that is
// not a favorite still succeeds.
func RemoveFavorite(s favorites.Store, events EventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		id := pathParam(r, "id")
		if err := s.Remove(r.Context(), id); err != nil {
			api.Internal(w, rid)
			return
		}
		publish(events, analytics.SubjectFavoriteRemoved, "favorite.removed", map[string]any{"title_id": id})
		api.WriteJSON(w, http.StatusOK, successResponse{Success: true})
	}
}
