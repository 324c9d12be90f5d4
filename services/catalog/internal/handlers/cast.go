package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/example/stream-catalog/internal/platform/api"
)

// GetCast handles GET /cast/{externalId}/{title}. Only the leading digits of
// externalId count; none means "unknown" and falls back to searching by title.
func GetCast(resolver CastResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		externalID := leadingInt(chi.URLParam(r, "externalId"))
		title := chi.URLParam(r, "title")
		if u, err := url.PathUnescape(title); err == nil {
			title = u
		}

		api.WriteJSON(w, http.StatusOK, resolver.Cast(r.Context(), externalID, title))
	}
}
