package handlers

import (
	"net/http"
	"strings"

	"github.com/example/stream-catalog/internal/platform/analytics"
	"github.com/example/stream-catalog/internal/platform/api"
	"github.com/example/stream-catalog/internal/platform/httpserver"
	"github.com/example/stream-catalog/services/catalog/internal/catalog"
)

const (
	defaultTrendingLimit = 10
	defaultRelatedLimit  = 6
	maxListLimit         = 50
)

// ListTitles handles GET /titles?q=&group=
func ListTitles(c Catalog, events EventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		group := strings.TrimSpace(r.URL.Query().Get("group"))

		titles := catalog.Filter(c.Titles(r.Context()), q, group)
		if q != "" {
			publish(events, analytics.SubjectSearchPerformed, "search.performed", map[string]any{
				"query":   q,
				"group":   group,
				"results": len(titles),
			})
		}
		api.WriteJSON(w, http.StatusOK, titles)
	}
}

// GetTitle handles GET /titles/{id}
func GetTitle(c Catalog, events EventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		id := pathParam(r, "id")
		t, ok := catalog.Find(c.Titles(r.Context()), id)
		if !ok {
			api.NotFound(w, "title not found", rid)
			return
		}
		publish(events, analytics.SubjectTitleViewed, "title.viewed", map[string]any{
			"title_id": t.ID,
			"group":    t.Group,
		})
		api.WriteJSON(w, http.StatusOK, t)
	}
}

// FeaturedTitle handles GET /titles/featured
func FeaturedTitle(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		t, ok := catalog.Featured(c.Titles(r.Context()))
		if !ok {
			api.NotFound(w, "catalog is empty", rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, t)
	}
}

// TrendingTitles handles GET /titles/trending?limit=
func TrendingTitles(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryLimit(r, defaultTrendingLimit, maxListLimit)
		api.WriteJSON(w, http.StatusOK, catalog.Trending(c.Titles(r.Context()), limit))
	}
}

// RelatedTitles handles GET /titles/{id}/related?limit=
func RelatedTitles(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		titles := c.Titles(r.Context())
		t, ok := catalog.Find(titles, pathParam(r, "id"))
		if !ok {
			api.NotFound(w, "title not found", rid)
			return
		}
		limit := queryLimit(r, defaultRelatedLimit, maxListLimit)
		api.WriteJSON(w, http.StatusOK, catalog.Related(titles, t, limit))
	}
}

// ListGroups handles GET /groups
func ListGroups(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, catalog.Groups(c.Titles(r.Context())))
	}
}
