package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/example/stream-catalog/services/catalog/internal/favorites"
)

type Deps struct {
	Catalog   Catalog
	Cast      CastResolver
	Favorites favorites.Store
	Events    EventPublisher
}

// Routes registers the catalog API on r. chi matches static segments such as
// /titles/featured ahead of {id}.
func Routes(d Deps) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/titles", ListTitles(d.Catalog, d.Events))
		r.Get("/titles/featured", FeaturedTitle(d.Catalog))
		r.Get("/titles/trending", TrendingTitles(d.Catalog))
		r.Get("/titles/{id}", GetTitle(d.Catalog, d.Events))
		r.Get("/titles/{id}/related", RelatedTitles(d.Catalog))
		r.Get("/groups", ListGroups(d.Catalog))

		r.Get("/cast/{externalId}/{title}", GetCast(d.Cast))

		r.Get("/favorites", ListFavorites(d.Favorites))
		r.Post("/favorites", AddFavorite(d.Favorites, d.Events))
		r.Get("/favorites/titles", ListFavoriteTitles(d.Favorites, d.Catalog))
		r.Get("/favorites/{id}", GetFavorite(d.Favorites))
		r.Delete("/favorites/{id}", RemoveFavorite(d.Favorites, d.Events))
	}
}
