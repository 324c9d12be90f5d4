package tmdb

import "context"

// Provider is the port for the two TMDB lookups the metadata gateway needs.
type Provider interface {
	SearchMulti(ctx context.Context, query string) (*SearchResponse, error)
	Credits(ctx context.Context, media MediaType, id int64) (*CreditsResponse, error)
}

// MediaType selects the credits endpoint variant.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)
