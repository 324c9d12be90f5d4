package tmdb

// SearchResult is one hit from /search/multi. Movies carry Title, shows and
// people carry Name.
type SearchResult struct {
	ID        int64  `json:"id"`
	MediaType string `json:"media_type"`
	Title     string `json:"title,omitempty"`
	Name      string `json:"name,omitempty"`
}

type SearchResponse struct {
	Page         int            `json:"page"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

type CastEntry struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
}

type CreditsResponse struct {
	ID   int64       `json:"id"`
	Cast []CastEntry `json:"cast"`
}
