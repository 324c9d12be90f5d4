// Package metadata resolves cast lists for catalog titles through TMDB.
package metadata

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/example/stream-catalog/services/catalog/internal/tmdb"
)

// MaxCast is the number of cast members returned per title.
const MaxCast = 10

const unknownCharacter = "Unknown"

// Reasons an empty cast list was produced.
const (
	ReasonNoCredential    = "no_credential"
	ReasonNoQuery         = "no_query"
	ReasonNoSearchResults = "no_search_results"
	ReasonSearchFailed    = "search_failed"
	ReasonCreditsFailed   = "credits_failed"
)

type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// Result is the outcome of a lookup. Reason is empty when Cast came from
// TMDB, even if TMDB returned no cast.
type Result struct {
	Cast   []CastMember
	Reason string
	Err    error
}

func ok(cast []CastMember) Result { return Result{Cast: cast} }

func empty(reason string, err error) Result {
	return Result{Cast: []CastMember{}, Reason: reason, Err: err}
}

// Gateway turns a title into its cast. It never fails: every problem
// collapses into an empty list.
type Gateway struct {
	provider tmdb.Provider
	log      *zap.Logger
}

func New(provider tmdb.Provider, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{provider: provider, log: log}
}

// Classify guesses the media type from the title text alone.
func Classify(title string) tmdb.MediaType {
	t := strings.ToLower(title)
	if strings.Contains(t, "season") || strings.Contains(t, "episode") {
		return tmdb.MediaTV
	}
	return tmdb.MediaMovie
}

// Cast returns at most MaxCast members for the title. A positive externalID
// skips the search step.
func (g *Gateway) Cast(ctx context.Context, externalID int64, title string) []CastMember {
	res := g.Resolve(ctx, externalID, title)
	if res.Reason != "" {
		fields := []zap.Field{
			zap.String("reason", res.Reason),
			zap.Int64("external_id", externalID),
			zap.String("title", title),
		}
		if res.Err != nil {
			g.log.Warn("cast lookup failed", append(fields, zap.Error(res.Err))...)
		} else {
			g.log.Debug("cast lookup empty", fields...)
		}
	}
	return res.Cast
}

// Resolve performs the lookup and reports why it came back empty.
func (g *Gateway) Resolve(ctx context.Context, externalID int64, title string) Result {
	if g.provider == nil {
		return empty(ReasonNoCredential, nil)
	}
	id := externalID
	if id <= 0 {
		query := strings.TrimSpace(title)
		if query == "" {
			return empty(ReasonNoQuery, nil)
		}
		resp, err := g.provider.SearchMulti(ctx, query)
		if err != nil {
			if errors.Is(err, tmdb.ErrNoCredential) {
				return empty(ReasonNoCredential, nil)
			}
			return empty(ReasonSearchFailed, err)
		}
		if len(resp.Results) == 0 {
			return empty(ReasonNoSearchResults, nil)
		}
		id = resp.Results[0].ID
	}

	credits, err := g.provider.Credits(ctx, Classify(title), id)
	if err != nil {
		if errors.Is(err, tmdb.ErrNoCredential) {
			return empty(ReasonNoCredential, nil)
		}
		return empty(ReasonCreditsFailed, err)
	}
	return ok(toCast(credits.Cast))
}

func toCast(entries []tmdb.CastEntry) []CastMember {
	n := min(len(entries), MaxCast)
	out := make([]CastMember, 0, n)
	for _, e := range entries[:n] {
		m := CastMember{
			ID:        e.ID,
			Name:      e.Name,
			Character: e.Character,
			Order:     e.Order,
		}
		if m.Character == "" {
			m.Character = unknownCharacter
		}
		if e.ProfilePath != nil {
			m.ProfilePath = *e.ProfilePath
		}
		out = append(out, m)
	}
	return out
}
