// Package catalog holds the title model, the remote feed client and the
// snapshot cache that serves the title list to the HTTP facade.
package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Title is one catalog entry as published by the remote feed. Values are
// treated as immutable once fetched.
type Title struct {
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	Title       string     `json:"title"`
	Group       string     `json:"group"`
	TMDBID      ExternalID `json:"tmdb_id"`
	Rating      *Rating    `json:"rating,omitempty"`
	Overview    string     `json:"overview,omitempty"`
	Poster      string     `json:"poster,omitempty"`
	Backdrop    string     `json:"backdrop,omitempty"`
	Logo        string     `json:"logo,omitempty"`
	URL         string     `json:"url"`
	ReleaseDate string     `json:"release_date,omitempty"`
}

// Score returns the rating, or 0 when the feed did not provide one.
func (t Title) Score() float64 {
	if t.Rating == nil {
		return 0
	}
	return float64(*t.Rating)
}

// ExternalID is the numeric TMDB identifier. Zero means unknown. The feed is
// hand maintained, so numbers, numeric strings, "" and null are all accepted;
// anything else decodes as unknown.
type ExternalID int64

func (id *ExternalID) UnmarshalJSON(b []byte) error {
	f, ok := flexNumber(b)
	if !ok || f < 0 {
		*id = 0
		return nil
	}
	*id = ExternalID(f)
	return nil
}

// Rating is a 0-10 score. A nil *Rating means the feed gave none.
type Rating float64

func NewRating(v float64) *Rating {
	r := Rating(v)
	return &r
}

// UnmarshalJSON decodes a feed row. The rating is read leniently: numbers and
// numeric strings are kept, while "", null and anything unparseable leave it
// absent so one bad row cannot sink the whole feed.
func (t *Title) UnmarshalJSON(b []byte) error {
	type wire Title
	aux := struct {
		*wire
		Rating json.RawMessage `json:"rating"`
	}{wire: (*wire)(t)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t.Rating = nil
	if f, ok := flexNumber(aux.Rating); ok {
		t.Rating = NewRating(f)
	}
	return nil
}

func flexNumber(b []byte) (float64, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, false
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, false
		}
		b = []byte(strings.TrimSpace(s))
		if len(b) == 0 {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
