package catalog

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTitle_DecodeFeedEntry(t *testing.T) {
	raw := `{
		"id": "m-1",
		"name": "dune.part.two.2024",
		"title": "Dune: Part Two",
		"group": "Sci-Fi",
		"tmdb_id": 693134,
		"rating": 8.3,
		"overview": "Paul Atreides unites with the Fremen.",
		"poster": "https://img.example/p.jpg",
		"backdrop": "https://img.example/b.jpg",
		"url": "https://cdn.example/dune2.mp4",
		"release_date": "2024-02-27"
	}`
	var tt Title
	if err := json.Unmarshal([]byte(raw), &tt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tt.ID != "m-1" || tt.Title != "Dune: Part Two" || tt.Group != "Sci-Fi" {
		t.Fatalf("unexpected title: %+v", tt)
	}
	if tt.TMDBID != 693134 {
		t.Fatalf("expected tmdb id 693134, got %d", tt.TMDBID)
	}
	if tt.Score() != 8.3 {
		t.Fatalf("expected rating 8.3, got %v", tt.Score())
	}
}

func TestExternalID_LenientForms(t *testing.T) {
	cases := map[string]ExternalID{
		`{"tmdb_id": "1399"}`: 1399,
		`{"tmdb_id": ""}`:     0,
		`{"tmdb_id": null}`:   0,
		`{"tmdb_id": "n/a"}`:  0,
		`{"tmdb_id": -5}`:     0,
		`{}`:                  0,
		`{"tmdb_id": 42.0}`:   42,
	}
	for raw, want := range cases {
		var tt Title
		if err := json.Unmarshal([]byte(raw), &tt); err != nil {
			t.Fatalf("%s: decode: %v", raw, err)
		}
		if tt.TMDBID != want {
			t.Fatalf("%s: expected %d, got %d", raw, want, tt.TMDBID)
		}
	}
}

func TestRating_AbsentStaysAbsent(t *testing.T) {
	var tt Title
	if err := json.Unmarshal([]byte(`{"id":"x"}`), &tt); err != nil {
		t.Fatal(err)
	}
	if tt.Rating != nil {
		t.Fatalf("expected nil rating, got %v", *tt.Rating)
	}
	out, err := json.Marshal(tt)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	_ = json.Unmarshal(out, &m)
	if _, ok := m["rating"]; ok {
		t.Fatalf("absent rating should be omitted, got %s", out)
	}
}

func TestRating_LenientForms(t *testing.T) {
	cases := []struct {
		raw  string
		want *float64
	}{
		{`{"rating":8.1}`, ptr(8.1)},
		{`{"rating":"7.5"}`, ptr(7.5)},
		{`{"rating":""}`, nil},
		{`{"rating":null}`, nil},
		{`{"rating":"N/A"}`, nil},
		{`{"rating":true}`, nil},
		{`{"rating":"NaN"}`, nil},
		{`{"rating":{"imdb":8}}`, nil},
	}
	for _, tc := range cases {
		var tt Title
		if err := json.Unmarshal([]byte(tc.raw), &tt); err != nil {
			t.Fatalf("%s: decode: %v", tc.raw, err)
		}
		switch {
		case tc.want == nil && tt.Rating != nil:
			t.Fatalf("%s: expected absent rating, got %v", tc.raw, *tt.Rating)
		case tc.want != nil && (tt.Rating == nil || float64(*tt.Rating) != *tc.want):
			t.Fatalf("%s: expected %v, got %v", tc.raw, *tc.want, tt.Rating)
		}
	}
}

func TestRating_EmptyStringOmittedOnOutput(t *testing.T) {
	var tt Title
	if err := json.Unmarshal([]byte(`{"id":"x","rating":""}`), &tt); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(tt)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "rating") {
		t.Fatalf("expected rating omitted, got %s", out)
	}
}

func TestTitle_DecodeReusedValueClearsRating(t *testing.T) {
	tt := Title{Rating: NewRating(9)}
	if err := json.Unmarshal([]byte(`{"id":"y"}`), &tt); err != nil {
		t.Fatal(err)
	}
	if tt.Rating != nil || tt.ID != "y" {
		t.Fatalf("unexpected title %+v", tt)
	}
}

func ptr(f float64) *float64 { return &f }
