package music

import (
	"context"
	"errors"
)

// ErrNotFound means no suitable track could be located. It is an expected
// outcome, not a failure of the matcher.
var ErrNotFound = errors.New("no suitable track found")

// Source records which path produced a recommendation.
type Source string

const (
	SourceCatalogSearch Source = "catalog_search"
	SourceLocalCatalog  Source = "local_catalog"
)

// Song is a snapshot of track metadata taken at recommendation time.
type Song struct {
	ID          string `json:"spotifyId" firestore:"spotifyId"`
	Title       string `json:"title" firestore:"title"`
	Artist      string `json:"artist" firestore:"artist"`
	Album       string `json:"album" firestore:"album"`
	Genre       string `json:"genre,omitempty" firestore:"genre,omitempty"`
	CoverURL    string `json:"albumCover" firestore:"albumCover"`
	Duration    int    `json:"duration" firestore:"duration"` // whole seconds
	PreviewURL  string `json:"previewUrl,omitempty" firestore:"previewUrl,omitempty"`
	ExternalURL string `json:"spotifyUrl" firestore:"spotifyUrl"`
	ReleaseYear int    `json:"releaseYear" firestore:"releaseYear"`
}

type SongRecommendation struct {
	ID             string `json:"id" firestore:"id"`
	Song           Song   `json:"song" firestore:"song"`
	Reason         string `json:"reason" firestore:"reason"`
	RelevanceScore int    `json:"relevanceScore" firestore:"relevanceScore"`
	Source         Source `json:"source" firestore:"source"`
}

// CatalogTrack is a track record as returned by a catalog search service.
type CatalogTrack struct {
	ID          string
	Title       string
	Artists     []string
	Album       string
	CoverURL    string
	DurationMs  int
	PreviewURL  string
	ExternalURL string
	ReleaseDate string
}

// TrackSearcher runs one catalog search. Implementations own the token
// exchange and return tracks in the service's ranking order.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, query string) ([]CatalogTrack, error)
}
