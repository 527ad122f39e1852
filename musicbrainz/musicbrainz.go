package musicbrainz

import (
	"sort"

	"github.com/mager/melodiary/config"
	"github.com/mager/musicbrainz-go/musicbrainz"
	"go.uber.org/zap"
)

type MusicbrainzClient struct {
	Client *musicbrainz.MusicbrainzClient
}

func ProvideMusicbrainz() *MusicbrainzClient {
	var c MusicbrainzClient
	c.Client = musicbrainz.NewMusicbrainzClient().
		WithUserAgent("melodiary", "1.0.0", "https://github.com/mager/melodiary")

	return &c
}

// RecordingGenres returns the genres of the best matching recording, most
// voted first.
func (c *MusicbrainzClient) RecordingGenres(artist, title string) ([]string, error) {
	resp, err := c.Client.SearchRecordingsByArtistAndTrack(musicbrainz.SearchRecordingsByArtistAndTrackRequest{
		Artist: artist,
		Track:  title,
	})
	if err != nil {
		return nil, err
	}
	if resp.Count == 0 || len(resp.Recordings) == 0 {
		return nil, nil
	}

	rec := resp.Recordings[0]
	if rec.Genres == nil {
		return nil, nil
	}

	genres := *rec.Genres
	sort.Slice(genres, func(i, j int) bool {
		return genres[i].Count > genres[j].Count
	})

	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names, nil
}

// GenreLookup finds genres for a recording.
type GenreLookup interface {
	RecordingGenres(artist, title string) ([]string, error)
}

// GenreEnricher fills in missing song genres from MusicBrainz.
type GenreEnricher struct {
	log     *zap.SugaredLogger
	lookup  GenreLookup
	enabled bool
}

func NewGenreEnricher(log *zap.SugaredLogger, lookup GenreLookup, enabled bool) *GenreEnricher {
	return &GenreEnricher{log: log, lookup: lookup, enabled: enabled && lookup != nil}
}

func ProvideGenreEnricher(log *zap.SugaredLogger, cfg config.Config, client *MusicbrainzClient) *GenreEnricher {
	return NewGenreEnricher(log, client, cfg.EnrichGenres)
}

// Genre returns the top genre for the recording, or "" when enrichment is
// disabled or MusicBrainz has none. Lookup failures are logged, not
// returned.
func (e *GenreEnricher) Genre(artist, title string) string {
	if !e.enabled || artist == "" || title == "" {
		return ""
	}

	genres, err := e.lookup.RecordingGenres(artist, title)
	if err != nil {
		e.log.Debugw("MusicBrainz artist/track search failed", "artist", artist, "track", title, "error", err)
		return ""
	}
	if len(genres) == 0 {
		return ""
	}
	return genres[0]
}

var Options = ProvideMusicbrainz
