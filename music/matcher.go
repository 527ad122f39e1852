package music

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mager/melodiary/config"
	"github.com/mager/melodiary/emotion"
	"go.uber.org/zap"
)

const (
	searchTopN           = 5
	baseRelevance        = 5
	defaultIntensity     = 5
	minDurationSeconds   = 180
	durationSpreadSecond = 60
)

// Matcher picks a song for an EmotionProfile.
type Matcher struct {
	log      *zap.SugaredLogger
	searcher TrackSearcher
	search   bool
	catalog  Catalog
	picker   Picker
	now      func() time.Time
}

type Option func(*Matcher)

func WithPicker(p Picker) Option {
	return func(m *Matcher) { m.picker = p }
}

func WithCatalog(c Catalog) Option {
	return func(m *Matcher) { m.catalog = c }
}

func WithClock(now func() time.Time) Option {
	return func(m *Matcher) { m.now = now }
}

// NewMatcher builds a Matcher. Catalog search is attempted only when
// searcher is non-nil and status is usable.
func NewMatcher(log *zap.SugaredLogger, searcher TrackSearcher, status config.CredentialStatus, opts ...Option) *Matcher {
	m := &Matcher{
		log:      log,
		searcher: searcher,
		search:   searcher != nil && status.Usable(),
		catalog:  DefaultCatalog(),
		picker:   RandomPicker(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SearchEnabled reports whether Recommend tries the catalog search first.
func (m *Matcher) SearchEnabled() bool {
	return m.search
}

// Recommend returns a song for profile. Search problems fall through to the
// local catalog; ErrNotFound is returned only when the local catalog has no
// song for the mood.
func (m *Matcher) Recommend(ctx context.Context, profile emotion.EmotionProfile, preferredGenres []string) (SongRecommendation, error) {
	mood := moodOf(profile)

	if m.search {
		if rec, ok := m.recommendFromSearch(ctx, profile, mood, preferredGenres); ok {
			return rec, nil
		}
	}

	return m.recommendFromCatalog(profile, mood)
}

func (m *Matcher) recommendFromSearch(ctx context.Context, profile emotion.EmotionProfile, mood emotion.Emotion, preferredGenres []string) (SongRecommendation, bool) {
	query := BuildQuery(mood, profile.Keywords, preferredGenres)

	tracks, err := m.searcher.SearchTracks(ctx, query)
	if err != nil {
		m.log.Warnw("catalog search failed, using local catalog", "query", query, "error", err)
		return SongRecommendation{}, false
	}
	if len(tracks) == 0 {
		m.log.Infow("catalog search returned no tracks, using local catalog", "query", query)
		return SongRecommendation{}, false
	}

	top := min(searchTopN, len(tracks))
	track := tracks[m.picker.Intn(top)]
	song := songFromTrack(track)

	firstArtist := ""
	if len(track.Artists) > 0 {
		firstArtist = track.Artists[0]
	}

	m.log.Infow("catalog search pick", "query", query, "results", len(tracks), "track", track.ID)

	return SongRecommendation{
		ID:             "rec_" + uuid.NewString(),
		Song:           song,
		Reason:         searchReason(m.picker, mood, firstArtist, track.Title),
		RelevanceScore: searchRelevance(intensityOf(profile), track.PreviewURL != ""),
		Source:         SourceCatalogSearch,
	}, true
}

func (m *Matcher) recommendFromCatalog(profile emotion.EmotionProfile, mood emotion.Emotion) (SongRecommendation, error) {
	pick, ok := m.catalog.pick(mood, profile.Keywords, m.picker)
	if !ok {
		m.log.Warnw("local catalog has no song", "mood", mood)
		return SongRecommendation{}, ErrNotFound
	}

	song := Song{
		ID:          fmt.Sprintf("mock_%s_%d", mood, m.now().UnixMilli()),
		Title:       pick.Title,
		Artist:      pick.Artist,
		Album:       pick.Title + " - Single",
		Genre:       pick.Genre,
		CoverURL:    placeholderCover(mood, pick.Title),
		Duration:    minDurationSeconds + m.picker.Intn(durationSpreadSecond),
		ExternalURL: "https://open.spotify.com/search/" + url.PathEscape(pick.Title),
		ReleaseYear: pick.Year,
	}

	return SongRecommendation{
		ID:             "demo_rec_" + uuid.NewString(),
		Song:           song,
		Reason:         localReason(m.picker, mood, profile.Keywords, intensityOf(profile), pick),
		RelevanceScore: localRelevance(m.picker),
		Source:         SourceLocalCatalog,
	}, nil
}

// BuildQuery joins up to two keywords and the mood, then appends a genre
// filter: the first preferred genre, else the mood's first mapped genre.
func BuildQuery(mood emotion.Emotion, keywords []string, preferredGenres []string) string {
	terms := make([]string, 0, 3)
	for i, k := range keywords {
		if i == 2 {
			break
		}
		if k = strings.TrimSpace(k); k != "" {
			terms = append(terms, k)
		}
	}
	if mood != "" {
		terms = append(terms, string(mood))
	}

	genre := ""
	for _, g := range preferredGenres {
		if g = strings.TrimSpace(g); g != "" {
			genre = g
			break
		}
	}
	if genre == "" {
		genre = emotion.GenresFor(mood)[0]
	}
	if strings.Contains(genre, " ") {
		genre = strconv.Quote(genre)
	}

	return strings.TrimSpace(strings.Join(terms, " ") + " genre:" + genre)
}

func songFromTrack(t CatalogTrack) Song {
	return Song{
		ID:          t.ID,
		Title:       t.Title,
		Artist:      strings.Join(t.Artists, ", "),
		Album:       t.Album,
		CoverURL:    t.CoverURL,
		Duration:    t.DurationMs / 1000,
		PreviewURL:  t.PreviewURL,
		ExternalURL: t.ExternalURL,
		ReleaseYear: releaseYear(t.ReleaseDate),
	}
}

// releaseYear reads the year from a "YYYY", "YYYY-MM" or "YYYY-MM-DD" date.
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func placeholderCover(mood emotion.Emotion, title string) string {
	return fmt.Sprintf("https://via.placeholder.com/300x300/%s/FFFFFF?text=%s", emotion.CoverColor(mood), url.PathEscape(title))
}

func moodOf(p emotion.EmotionProfile) emotion.Emotion {
	if p.Mood != "" {
		return p.Mood
	}
	return p.PrimaryEmotion
}

// intensityOf treats an unset intensity as the midpoint.
func intensityOf(p emotion.EmotionProfile) int {
	if p.Intensity == 0 {
		return defaultIntensity
	}
	return p.Intensity
}

// ProvideMatcher provides the song matcher.
func ProvideMatcher(log *zap.SugaredLogger, searcher TrackSearcher, svc config.Services) *Matcher {
	m := NewMatcher(log, searcher, svc.Spotify)
	log.Infow("music matcher ready", "catalogSearch", m.SearchEnabled())
	return m
}

var Options = ProvideMatcher
