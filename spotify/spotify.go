package spotify

import (
	"context"
	"fmt"

	"github.com/mager/melodiary/config"
	"github.com/mager/melodiary/music"
	spot "github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const searchLimit = 20

// SpotifyClient searches the Spotify catalog with an app-only
// (client credentials) token.
type SpotifyClient struct {
	ID     string
	Secret string
	Market string

	apiURL string
	auth   *clientcredentials.Config
	log    *zap.SugaredLogger
}

func NewSpotifyClient(log *zap.SugaredLogger, id, secret, market, tokenURL, apiURL string) *SpotifyClient {
	return &SpotifyClient{
		ID:     id,
		Secret: secret,
		Market: market,
		apiURL: apiURL,
		auth: &clientcredentials.Config{
			ClientID:     id,
			ClientSecret: secret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		log: log,
	}
}

// ProvideSpotify provides a spotify client
func ProvideSpotify(cfg config.Config, log *zap.SugaredLogger) *SpotifyClient {
	log.Infow("setting up spotify client", "market", cfg.SpotifyMarket)
	return NewSpotifyClient(log, cfg.SpotifyID, cfg.SpotifySecret, cfg.SpotifyMarket, cfg.SpotifyTokenURL, cfg.SpotifyAPIURL)
}

// client exchanges the app credentials for a fresh access token and
// returns an API client bound to it.
func (c *SpotifyClient) client(ctx context.Context) (*spot.Client, error) {
	tok, err := c.auth.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify: token exchange: %w", err)
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	opts := []spot.ClientOption{}
	if c.apiURL != "" {
		opts = append(opts, spot.WithBaseURL(c.apiURL))
	}
	return spot.New(httpClient, opts...), nil
}

// SearchTracks runs a track search and returns the results in Spotify's
// ranking order.
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string) ([]music.CatalogTrack, error) {
	client, err := c.client(ctx)
	if err != nil {
		return nil, err
	}

	opts := []spot.RequestOption{spot.Limit(searchLimit)}
	if c.Market != "" {
		opts = append(opts, spot.Market(c.Market))
	}

	results, err := client.Search(ctx, query, spot.SearchTypeTrack, opts...)
	if err != nil {
		return nil, fmt.Errorf("spotify: search: %w", err)
	}
	if results.Tracks == nil {
		return nil, nil
	}

	tracks := make([]music.CatalogTrack, 0, len(results.Tracks.Tracks))
	for _, t := range results.Tracks.Tracks {
		tracks = append(tracks, catalogTrack(t))
	}

	c.log.Debugw("spotify search", "query", query, "results", len(tracks))
	return tracks, nil
}

func catalogTrack(t spot.FullTrack) music.CatalogTrack {
	return music.CatalogTrack{
		ID:          string(t.ID),
		Title:       t.Name,
		Artists:     ArtistNames(t.Artists),
		Album:       t.Album.Name,
		CoverURL:    GetCover(t.Album),
		DurationMs:  int(t.Duration),
		PreviewURL:  t.PreviewURL,
		ExternalURL: t.ExternalURLs["spotify"],
		ReleaseDate: t.Album.ReleaseDate,
	}
}

var Options = ProvideSpotify
