package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/mager/melodiary/config"
	"github.com/mager/melodiary/melodiary"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	diaryEntries        = "diaryEntries"
	songRecommendations = "songRecommendations"
	playlists           = "playlists"
	userStats           = "userStats"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrUnavailable is returned by every operation when no project is
	// configured.
	ErrUnavailable = errors.New("firestore is not configured")
)

// Store persists diary entries, recommendations, playlists and stats.
type Store struct {
	client *firestore.Client
	log    *zap.SugaredLogger
}

// ProvideStore provides a firestore-backed store. Without a usable project
// id the store is returned unconnected and every call fails with
// ErrUnavailable.
func ProvideStore(lc fx.Lifecycle, log *zap.SugaredLogger, cfg config.Config, svc config.Services) (*Store, error) {
	s := &Store{log: log}
	if !svc.Firestore.Usable() {
		log.Warnw("firestore disabled", "status", svc.Firestore.String())
		return s, nil
	}

	client, err := firestore.NewClient(context.Background(), cfg.FirestoreProjectID)
	if err != nil {
		log.Errorw("Failed to create firestore client", "error", err)
		return nil, err
	}
	s.client = client

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return s, nil
}

func (s *Store) ready() error {
	if s.client == nil {
		return ErrUnavailable
	}
	return nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// get loads one document into dst, mapping a missing document to
// ErrNotFound.
func (s *Store) get(ctx context.Context, collection, id string, dst any) error {
	if err := s.ready(); err != nil {
		return err
	}
	doc, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc.DataTo(dst)
}

func (s *Store) update(ctx context.Context, collection, id string, updates []firestore.Update) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, collection, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) byUser(collection, userID, orderBy string, limit int) firestore.Query {
	q := s.client.Collection(collection).
		Where("userId", "==", userID).
		OrderBy(orderBy, firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

// CreateDiaryEntry stores e under a new id and returns it. Timestamps are
// set by the server.
func (s *Store) CreateDiaryEntry(ctx context.Context, e melodiary.DiaryEntry) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	ref := s.client.Collection(diaryEntries).NewDoc()
	if _, err := ref.Create(ctx, e); err != nil {
		return "", fmt.Errorf("create diary entry: %w", err)
	}
	return ref.ID, nil
}

// GetDiaryEntries returns a user's entries, newest first.
func (s *Store) GetDiaryEntries(ctx context.Context, userID string, limit int) ([]melodiary.DiaryEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	docs, err := s.byUser(diaryEntries, userID, "createdAt", limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}

	entries := make([]melodiary.DiaryEntry, 0, len(docs))
	for _, doc := range docs {
		var e melodiary.DiaryEntry
		if err := doc.DataTo(&e); err != nil {
			s.log.Warnw("skipping unreadable diary entry", "id", doc.Ref.ID, "error", err)
			continue
		}
		e.ID = doc.Ref.ID
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Store) GetDiaryEntry(ctx context.Context, id string) (melodiary.DiaryEntry, error) {
	var e melodiary.DiaryEntry
	if err := s.get(ctx, diaryEntries, id, &e); err != nil {
		return melodiary.DiaryEntry{}, err
	}
	e.ID = id
	return e, nil
}

func (s *Store) DeleteDiaryEntry(ctx context.Context, id string) error {
	return s.delete(ctx, diaryEntries, id)
}

// CreateRecommendation stores r under its own id (or a new one) and returns
// the id.
func (s *Store) CreateRecommendation(ctx context.Context, r melodiary.Recommendation) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	ref := s.client.Collection(songRecommendations).NewDoc()
	if r.ID != "" {
		ref = s.client.Collection(songRecommendations).Doc(r.ID)
	}
	if _, err := ref.Set(ctx, r); err != nil {
		return "", fmt.Errorf("create recommendation: %w", err)
	}
	return ref.ID, nil
}

// GetRecommendations returns a user's recommendations, newest first.
func (s *Store) GetRecommendations(ctx context.Context, userID string, limit int) ([]melodiary.Recommendation, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	docs, err := s.byUser(songRecommendations, userID, "createdAt", limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return recommendationsFrom(s.log, docs), nil
}

func (s *Store) GetRecommendation(ctx context.Context, id string) (melodiary.Recommendation, error) {
	var r melodiary.Recommendation
	if err := s.get(ctx, songRecommendations, id, &r); err != nil {
		return melodiary.Recommendation{}, err
	}
	r.ID = id
	return r, nil
}

// RecommendationForEntry returns the recommendation made for a diary entry.
func (s *Store) RecommendationForEntry(ctx context.Context, userID, entryID string) (melodiary.Recommendation, error) {
	if err := s.ready(); err != nil {
		return melodiary.Recommendation{}, err
	}
	docs, err := s.client.Collection(songRecommendations).
		Where("userId", "==", userID).
		Where("diaryEntryId", "==", entryID).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return melodiary.Recommendation{}, fmt.Errorf("recommendation for entry %s: %w", entryID, err)
	}

	recs := recommendationsFrom(s.log, docs)
	if len(recs) == 0 {
		return melodiary.Recommendation{}, ErrNotFound
	}
	return recs[0], nil
}

func (s *Store) UpdateRecommendationFeedback(ctx context.Context, id string, fb melodiary.Feedback) error {
	return s.update(ctx, songRecommendations, id, []firestore.Update{
		{Path: "userFeedback", Value: fb},
	})
}

func recommendationsFrom(log *zap.SugaredLogger, docs []*firestore.DocumentSnapshot) []melodiary.Recommendation {
	recs := make([]melodiary.Recommendation, 0, len(docs))
	for _, doc := range docs {
		var r melodiary.Recommendation
		if err := doc.DataTo(&r); err != nil {
			log.Warnw("skipping unreadable recommendation", "id", doc.Ref.ID, "error", err)
			continue
		}
		r.ID = doc.Ref.ID
		recs = append(recs, r)
	}
	return recs
}

// GetPlaylists returns a user's playlists, most recently updated first.
func (s *Store) GetPlaylists(ctx context.Context, userID string) ([]melodiary.Playlist, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	docs, err := s.byUser(playlists, userID, "updatedAt", 0).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}

	out := make([]melodiary.Playlist, 0, len(docs))
	for _, doc := range docs {
		var p melodiary.Playlist
		if err := doc.DataTo(&p); err != nil {
			s.log.Warnw("skipping unreadable playlist", "id", doc.Ref.ID, "error", err)
			continue
		}
		p.ID = doc.Ref.ID
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) GetPlaylist(ctx context.Context, id string) (melodiary.Playlist, error) {
	var p melodiary.Playlist
	if err := s.get(ctx, playlists, id, &p); err != nil {
		return melodiary.Playlist{}, err
	}
	p.ID = id
	return p, nil
}

func (s *Store) CreatePlaylist(ctx context.Context, p melodiary.Playlist) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if p.Songs == nil {
		p.Songs = []melodiary.PlaylistSong{}
	}
	ref := s.client.Collection(playlists).NewDoc()
	if _, err := ref.Create(ctx, p); err != nil {
		return "", fmt.Errorf("create playlist: %w", err)
	}
	return ref.ID, nil
}

// AddSongToPlaylist appends song unless an identical entry is already
// present.
func (s *Store) AddSongToPlaylist(ctx context.Context, id string, song melodiary.PlaylistSong) error {
	return s.update(ctx, playlists, id, []firestore.Update{
		{Path: "songs", Value: firestore.ArrayUnion(song)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
}

func (s *Store) DeletePlaylist(ctx context.Context, id string) error {
	return s.delete(ctx, playlists, id)
}

// SaveUserStats replaces the cached stats for a user.
func (s *Store) SaveUserStats(ctx context.Context, st melodiary.UserStats) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.client.Collection(userStats).Doc(st.UserID).Set(ctx, st); err != nil {
		return fmt.Errorf("save user stats: %w", err)
	}
	return nil
}

func (s *Store) GetUserStats(ctx context.Context, userID string) (melodiary.UserStats, error) {
	var st melodiary.UserStats
	if err := s.get(ctx, userStats, userID, &st); err != nil {
		return melodiary.UserStats{}, err
	}
	return st, nil
}

var Options = ProvideStore
