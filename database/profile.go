package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mager/melodiary/melodiary"
	"go.uber.org/zap"
)

var (
	ErrNotFound    = errors.New("profile not found")
	ErrUnavailable = errors.New("postgres is not configured")
)

const schema = `
CREATE TABLE IF NOT EXISTS user_profiles (
	id                    TEXT PRIMARY KEY,
	email                 TEXT NOT NULL DEFAULT '',
	display_name          TEXT NOT NULL DEFAULT '',
	favorite_artists      TEXT[] NOT NULL DEFAULT '{}',
	favorite_genres       TEXT[] NOT NULL DEFAULT '{}',
	favorite_eras         TEXT[] NOT NULL DEFAULT '{}',
	preference_type       TEXT NOT NULL DEFAULT 'existing',
	disliked_genres       TEXT[] NOT NULL DEFAULT '{}',
	notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
	language              TEXT NOT NULL DEFAULT 'ja',
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// ProfileStore keeps user profiles and music preferences in postgres.
type ProfileStore struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func NewProfileStore(log *zap.SugaredLogger, db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db, log: log}
}

// ProvideProfileStore provides the profile store and creates its table.
func ProvideProfileStore(log *zap.SugaredLogger, db *sql.DB) (*ProfileStore, error) {
	s := NewProfileStore(log, db)
	if db == nil {
		return s, nil
	}
	if _, err := db.Exec(schema); err != nil {
		log.Errorw("Failed to create user_profiles table", "error", err)
		return nil, err
	}
	return s, nil
}

func (s *ProfileStore) Get(ctx context.Context, userID string) (melodiary.UserProfile, error) {
	if s.db == nil {
		return melodiary.UserProfile{}, ErrUnavailable
	}

	query := `
        SELECT id, email, display_name, favorite_artists, favorite_genres,
               favorite_eras, preference_type, disliked_genres,
               notifications_enabled, language, created_at
        FROM user_profiles
        WHERE id = $1
	`
	var p melodiary.UserProfile
	prefs := &p.MusicPreferences
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID,
		&p.Email,
		&p.DisplayName,
		pq.Array(&prefs.FavoriteArtists),
		pq.Array(&prefs.FavoriteGenres),
		pq.Array(&prefs.FavoriteEras),
		&prefs.PreferenceType,
		pq.Array(&prefs.DislikedGenres),
		&p.NotificationsEnabled,
		&p.Language,
		&p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return melodiary.UserProfile{}, ErrNotFound
	}
	if err != nil {
		return melodiary.UserProfile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	return p, nil
}

// Upsert creates or replaces a profile and returns it as stored.
func (s *ProfileStore) Upsert(ctx context.Context, p melodiary.UserProfile) (melodiary.UserProfile, error) {
	if s.db == nil {
		return melodiary.UserProfile{}, ErrUnavailable
	}
	if p.MusicPreferences.PreferenceType == "" {
		p.MusicPreferences.PreferenceType = melodiary.PreferExisting
	}
	if p.Language == "" {
		p.Language = "ja"
	}

	query := `
        INSERT INTO user_profiles (
            id, email, display_name, favorite_artists, favorite_genres,
            favorite_eras, preference_type, disliked_genres,
            notifications_enabled, language
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE SET
            email = EXCLUDED.email,
            display_name = EXCLUDED.display_name,
            favorite_artists = EXCLUDED.favorite_artists,
            favorite_genres = EXCLUDED.favorite_genres,
            favorite_eras = EXCLUDED.favorite_eras,
            preference_type = EXCLUDED.preference_type,
            disliked_genres = EXCLUDED.disliked_genres,
            notifications_enabled = EXCLUDED.notifications_enabled,
            language = EXCLUDED.language
        RETURNING created_at
	`
	prefs := p.MusicPreferences
	err := s.db.QueryRowContext(ctx, query,
		p.ID,
		p.Email,
		p.DisplayName,
		pq.Array(nonNil(prefs.FavoriteArtists)),
		pq.Array(nonNil(prefs.FavoriteGenres)),
		pq.Array(nonNil(prefs.FavoriteEras)),
		prefs.PreferenceType,
		pq.Array(nonNil(prefs.DislikedGenres)),
		p.NotificationsEnabled,
		p.Language,
	).Scan(&p.CreatedAt)
	if err != nil {
		return melodiary.UserProfile{}, fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}

	s.log.Infow("profile saved", "user_id", p.ID)
	return p, nil
}

// FavoriteGenres returns the user's preferred genres. A missing profile or
// an unconfigured database yields none.
func (s *ProfileStore) FavoriteGenres(ctx context.Context, userID string) ([]string, error) {
	p, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.MusicPreferences.FavoriteGenres, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
