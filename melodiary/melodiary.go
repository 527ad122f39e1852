package melodiary

import (
	"time"

	"github.com/mager/melodiary/emotion"
	"github.com/mager/melodiary/music"
)

// DateLayout is the calendar-date format used for entry and recommendation
// dates.
const DateLayout = "2006-01-02"

type DiaryEntry struct {
	ID     string `json:"id" firestore:"-"`
	UserID string `json:"userId" firestore:"userId"`

	// Date is the local calendar day the entry was written for.
	// Example: 2024-06-01
	Date string `json:"date" firestore:"date"`

	Title   string   `json:"title,omitempty" firestore:"title,omitempty"`
	Content string   `json:"content" firestore:"content"`
	Photos  []string `json:"photos,omitempty" firestore:"photos,omitempty"`

	Analysis *emotion.EmotionProfile `json:"analysis,omitempty" firestore:"analysis,omitempty"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Feedback is what the user told us about a recommended song.
type Feedback struct {
	Liked           bool `json:"liked" firestore:"liked"`
	Listened        bool `json:"listened" firestore:"listened"`
	AddedToPlaylist bool `json:"addedToPlaylist" firestore:"addedToPlaylist"`

	// Rating is optional; zero means unrated.
	// Range: 1 - 5
	Rating int `json:"rating,omitempty" firestore:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

// Recommendation is a stored SongRecommendation tied to a diary entry.
type Recommendation struct {
	ID           string `json:"id" firestore:"-"`
	UserID       string `json:"userId" firestore:"userId"`
	DiaryEntryID string `json:"diaryEntryId" firestore:"diaryEntryId"`
	Date         string `json:"date" firestore:"date"`

	Song           music.Song   `json:"song" firestore:"song"`
	Reason         string       `json:"reason" firestore:"reason"`
	RelevanceScore int          `json:"relevanceScore" firestore:"relevanceScore"`
	Source         music.Source `json:"source" firestore:"source"`

	Feedback  *Feedback `json:"userFeedback,omitempty" firestore:"userFeedback,omitempty"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// NewRecommendation ties rec to a diary entry, keeping rec's id.
func NewRecommendation(userID string, entry DiaryEntry, rec music.SongRecommendation) Recommendation {
	return Recommendation{
		ID:             rec.ID,
		UserID:         userID,
		DiaryEntryID:   entry.ID,
		Date:           entry.Date,
		Song:           rec.Song,
		Reason:         rec.Reason,
		RelevanceScore: rec.RelevanceScore,
		Source:         rec.Source,
	}
}

type PlaylistType string

const (
	PlaylistDailyPicks   PlaylistType = "daily_picks"
	PlaylistEmotionBased PlaylistType = "emotion_based"
	PlaylistCustom       PlaylistType = "custom"
)

type PlaylistSong struct {
	SpotifyID string    `json:"spotifyId" firestore:"spotifyId"`
	AddedAt   time.Time `json:"addedAt" firestore:"addedAt"`

	// FromDiary is the diary entry id when the song came from a daily pick.
	FromDiary string `json:"fromDiary,omitempty" firestore:"fromDiary,omitempty"`
}

type Playlist struct {
	ID          string         `json:"id" firestore:"-"`
	UserID      string         `json:"userId" firestore:"userId"`
	Name        string         `json:"name" firestore:"name"`
	Description string         `json:"description,omitempty" firestore:"description,omitempty"`
	Type        PlaylistType   `json:"type" firestore:"type"`
	Emotion     string         `json:"emotion,omitempty" firestore:"emotion,omitempty"`
	Songs       []PlaylistSong `json:"songs" firestore:"songs"`
	IsPublic    bool           `json:"isPublic" firestore:"isPublic"`
	CreatedAt   time.Time      `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time      `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

type PreferenceType string

const (
	// PreferExisting favours genres the user already listens to.
	PreferExisting PreferenceType = "existing"
	// PreferNew favours genres the user has not heard yet.
	PreferNew PreferenceType = "new"
)

type MusicPreferences struct {
	FavoriteArtists []string `json:"favoriteArtists"`
	FavoriteGenres  []string `json:"favoriteGenres"`
	DislikedGenres  []string `json:"dislikedGenres"`

	// FavoriteEras are decades.
	// Example: ["80s", "2000s"]
	FavoriteEras []string `json:"favoriteEras"`

	PreferenceType PreferenceType `json:"preferenceType" validate:"omitempty,oneof=existing new"`
}

type UserProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	DisplayName string `json:"displayName,omitempty" validate:"max=64"`

	MusicPreferences MusicPreferences `json:"musicPreferences"`

	NotificationsEnabled bool   `json:"notificationsEnabled"`
	Language             string `json:"language" validate:"omitempty,oneof=ja en"`

	CreatedAt time.Time `json:"createdAt"`
}

type GenreCount struct {
	Genre string `json:"genre" firestore:"genre"`
	Count int    `json:"count" firestore:"count"`
}

type EmotionShare struct {
	Emotion    string `json:"emotion" firestore:"emotion"`
	Count      int    `json:"count" firestore:"count"`
	Percentage int    `json:"percentage" firestore:"percentage"`
}

type MonthlyActivity struct {
	// Month is formatted as YYYY-MM.
	Month   string `json:"month" firestore:"month"`
	Entries int    `json:"entries" firestore:"entries"`
}

// UserStats summarises a user's diary and listening history.
type UserStats struct {
	UserID                string            `json:"userId" firestore:"userId"`
	TotalDiaryEntries     int               `json:"totalDiaryEntries" firestore:"totalDiaryEntries"`
	TotalSongsRecommended int               `json:"totalSongsRecommended" firestore:"totalSongsRecommended"`
	TotalSongsLiked       int               `json:"totalSongsLiked" firestore:"totalSongsLiked"`
	StreakDays            int               `json:"streakDays" firestore:"streakDays"`
	CurrentStreak         int               `json:"currentStreak" firestore:"currentStreak"`
	GenresDiscovered      int               `json:"genresDiscovered" firestore:"genresDiscovered"`
	FavoriteGenres        []GenreCount      `json:"favoriteGenres" firestore:"favoriteGenres"`
	EmotionalBreakdown    []EmotionShare    `json:"emotionalBreakdown" firestore:"emotionalBreakdown"`
	MonthlyActivity       []MonthlyActivity `json:"monthlyActivity" firestore:"monthlyActivity"`

	// AverageIntensity is rounded to one decimal place.
	// Example: 6.3
	AverageIntensity float64 `json:"averageIntensity" firestore:"averageIntensity"`

	// MostActiveDay is a Japanese weekday name.
	// Example: 日曜日
	MostActiveDay string `json:"mostActiveDay" firestore:"mostActiveDay"`

	// TotalListeningMinutes is the estimated listening time of every
	// recommended song.
	TotalListeningMinutes int `json:"totalListeningTime" firestore:"totalListeningTime"`

	LastActive time.Time `json:"lastActive" firestore:"lastActive"`
}
