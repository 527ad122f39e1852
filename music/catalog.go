package music

import "github.com/mager/melodiary/emotion"

// CatalogSong is a curated entry of the local catalog.
type CatalogSong struct {
	Title  string
	Artist string
	Genre  string
	Year   int
}

// Catalog is the local fallback song table.
type Catalog struct {
	ByMood    map[emotion.Emotion][]CatalogSong
	ByKeyword map[string]CatalogSong
}

const keywordSongYear = 2023

// DefaultCatalog returns the curated catalog. Every emotion has at least one
// entry.
func DefaultCatalog() Catalog {
	return Catalog{
		ByMood: map[emotion.Emotion][]CatalogSong{
			emotion.Happy: {
				{Title: "Sunshine Day", Artist: "Joy Collective", Genre: "Pop", Year: 2023},
				{Title: "Happy Vibes", Artist: "Cheerful Band", Genre: "Indie Pop", Year: 2022},
				{Title: "Good Times", Artist: "Smile Orchestra", Genre: "Folk Pop", Year: 2023},
			},
			emotion.Sad: {
				{Title: "Gentle Rain", Artist: "Melancholy Moon", Genre: "Indie Folk", Year: 2022},
				{Title: "Quiet Moments", Artist: "Soft Whispers", Genre: "Acoustic", Year: 2023},
				{Title: "Healing Hearts", Artist: "Comfort Zone", Genre: "Alternative", Year: 2022},
			},
			emotion.Excited: {
				{Title: "Electric Energy", Artist: "High Voltage", Genre: "Electronic", Year: 2023},
				{Title: "Rush Hour", Artist: "Adrenaline Rush", Genre: "Rock", Year: 2022},
				{Title: "Festival Night", Artist: "Dance Brigade", Genre: "EDM", Year: 2023},
			},
			emotion.Calm: {
				{Title: "Morning Breeze", Artist: "Peaceful Waters", Genre: "Ambient", Year: 2023},
				{Title: "Meditation Flow", Artist: "Zen Garden", Genre: "New Age", Year: 2022},
				{Title: "Quiet Garden", Artist: "Nature Sounds", Genre: "Ambient", Year: 2023},
			},
			emotion.Nostalgic: {
				{Title: "Memory Lane", Artist: "Yesterday Dreams", Genre: "Indie Folk", Year: 2022},
				{Title: "Old Photographs", Artist: "Time Capsule", Genre: "Alternative Rock", Year: 2023},
				{Title: "Vintage Soul", Artist: "Retro Revival", Genre: "Soul", Year: 2022},
			},
			emotion.Energetic: {
				{Title: "Power Up", Artist: "Energy Boost", Genre: "Rock", Year: 2023},
				{Title: "Workout Anthem", Artist: "Fitness Beat", Genre: "Hip Hop", Year: 2022},
				{Title: "Victory Dance", Artist: "Champion Sound", Genre: "Pop Rock", Year: 2023},
			},
			emotion.Melancholic: {
				{Title: "Autumn Leaves", Artist: "Subtle Emotions", Genre: "Indie", Year: 2022},
				{Title: "Moonlight Sonata", Artist: "Evening Mood", Genre: "Classical Pop", Year: 2023},
				{Title: "Silent Thoughts", Artist: "Introspection", Genre: "Alternative", Year: 2022},
			},
		},
		ByKeyword: map[string]CatalogSong{
			"散歩": {Title: "Walking Song", Artist: "Step by Step", Genre: "Acoustic Pop", Year: keywordSongYear},
			"仕事": {Title: "Focus Flow", Artist: "Productivity Zone", Genre: "Lo-Fi Hip Hop", Year: keywordSongYear},
			"友達": {Title: "Friendship Anthem", Artist: "Together Forever", Genre: "Pop", Year: keywordSongYear},
			"家族": {Title: "Family Time", Artist: "Warm Hearts", Genre: "Folk", Year: keywordSongYear},
			"勉強": {Title: "Study Groove", Artist: "Concentration", Genre: "Ambient", Year: keywordSongYear},
			"運動": {Title: "Workout Beat", Artist: "Fitness Flow", Genre: "Electronic", Year: keywordSongYear},
			"料理": {Title: "Kitchen Dance", Artist: "Culinary Rhythm", Genre: "Jazz", Year: keywordSongYear},
			"旅行": {Title: "Adventure Song", Artist: "Wanderlust", Genre: "World Music", Year: keywordSongYear},
		},
	}
}

// pick selects a song for the profile: the first keyword with a curated
// song wins, otherwise a random entry of the mood list (calm when the mood
// has none).
func (c Catalog) pick(mood emotion.Emotion, keywords []string, p Picker) (CatalogSong, bool) {
	for _, k := range keywords {
		if s, ok := c.ByKeyword[k]; ok {
			return s, true
		}
	}

	songs := c.ByMood[mood]
	if len(songs) == 0 {
		songs = c.ByMood[emotion.Calm]
	}
	if len(songs) == 0 {
		return CatalogSong{}, false
	}
	return songs[p.Intn(len(songs))], true
}
