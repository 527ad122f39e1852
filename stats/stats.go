package stats

import (
	"math"
	"sort"
	"time"

	"github.com/mager/melodiary/melodiary"
	"golang.org/x/exp/maps"
)

const (
	// OtherGenre labels recommendations whose song has no genre.
	OtherGenre = "その他"

	favoriteGenreLimit     = 5
	defaultDurationSeconds = 180
	defaultActiveDay       = "日曜日"
)

var weekdayNames = [...]string{"日曜日", "月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日"}

// Compute summarises entries and recommendations as of now. Calendar days
// are taken in now's location.
func Compute(userID string, entries []melodiary.DiaryEntry, recs []melodiary.Recommendation, now time.Time) melodiary.UserStats {
	loc := now.Location()

	s := melodiary.UserStats{
		UserID:                userID,
		TotalDiaryEntries:     len(entries),
		TotalSongsRecommended: len(recs),
		FavoriteGenres:        []melodiary.GenreCount{},
		LastActive:            now,
	}

	s.StreakDays, s.CurrentStreak = streaks(entries, now)

	genres := newCounter()
	listening := 0
	for _, r := range recs {
		genre := r.Song.Genre
		if genre == "" {
			genre = OtherGenre
		}
		genres.add(genre)

		d := r.Song.Duration
		if d <= 0 {
			d = defaultDurationSeconds
		}
		listening += d

		if r.Feedback != nil && r.Feedback.Liked {
			s.TotalSongsLiked++
		}
	}
	s.GenresDiscovered = len(genres.counts)
	s.TotalListeningMinutes = int(math.Round(float64(listening) / 60))
	for i, g := range genres.ranked() {
		if i == favoriteGenreLimit {
			break
		}
		s.FavoriteGenres = append(s.FavoriteGenres, melodiary.GenreCount{Genre: g, Count: genres.counts[g]})
	}

	emotions := map[string]int{}
	months := map[string]int{}
	days := newCounter()
	intensitySum, intensityN := 0, 0
	for _, e := range entries {
		if e.Analysis != nil {
			if p := string(e.Analysis.PrimaryEmotion); p != "" {
				emotions[p]++
			}
			if e.Analysis.Intensity > 0 {
				intensitySum += e.Analysis.Intensity
				intensityN++
			}
		}

		created := e.CreatedAt.In(loc)
		months[created.Format("2006-01")]++
		days.add(weekdayNames[created.Weekday()])
	}

	s.EmotionalBreakdown = breakdown(emotions, len(entries))
	s.MonthlyActivity = monthly(months)

	if intensityN > 0 {
		s.AverageIntensity = math.Round(float64(intensitySum)/float64(intensityN)*10) / 10
	}

	s.MostActiveDay = defaultActiveDay
	if ranked := days.ranked(); len(ranked) > 0 {
		s.MostActiveDay = ranked[0]
	}

	return s
}

// streaks returns the longest run of consecutive calendar days with an
// entry, and the run ending at the latest entry day if that day is today
// or yesterday (zero otherwise).
func streaks(entries []melodiary.DiaryEntry, now time.Time) (longest, current int) {
	if len(entries) == 0 {
		return 0, 0
	}
	loc := now.Location()

	seen := map[time.Time]bool{}
	for _, e := range entries {
		seen[day(e.CreatedAt.In(loc))] = true
	}
	daysWithEntries := maps.Keys(seen)
	sort.Slice(daysWithEntries, func(i, j int) bool {
		return daysWithEntries[i].Before(daysWithEntries[j])
	})

	longest, run := 1, 1
	for i := 1; i < len(daysWithEntries); i++ {
		if daysWithEntries[i-1].AddDate(0, 0, 1).Equal(daysWithEntries[i]) {
			run++
			longest = max(longest, run)
		} else {
			run = 1
		}
	}

	today := day(now)
	last := daysWithEntries[len(daysWithEntries)-1]
	if last.Equal(today) || last.Equal(today.AddDate(0, 0, -1)) {
		current = run
	}
	return longest, current
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// breakdown sorts emotions by count, most frequent first, then by name.
func breakdown(counts map[string]int, total int) []melodiary.EmotionShare {
	names := maps.Keys(counts)
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	out := make([]melodiary.EmotionShare, 0, len(names))
	for _, n := range names {
		out = append(out, melodiary.EmotionShare{
			Emotion:    n,
			Count:      counts[n],
			Percentage: int(math.Round(float64(counts[n]) / float64(total) * 100)),
		})
	}
	return out
}

func monthly(counts map[string]int) []melodiary.MonthlyActivity {
	months := maps.Keys(counts)
	sort.Strings(months)

	out := make([]melodiary.MonthlyActivity, 0, len(months))
	for _, m := range months {
		out = append(out, melodiary.MonthlyActivity{Month: m, Entries: counts[m]})
	}
	return out
}

// counter counts keys and ranks them by count, ties going to the key seen
// first.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) ranked() []string {
	out := append([]string(nil), c.order...)
	sort.SliceStable(out, func(i, j int) bool {
		return c.counts[out[i]] > c.counts[out[j]]
	})
	return out
}
