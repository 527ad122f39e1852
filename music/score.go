package music

const (
	minRelevance = 1
	maxRelevance = 10
)

// searchRelevance scores a catalog-search pick. It is a heuristic
// confidence, not a probability.
func searchRelevance(intensity int, hasPreview bool) int {
	score := baseRelevance
	if intensity > 7 {
		score += 2
	}
	if intensity < 3 {
		score++
	}
	if hasPreview {
		score++
	}
	return clampRelevance(score)
}

// localRelevance reports curated picks as 8 or 9.
func localRelevance(p Picker) int {
	return 8 + p.Intn(2)
}

func clampRelevance(v int) int {
	if v < minRelevance {
		return minRelevance
	}
	if v > maxRelevance {
		return maxRelevance
	}
	return v
}
