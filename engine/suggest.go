package engine

import (
	"sort"

	"github.com/giygas/drug-interactions-api/knowledgeparser/entities"
)

const (
	maxSuggestions      = 5
	suggestionThreshold = 0.6
)

type scoredName struct {
	name  string
	score float64
}

// suggest returns up to five canonical names close to an unknown input,
// best match first, equal scores by name.
func suggest(input string, drugs []entities.Drug) []string {
	var candidates []scoredName
	for _, d := range drugs {
		if score := similarity(input, d.ID); score >= suggestionThreshold {
			candidates = append(candidates, scoredName{name: d.ID, score: score})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].name < candidates[j].name
	})

	suggestions := make([]string, 0, maxSuggestions)
	for i := 0; i < len(candidates) && i < maxSuggestions; i++ {
		suggestions = append(suggestions, candidates[i].name)
	}
	return suggestions
}

// similarity is the Ratcliff/Obershelp ratio 2*M/T, where M counts the
// characters of the recursively found longest common blocks.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	i, j, size := longestBlock(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingRunes(a[:i], b[:j]) + matchingRunes(a[i+size:], b[j+size:])
}

// longestBlock finds the longest common run, the earliest one on ties.
func longestBlock(a, b []rune) (int, int, int) {
	bestI, bestJ, best := 0, 0, 0
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				curr[j] = 0
				continue
			}
			curr[j] = prev[j-1] + 1
			if curr[j] > best {
				best = curr[j]
				bestI, bestJ = i-best, j-best
			}
		}
		prev, curr = curr, prev
	}
	return bestI, bestJ, best
}
