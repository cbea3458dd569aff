package match

import "strings"

// Similarity scores two normalized texts in [0,1]. Symmetric. Takes the best
// of fuzzy token overlap, whole-string edit-distance ratio and a containment
// ratio: overlap catches reordered or lightly reworded recurrences, edit
// distance catches short texts differing by a few characters, containment
// catches a question quoted inside a longer variant.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	score := tokenOverlap(a, b)
	if edit := editRatio(a, b); edit > score {
		score = edit
	}
	if contained := containmentRatio(a, b); contained > score {
		score = contained
	}
	return score
}

// containmentMinRunes is the minimum length at which one text containing the
// other is meaningful rather than accidental.
const containmentMinRunes = 20

// containmentRatio scores a text fully containing the other as the length
// ratio of the two, and 0 otherwise.
func containmentRatio(a, b string) float64 {
	shorter, longer := a, b
	if len([]rune(shorter)) > len([]rune(longer)) {
		shorter, longer = longer, shorter
	}
	if len([]rune(shorter)) <= containmentMinRunes || !strings.Contains(longer, shorter) {
		return 0.0
	}
	return float64(len([]rune(shorter))) / float64(len([]rune(longer)))
}

// matchRatio is the per-token edit ratio above which two words count as the
// same token. Absorbs inflection drift ("demokratin" vs "demokrati") without
// conflating short words.
const matchRatio = 0.8

// tokenOverlap is the matched-token count over the larger word-set size.
// Matching is fuzzy per token; the count is averaged over both directions to
// keep the measure symmetric.
func tokenOverlap(a, b string) float64 {
	wordsA := tokenSet(a)
	wordsB := tokenSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	matchedA := matchedCount(wordsA, wordsB)
	matchedB := matchedCount(wordsB, wordsA)

	larger := len(wordsA)
	if len(wordsB) > larger {
		larger = len(wordsB)
	}
	return (float64(matchedA) + float64(matchedB)) / 2.0 / float64(larger)
}

// matchedCount counts tokens of "from" that have a counterpart in "to".
func matchedCount(from, to map[string]bool) int {
	matched := 0
	for w := range from {
		if to[w] {
			matched++
			continue
		}
		for u := range to {
			if tokensMatch(w, u) {
				matched++
				break
			}
		}
	}
	return matched
}

// tokensMatch reports whether two distinct words are close enough to count as
// the same token. Short words must match exactly.
func tokensMatch(a, b string) bool {
	if len([]rune(a)) < 5 || len([]rune(b)) < 5 {
		return false
	}
	return editRatio(a, b) >= matchRatio
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// editRatio is 1 - levenshtein(a,b)/max(len(a),len(b)), over runes.
func editRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(ra, rb))/float64(longer)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
