package airport

import (
	"sort"
	"strings"
)

// Match-quality weights. Code matches outrank city matches outrank name
// matches, so the composite can exceed 1.0; only relative order matters
// downstream and clamping would break ranking.
const (
	codeWeight = 1.5
	cityWeight = 1.2
	nameWeight = 1.0

	// scoreCutoff drops candidates that barely resemble the query.
	scoreCutoff = 0.3
)

// Score rates how well query matches one candidate field, in [0,1].
// Exact match 1.0, prefix 0.9, substring 0.7, otherwise Levenshtein
// similarity scaled to a 0.5 ceiling.
func Score(query, candidate string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if q == "" || c == "" {
		return 0
	}

	switch {
	case q == c:
		return 1.0
	case strings.HasPrefix(c, q):
		return 0.9
	case strings.Contains(c, q):
		return 0.7
	}

	longest := len(q)
	if len(c) > longest {
		longest = len(c)
	}
	similarity := 1 - float64(levenshtein(q, c))/float64(longest)
	if similarity < 0 {
		similarity = 0
	}
	return similarity * 0.5
}

// CompositeScore rates an airport against the query across its code, city
// and name fields, weighted by match quality.
func CompositeScore(query string, a Airport) float64 {
	score := Score(query, a.Code) * codeWeight
	if s := Score(query, a.City) * cityWeight; s > score {
		score = s
	}
	if s := Score(query, a.Name) * nameWeight; s > score {
		score = s
	}
	return score
}

// Rank orders airports by descending composite score, drops ones scoring at
// or below the cutoff and truncates to limit. The input is not mutated.
func Rank(query string, airports []Airport, limit int) []Airport {
	type scored struct {
		airport Airport
		score   float64
	}

	survivors := make([]scored, 0, len(airports))
	for _, a := range airports {
		if s := CompositeScore(query, a); s > scoreCutoff {
			survivors = append(survivors, scored{airport: a, score: s})
		}
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].score > survivors[j].score
	})

	if limit > 0 && len(survivors) > limit {
		survivors = survivors[:limit]
	}

	ranked := make([]Airport, len(survivors))
	for i, s := range survivors {
		ranked[i] = s.airport
	}
	return ranked
}

// levenshtein computes the edit distance with a rolling two-row table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minOf(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func minOf(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
