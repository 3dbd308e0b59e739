// Package scoring implements the relevance scorer used to rank search
// results. Scoring is tiered exact-match heuristics, not a term
// frequency model: exact match beats prefix beats substring beats
// partial word overlap.
package scoring

import "strings"

// Score rates how well candidate matches query, in [0,1]:
//
//	exact match (case-insensitive)  -> 1.0
//	prefix match                    -> 0.9
//	substring match                 -> 0.7
//	otherwise 0.5 * fraction of query words found inside candidate words
//
// An empty candidate or empty query scores 0. Repeated query words are
// counted individually, matching the historical behaviour of the
// scorer ("food food" scores the same as "food" only when both words
// match).
func Score(candidate, query string) float64 {
	c := strings.ToLower(strings.TrimSpace(candidate))
	q := strings.ToLower(strings.TrimSpace(query))

	if c == "" || q == "" {
		return 0
	}

	switch {
	case c == q:
		return 1.0
	case strings.HasPrefix(c, q):
		return 0.9
	case strings.Contains(c, q):
		return 0.7
	}

	queryWords := strings.Fields(q)
	candidateWords := strings.Fields(c)

	matched := 0
	for _, qw := range queryWords {
		for _, cw := range candidateWords {
			if strings.Contains(cw, qw) {
				matched++
				break
			}
		}
	}

	return 0.5 * float64(matched) / float64(len(queryWords))
}
