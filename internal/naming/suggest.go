package naming

import (
	"cmp"
	"slices"
)

// SuggestMinScore is the minimum similarity for a candidate to be suggested.
const SuggestMinScore = 0.5

// Levenshtein is the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	// row[j] is the distance between the current prefix of ra and rb[:j].
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i, x := range ra {
		diag := row[0]
		row[0] = i + 1

		for j, y := range rb {
			sub := diag
			if x != y {
				sub++
			}

			diag = row[j+1]
			row[j+1] = min(row[j+1]+1, row[j]+1, sub)
		}
	}

	return row[len(rb)]
}

// Similarity scores two identifiers between 0 and 1 after normalization;
// 1 means they normalize to the same string.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)

	longest := max(len([]rune(na)), len([]rune(nb)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(na, nb))/float64(longest)
}

// Suggest returns up to limit candidates similar to name, best first. Equal
// scores keep the order of candidates; a limit of zero or less means all.
func Suggest(name string, candidates []string, limit int) []string {
	type hit struct {
		name  string
		score float64
	}

	var hits []hit

	for _, c := range candidates {
		if score := Similarity(name, c); score >= SuggestMinScore {
			hits = append(hits, hit{c, score})
		}
	}

	slices.SortStableFunc(hits, func(x, y hit) int {
		return cmp.Compare(y.score, x.score)
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}

	return out
}
