// Package levenshtein ranks registered step patterns by edit distance for
// the Undefined-step suggestion diagnostic (spec §4.4). Kept in-repo
// rather than importing a third-party levenshtein package: the only one
// visible in the retrieved example pack (agext/levenshtein, via
// robmorgan-infraspec's go.mod) appears solely as part of that repo's full
// Terraform/AWS dependency closure with no source in the pack to ground
// against, so the distance function is reimplemented here instead of
// guessing at an unverified import.
package levenshtein

// Distance computes the classic edit distance between a and b.
func Distance(a, b string) int {
	ar, br := []rune(a), []rune(b)

	prev := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ar); i++ {
		cur := make([]int, len(br)+1)
		cur[0] = i

		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}

			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}

		prev = cur
	}

	return prev[len(br)]
}

// TopK returns the k candidates closest (by edit distance) to target, in
// ascending order of distance.
func TopK(target string, candidates []string, k int) []string {
	type scored struct {
		s string
		d int
	}

	scoredList := make([]scored, len(candidates))
	for i, c := range candidates {
		scoredList[i] = scored{s: c, d: Distance(target, c)}
	}

	for i := 1; i < len(scoredList); i++ {
		for j := i; j > 0 && scoredList[j].d < scoredList[j-1].d; j-- {
			scoredList[j], scoredList[j-1] = scoredList[j-1], scoredList[j]
		}
	}

	if k > len(scoredList) {
		k = len(scoredList)
	}

	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = scoredList[i].s
	}

	return out
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}

	if c < m {
		m = c
	}

	return m
}
