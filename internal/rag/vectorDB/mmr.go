package vectorDB

import "math"

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// MaxMarginalRelevance returns the indexes of up to k candidates, in pick
// order. The first pick is the one closest to the query; every later pick
// maximizes lambda*sim(query, c) - (1-lambda)*max sim(c, picked).
func MaxMarginalRelevance(query []float32, candidates [][]float32, k int, lambda float32) []int {
	k = min(k, len(candidates))
	if k <= 0 {
		return nil
	}

	toQuery := make([]float32, len(candidates))
	best := 0
	for i, c := range candidates {
		toQuery[i] = cosine(query, c)
		if toQuery[i] > toQuery[best] {
			best = i
		}
	}

	picked := []int{best}
	taken := map[int]bool{best: true}
	// running max similarity of every candidate to the picked set
	redundancy := make([]float32, len(candidates))
	for i := range candidates {
		redundancy[i] = cosine(candidates[i], candidates[best])
	}

	for len(picked) < k {
		next := -1
		bestScore := float32(math.Inf(-1))
		for i := range candidates {
			if taken[i] {
				continue
			}
			score := lambda*toQuery[i] - (1-lambda)*redundancy[i]
			if score > bestScore {
				bestScore = score
				next = i
			}
		}
		picked = append(picked, next)
		taken[next] = true
		for i := range candidates {
			if s := cosine(candidates[i], candidates[next]); s > redundancy[i] {
				redundancy[i] = s
			}
		}
	}
	return picked
}
