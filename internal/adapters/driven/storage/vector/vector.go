// Package vector holds the similarity math shared by the brute-force
// collection backends.
package vector

import (
	"math"
	"sort"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// CosineDistance returns 1 - cosine similarity, in [0, 2]. Vectors of
// different length, or with zero norm, are at distance 1.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// TopK sorts results by ascending score (ties by id) and keeps the first k.
// A non-positive k keeps nothing.
func TopK(results []domain.QueryResult, k int) []domain.QueryResult {
	if k <= 0 {
		return []domain.QueryResult{}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}
