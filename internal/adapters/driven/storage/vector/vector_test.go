package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0, CosineDistance([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 1, CosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2, CosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 1.0, CosineDistance([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 1.0, CosineDistance([]float32{1}, []float32{1, 0}))
}

func TestTopK(t *testing.T) {
	in := []domain.QueryResult{
		{ID: "c", Score: 0.3},
		{ID: "b", Score: 0.1},
		{ID: "a", Score: 0.1},
		{ID: "d", Score: 0.05},
	}
	got := TopK(in, 3)
	assert.Equal(t, []string{"d", "a", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Empty(t, TopK(in, 0))
	assert.Len(t, TopK(in, 10), 4)
}
