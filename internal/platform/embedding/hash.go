// Package embedding holds the deterministic local embedder used when no embeddings API is
// configured.
package embedding

import (
	"context"
	"math"
	"strings"
)

const DefaultDimensions = 1024

// Embedder turns texts into fixed-size vectors.
type Embedder interface {
	Dimensions() int
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// HashEmbedder spreads character codes of each word over the vector and L2-normalises the result.
// Equal texts always map to equal vectors, so index and query sides agree without a model.
type HashEmbedder struct {
	dims int
}

func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashEmbedder{dims: dims}
}

func (h *HashEmbedder) Dimensions() int { return h.dims }

func (h *HashEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, h.vector(in))
	}
	return out, nil
}

func (h *HashEmbedder) vector(text string) []float32 {
	vec := make([]float64, h.dims)
	for idx, word := range strings.Fields(strings.ToLower(text)) {
		for i, r := range []rune(word) {
			pos := (int(r) + idx + i) % h.dims
			vec[pos] += 0.1
		}
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	out := make([]float32, h.dims)
	for i, v := range vec {
		if norm > 0 {
			out[i] = float32(v / norm)
		}
	}
	return out
}
