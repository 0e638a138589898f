package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
)

// Embedder produces fixed-size embeddings through the embeddings endpoint.
type Embedder struct {
	client     *Client
	dimensions int
}

// NewEmbedder returns an embedder truncating vectors to dimensions (text-embedding-3 models only).
func NewEmbedder(client *Client, dimensions int) *Embedder {
	return &Embedder{client: client, dimensions: dimensions}
}

func (e *Embedder) Dimensions() int { return e.dimensions }

func (e *Embedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	resp, err := e.client.api.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input:      inputs,
		Model:      goopenai.EmbeddingModel(e.client.cfg.EmbedModel),
		Dimensions: e.dimensions,
	})
	if err != nil {
		return nil, wrapAPIError(err)
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d inputs", len(resp.Data), len(inputs))
	}
	out := make([][]float32, len(inputs))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embeddings: index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}
