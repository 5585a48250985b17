package embedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// OpenAIOptions configure the OpenAI embedder.
type OpenAIOptions struct {
	Model openai.EmbeddingModel
}

// OpenAIEmbedder implements Embedder using the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	opts   OpenAIOptions
}

// NewOpenAIEmbedder creates an embedder using a fresh client configured from
// the environment.
func NewOpenAIEmbedder(optFns ...func(o *OpenAIOptions)) *OpenAIEmbedder {
	client := openai.NewClient()
	return NewOpenAIEmbedderFromClient(&client, optFns...)
}

// NewOpenAIEmbedderFromClient creates an embedder from an existing client.
func NewOpenAIEmbedderFromClient(client *openai.Client, optFns ...func(o *OpenAIOptions)) *OpenAIEmbedder {
	opts := OpenAIOptions{
		Model: openai.EmbeddingModelTextEmbedding3Small,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &OpenAIEmbedder{client: client, opts: opts}
}

// Embed implements Embedder. Vectors are returned in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: e.opts.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

var _ Embedder = (*OpenAIEmbedder)(nil)
