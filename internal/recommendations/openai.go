package recommendations

import (
	"context"
	"fmt"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Embedder turns a game title into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// OpenAIEmbedder embeds titles with the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *sdk.Client
	model  string
}

// NewOpenAIEmbedder constructs the embedder.
func NewOpenAIEmbedder(apiKey, model string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key required")
	}
	if model == "" {
		model = string(sdk.EmbeddingModelTextEmbedding3Small)
	}
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIEmbedder{client: &client, model: model}, nil
}

// Embed returns the embedding vector for one text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	res, err := e.client.Embeddings.New(ctx, sdk.EmbeddingNewParams{
		Input: sdk.EmbeddingNewParamsInputUnion{
			OfString: sdk.String(text),
		},
		Model: sdk.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return res.Data[0].Embedding, nil
}
