// Package gemini はGoogle Gemini APIを使用したテキスト埋め込みクライアントを提供します。
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"comps_backend/internal/feature/chat/usecase"
)

const (
	// DefaultModel は埋め込み生成のデフォルトモデルです。
	DefaultModel = "gemini-embedding-001"
	// EmbeddingDimension は生成するベクトルの次元数です。
	EmbeddingDimension = 768
)

// Embedder はGemini APIでテキストをベクトル化します。
type Embedder struct {
	client *genai.Client
	model  string
}

// EmbedderがEmbedderインターフェースを実装していることをコンパイル時に検証します。
var _ usecase.Embedder = (*Embedder)(nil)

// NewEmbedder はEmbedderの新しいインスタンスを生成します。
// 認証情報は環境変数（GEMINI_API_KEY または ADC）から解決されます。
func NewEmbedder(ctx context.Context) (*Embedder, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Embedder{client: client, model: DefaultModel}, nil
}

// Embed はテキストの埋め込みベクトルを生成します。
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	dim := int32(EmbeddingDimension)
	cfg := &genai.EmbedContentConfig{OutputDimensionality: &dim}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("no embedding returned from gemini")
	}

	values := result.Embeddings[0].Values
	if len(values) != EmbeddingDimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", EmbeddingDimension, len(values))
	}
	return values, nil
}
