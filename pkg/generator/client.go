package generator

import (
	"context"
	"fmt"

	"github.com/shouni/go-gemini-client/pkg/gemini"
)

var _ GenerativeModel = (*gemini.Client)(nil)

// NewGeminiClient は API キーから Gemini クライアントを作成します。
func NewGeminiClient(ctx context.Context, apiKey string) (*gemini.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := gemini.NewClient(ctx, gemini.Config{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}
