package generator

import (
	"context"
	"time"

	"github.com/shouni/gemini-avatar-booth/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// Gateway は撮影画像とスタイル指示から画像を生成する窓口です。
// 1回のリクエストに1回のレスポンスを返し、進捗通知はありません。
type Gateway interface {
	Generate(ctx context.Context, img domain.CapturedImage, styleDirective string) (*domain.ImageResponse, error)
}

// GenerativeModel は Gemini との通信を担当します。
type GenerativeModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// ImageCacher は、画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// HTTPClient は、HTTPリクエストを実行し、URLからデータを取得するためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}
