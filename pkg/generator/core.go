package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-avatar-booth/pkg/domain"
	"github.com/shouni/gemini-avatar-booth/pkg/imgutil"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

const (
	DefaultModel       = "gemini-2.5-flash-image"
	AvatarAspectRatio  = "1:1"
	CaptureJPEGQuality = 90
)

// DefaultSystemPrompt はアバター生成の共通スタイルです。
const DefaultSystemPrompt = `You turn a photo of a real person into a cute chibi-style game avatar.
Keep the person's face shape, hairstyle cues, expression and skin tone recognizable.
Render a single full-body chibi character on a clean background, square framing, no text or watermarks.`

// Option は AvatarGenerator の設定を変更します。
type Option func(*AvatarGenerator)

// WithSystemPrompt は共通スタイルを差し替えます。
func WithSystemPrompt(p string) Option {
	return func(g *AvatarGenerator) {
		if p != "" {
			g.systemPrompt = p
		}
	}
}

// WithJPEGQuality は送信する撮影画像のJPEG品質を指定します。
func WithJPEGQuality(q int) Option {
	return func(g *AvatarGenerator) {
		if q > 0 && q <= 100 {
			g.quality = q
		}
	}
}

// WithLogger はロガーを指定します。
func WithLogger(l *slog.Logger) Option {
	return func(g *AvatarGenerator) {
		if l != nil {
			g.logger = l
		}
	}
}

// AvatarGenerator は Gemini を利用した Gateway の実装です。
type AvatarGenerator struct {
	aiClient     GenerativeModel
	model        string
	systemPrompt string
	quality      int
	logger       *slog.Logger
}

// NewAvatarGenerator は依存関係を注入して AvatarGenerator を初期化します。
func NewAvatarGenerator(aiClient GenerativeModel, model string, opts ...Option) (*AvatarGenerator, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (GenerativeModel) is required")
	}
	if model == "" {
		model = DefaultModel
	}
	g := &AvatarGenerator{
		aiClient:     aiClient,
		model:        model,
		systemPrompt: DefaultSystemPrompt,
		quality:      CaptureJPEGQuality,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate は撮影画像をスタイル指示に沿ったアバター画像に変換します。
// 失敗は常に domain.ErrGenerationFailure でラップされます。
func (g *AvatarGenerator) Generate(ctx context.Context, img domain.CapturedImage, styleDirective string) (*domain.ImageResponse, error) {
	if img.Frame == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailure, domain.ErrNoFrame)
	}

	data, err := imgutil.EncodeJPEG(img.Frame, g.quality)
	if err != nil {
		return nil, fmt.Errorf("%w: 撮影画像のエンコードに失敗しました: %w", domain.ErrGenerationFailure, err)
	}
	imgPart := toPart(data)
	if imgPart == nil {
		return nil, fmt.Errorf("%w: 撮影画像を送信用データに変換できませんでした", domain.ErrGenerationFailure)
	}

	parts := []*genai.Part{{Text: BuildPrompt(styleDirective)}, imgPart}
	opts := gemini.GenerateOptions{
		AspectRatio:  AvatarAspectRatio,
		SystemPrompt: g.systemPrompt,
	}

	g.logger.InfoContext(ctx, "Geminiにアバター生成をリクエストします", "model", g.model, "source", img.Source.String(), "bytes", len(data))
	resp, err := g.aiClient.GenerateWithParts(ctx, g.model, parts, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: Geminiアバター生成エラー: %w", domain.ErrGenerationFailure, err)
	}

	out, err := parseToResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}
	return out, nil
}

// BuildPrompt はキャラクターのスタイル指示を生成プロンプトに埋め込みます。
func BuildPrompt(styleDirective string) string {
	var b strings.Builder
	b.WriteString("Transform the person in the attached photo into the following character.\n\n")
	b.WriteString(strings.TrimSpace(styleDirective))
	b.WriteString("\n\nReturn only the generated image.")
	return b.String()
}
