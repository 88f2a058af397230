package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/gemini-avatar-booth/pkg/booth"
	"github.com/shouni/gemini-avatar-booth/pkg/capture"
	"github.com/shouni/gemini-avatar-booth/pkg/catalog"
	"github.com/shouni/gemini-avatar-booth/pkg/config"
	"github.com/shouni/gemini-avatar-booth/pkg/generator"
)

// assetCacheTTL はシード画像のキャッシュ期間です。
const assetCacheTTL = 10 * time.Minute

const gcsScheme = "gs://"

func newHTTPClient(cfg *config.Config) httpkit.ClientInterface {
	return httpkit.New(cfg.HTTPTimeout)
}

// newAssetFetcher は URL 参照の画像を取得する AssetFetcher を作成します。
// カタログに gs:// の URL が含まれる場合のみ GCS の reader を用意します。
// 戻り値の関数で GCS クライアントを解放してください。
func newAssetFetcher(ctx context.Context, client httpkit.ClientInterface, cat *catalog.Catalog) (*generator.AssetFetcher, func(), error) {
	var (
		reader  remoteio.InputReader
		cleanup = func() {}
	)
	if usesGCS(cat) {
		factory, err := gcsfactory.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("GCSクライアントの初期化に失敗しました: %w", err)
		}
		cleanup = func() {
			if err := factory.Close(); err != nil {
				slog.Warn("GCSクライアントの解放に失敗しました", "error", err)
			}
		}
		if reader, err = factory.InputReader(); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("GCS reader の作成に失敗しました: %w", err)
		}
	}

	fetcher, err := generator.NewAssetFetcher(client, reader, generator.NewMemoryCache(), assetCacheTTL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return fetcher, cleanup, nil
}

// usesGCS はカタログ内の画像 URL に gs:// が含まれるかを返します。
func usesGCS(cat *catalog.Catalog) bool {
	for _, seed := range cat.Seeds() {
		if strings.HasPrefix(seed.GeneratedURL, gcsScheme) {
			return true
		}
	}
	for _, ch := range cat.All() {
		if strings.HasPrefix(ch.ImageURL, gcsScheme) {
			return true
		}
	}
	return false
}

func newGateway(ctx context.Context, cfg *config.Config) (*generator.AvatarGenerator, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("%s が設定されていません", config.EnvAPIKey)
	}
	client, err := generator.NewGeminiClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return nil, err
	}

	opts := []generator.Option{
		generator.WithJPEGQuality(cfg.Gemini.JPEGQuality),
		generator.WithLogger(slog.Default()),
	}
	if cfg.Gemini.SystemPrompt != "" {
		opts = append(opts, generator.WithSystemPrompt(cfg.Gemini.SystemPrompt))
	}
	return generator.NewAvatarGenerator(client, cfg.Gemini.Model, opts...)
}

func newCaptureSource(cfg *config.Config, client httpkit.ClientInterface, snapshotURL string) (*capture.Source, error) {
	var device capture.MediaDevice
	if snapshotURL != "" {
		d, err := capture.NewSnapshotDevice(client, snapshotURL)
		if err != nil {
			return nil, err
		}
		device = d
	}

	constraints := capture.DefaultConstraints()
	constraints.IdealWidth = cfg.Capture.IdealWidth
	constraints.IdealHeight = cfg.Capture.IdealHeight

	return capture.NewSource(device,
		capture.WithOutputSize(cfg.Capture.OutputSize),
		capture.WithConstraints(constraints),
		capture.WithLogger(slog.Default()),
	), nil
}

func boothTiming(cfg *config.Config) booth.Timing {
	return booth.Timing{
		CountdownFrom:   cfg.Booth.CountdownFrom,
		CountdownTick:   cfg.Booth.CountdownTick,
		PrintDelay:      cfg.Booth.PrintDelay,
		DevelopDuration: cfg.Booth.DevelopDuration,
	}
}
