package generator

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const cacheKeyAsset = "asset:"

// AssetFetcher はシード画像などのリモート画像を取得します。
// gs:// は remoteio、http(s) は SSRF チェックの上で HTTPClient を使います。
type AssetFetcher struct {
	httpClient HTTPClient
	reader     remoteio.InputReader
	cache      ImageCacher
	expiration time.Duration
}

// NewAssetFetcher は依存関係を注入して AssetFetcher を初期化します。
// reader と cache は nil を許容します（gs:// 非対応、キャッシュなし動作）。
func NewAssetFetcher(httpClient HTTPClient, reader remoteio.InputReader, cache ImageCacher, cacheTTL time.Duration) (*AssetFetcher, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	return &AssetFetcher{
		httpClient: httpClient,
		reader:     reader,
		cache:      cache,
		expiration: cacheTTL,
	}, nil
}

// FetchBytes は URL の画像データを返します。
func (f *AssetFetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	if f.cache != nil {
		if val, ok := f.cache.Get(cacheKeyAsset + rawURL); ok {
			if data, ok := val.([]byte); ok {
				return data, nil
			}
		}
	}

	data, err := f.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.cache.Set(cacheKeyAsset+rawURL, data, f.expiration)
	}
	return data, nil
}

func (f *AssetFetcher) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "gs://") {
		if f.reader == nil {
			return nil, fmt.Errorf("gs:// を読み込むための reader が設定されていません: %s", rawURL)
		}
		rc, err := f.reader.Open(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	if safe, err := IsSafeURL(rawURL); err != nil || !safe {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}
	return f.httpClient.FetchBytes(ctx, rawURL)
}
