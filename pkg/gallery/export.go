package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/shouni/gemini-avatar-booth/pkg/domain"
	"github.com/shouni/gemini-avatar-booth/pkg/imgutil"
)

// FilePrefix はエクスポートされるファイル名の接頭辞です。
const FilePrefix = "ggsnap-"

// Fetcher は URL 参照の画像を取得します。generator.AssetFetcher が満たします。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Exporter はギャラリーアイテムの生成画像をファイルに書き出します。
type Exporter struct {
	fetcher     Fetcher
	jpegQuality int
}

// ExportOption は Exporter の設定を変更します。
type ExportOption func(*Exporter)

// WithJPEGQuality を指定すると、書き出し時に JPEG へ変換します。
func WithJPEGQuality(quality int) ExportOption {
	return func(e *Exporter) { e.jpegQuality = quality }
}

// NewExporter は Exporter を作成します。fetcher が nil の場合、URL 参照のアイテムは書き出せません。
func NewExporter(fetcher Fetcher, opts ...ExportOption) *Exporter {
	e := &Exporter{fetcher: fetcher}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export は item の生成画像を dir/ggsnap-<id>.<ext> に保存し、そのパスを返します。
func (e *Exporter) Export(ctx context.Context, item domain.GalleryItem, dir string) (string, error) {
	data, mimeType, err := e.resolve(ctx, item.Generated)
	if err != nil {
		return "", fmt.Errorf("画像の取得に失敗しました (id=%s): %w", item.ID, err)
	}
	if e.jpegQuality > 0 && mimeType != "image/jpeg" {
		if data, err = imgutil.CompressToJPEG(data, e.jpegQuality); err != nil {
			return "", fmt.Errorf("JPEG への変換に失敗しました (id=%s): %w", item.ID, err)
		}
		mimeType = "image/jpeg"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}
	path := filepath.Join(dir, FileName(item.ID, mimeType))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("ファイルの書き込みに失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "ギャラリー画像を書き出しました", "id", item.ID, "path", path, "bytes", len(data))
	return path, nil
}

func (e *Exporter) resolve(ctx context.Context, ref domain.ImageRef) ([]byte, string, error) {
	if len(ref.Data) > 0 {
		mimeType := ref.MimeType
		if mimeType == "" {
			mimeType = http.DetectContentType(ref.Data)
		}
		return ref.Data, mimeType, nil
	}
	if ref.URL == "" {
		return nil, "", fmt.Errorf("image reference is empty")
	}
	if e.fetcher == nil {
		return nil, "", fmt.Errorf("fetcher is not configured for %s", ref.URL)
	}
	data, err := e.fetcher.FetchBytes(ctx, ref.URL)
	if err != nil {
		return nil, "", err
	}
	return data, http.DetectContentType(data), nil
}

// FileName はダウンロード用のファイル名を返します。
func FileName(id, mimeType string) string {
	ext := ".png"
	switch mimeType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	}
	return FilePrefix + id + ext
}
