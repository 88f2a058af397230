package domain

import (
	"image"
	"time"
)

// SourceKind は撮影画像の取得元です。
type SourceKind int

const (
	// SourceCamera はライブ映像（フロントカメラ）からのキャプチャです。
	SourceCamera SourceKind = iota
	// SourceUpload はユーザーがアップロードした画像ファイルからのキャプチャです。
	SourceUpload
)

func (k SourceKind) String() string {
	switch k {
	case SourceCamera:
		return "camera"
	case SourceUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// CapturedImage は正方形にクロップ済みの撮影画像です。
// ステートマシンが生成リクエストに渡した後は保持されません。
type CapturedImage struct {
	Frame      *image.RGBA
	Source     SourceKind
	CapturedAt time.Time
}

// Size は正方形フレームの一辺のピクセル数を返します。
func (c CapturedImage) Size() int {
	if c.Frame == nil {
		return 0
	}
	return c.Frame.Bounds().Dx()
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}
