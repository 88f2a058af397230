package domain

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturedImage_Size(t *testing.T) {
	t.Run("フレームが無い場合は0を返すのだ", func(t *testing.T) {
		assert.Equal(t, 0, CapturedImage{}.Size())
	})

	t.Run("正方形フレームの一辺を返すのだ", func(t *testing.T) {
		img := CapturedImage{Frame: image.NewRGBA(image.Rect(0, 0, 512, 512)), Source: SourceUpload}
		assert.Equal(t, 512, img.Size())
		assert.Equal(t, "upload", img.Source.String())
	})
}

func TestNewCapturedItem(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("生成画像がある場合はCapturedとして作成される", func(t *testing.T) {
		item, err := NewCapturedItem("id-1", []byte("orig"), ImageResponse{Data: []byte("png"), MimeType: "image/png"}, "ahri", now)
		require.NoError(t, err)
		assert.Equal(t, KindCaptured, item.Kind)
		assert.False(t, item.IsSeed())
		assert.Equal(t, "image/png", item.Generated.MimeType)
		assert.False(t, item.Generated.IsZero())
	})

	t.Run("生成画像が空の場合はエラー", func(t *testing.T) {
		_, err := NewCapturedItem("id-2", nil, ImageResponse{}, "ahri", now)
		assert.Error(t, err)
	})

	t.Run("IDが空の場合はエラー", func(t *testing.T) {
		_, err := NewCapturedItem("", nil, ImageResponse{Data: []byte("x")}, "ahri", now)
		assert.Error(t, err)
	})
}

func TestNewSeedItem(t *testing.T) {
	item := NewSeedItem("demo-1", "jinx", "https://example.com/a.png", time.Now())
	assert.True(t, item.IsSeed())
	assert.True(t, item.Original.IsZero())
	assert.Equal(t, "https://example.com/a.png", item.Generated.URL)
	assert.Equal(t, "seed", item.Kind.String())
}
