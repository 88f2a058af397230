package capture

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 左半分が赤、右半分が青の画像を作成するヘルパー
func splitImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	return img
}

func TestCenterSquare(t *testing.T) {
	tests := []struct {
		name string
		in   image.Rectangle
		want image.Rectangle
	}{
		{"横長", image.Rect(0, 0, 1000, 800), image.Rect(100, 0, 900, 800)},
		{"縦長", image.Rect(0, 0, 600, 900), image.Rect(0, 150, 600, 750)},
		{"正方形", image.Rect(0, 0, 512, 512), image.Rect(0, 0, 512, 512)},
		{"原点がずれている", image.Rect(10, 20, 110, 70), image.Rect(35, 20, 85, 70)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CenterSquare(tt.in))
		})
	}
}

func TestSquareCrop(t *testing.T) {
	sizes := [][2]int{{1000, 800}, {640, 480}, {300, 900}, {512, 512}, {7, 3}}
	for _, wh := range sizes {
		out := SquareCrop(splitImage(wh[0], wh[1]), DefaultOutputSize, false)
		assert.Equal(t, image.Rect(0, 0, 512, 512), out.Bounds(), "source %dx%d", wh[0], wh[1])
	}

	t.Run("反転なしでは左が赤のまま", func(t *testing.T) {
		out := SquareCrop(splitImage(200, 100), 64, false)
		left := out.RGBAAt(2, 32)
		right := out.RGBAAt(61, 32)
		assert.Greater(t, left.R, left.B)
		assert.Greater(t, right.B, right.R)
	})

	t.Run("反転ありでは左が青になる", func(t *testing.T) {
		out := SquareCrop(splitImage(200, 100), 64, true)
		left := out.RGBAAt(2, 32)
		right := out.RGBAAt(61, 32)
		assert.Greater(t, left.B, left.R)
		assert.Greater(t, right.R, right.B)
	})
}
