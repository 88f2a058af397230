package capture

import (
	"image"

	"golang.org/x/image/draw"
)

// DefaultOutputSize はキャプチャ画像の一辺のピクセル数です。
const DefaultOutputSize = 512

// CenterSquare は画像内で最大となる中央の正方形領域を返します。
func CenterSquare(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	size := min(w, h)
	x0 := b.Min.X + (w-size)/2
	y0 := b.Min.Y + (h-size)/2
	return image.Rect(x0, y0, x0+size, y0+size)
}

// SquareCrop は中央の正方形を切り出して size×size に拡縮します。
// mirror が true の場合は左右反転します（フロントカメラのプレビューに合わせるため）。
func SquareCrop(src image.Image, size int, mirror bool) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, CenterSquare(src.Bounds()), draw.Src, nil)
	if mirror {
		mirrorHorizontal(dst)
	}
	return dst
}

func mirrorHorizontal(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Min.X, y)+b.Dx()*4]
		for l, r := 0, len(row)-4; l < r; l, r = l+4, r-4 {
			for k := 0; k < 4; k++ {
				row[l+k], row[r+k] = row[r+k], row[l+k]
			}
		}
	}
}
