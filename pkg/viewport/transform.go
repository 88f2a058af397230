package viewport

import "math"

const (
	MinScale = 0.5
	MaxScale = 1.5
	// WheelSensitivity はホイールの deltaY 1 あたりの拡大率の変化量です。
	WheelSensitivity = 0.001
)

// Point は画面上の座標です。
type Point struct {
	X, Y float64
}

// Sub は p - q を返します。
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add は p + q を返します。
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Distance は2点間のユークリッド距離です。
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Transform はウィジェットの平行移動と拡大率です。
type Transform struct {
	Offset Point
	Scale  float64
}

// Identity は移動なし・等倍の Transform です。
func Identity() Transform {
	return Transform{Scale: 1}
}

// ClampScale は拡大率を [MinScale, MaxScale] に収めます。
func ClampScale(s float64) float64 {
	return math.Min(math.Max(MinScale, s), MaxScale)
}
