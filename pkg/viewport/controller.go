package viewport

import "sync"

// Controller はカメラウィジェットのパン・ズームをジェスチャーから更新します。
// 慣性はなく、すべての更新は同期的です。
type Controller struct {
	mu sync.Mutex
	t  Transform

	dragging   bool
	dragStart  Point
	dragOrigin Point

	touchStart  Point
	touchOrigin Point
	pinchDist   float64
	pinchScale  float64
}

// NewController は等倍・移動なしの Controller を作成します。
func NewController() *Controller {
	return &Controller{t: Identity(), pinchScale: 1}
}

// Transform は現在の変換を返します。
func (c *Controller) Transform() Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Reset は変換を初期状態に戻します。ユーザー操作でのみ呼ばれます。
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = Identity()
	c.dragging = false
}

// MouseDown はドラッグを開始します。操作要素の上で押された場合は開始せず false を返します。
func (c *Controller) MouseDown(target *Element, p Point) bool {
	if IsInteractive(target) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = true
	c.dragStart = p
	c.dragOrigin = c.t.Offset
	return true
}

// MouseMove はウィンドウ全体のマウス移動を受け取ります。
// ウィジェットの外に出てもドラッグ中であれば追従します。
func (c *Controller) MouseMove(p Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragging {
		return
	}
	c.t.Offset = c.dragOrigin.Add(p.Sub(c.dragStart))
}

// MouseUp はドラッグを終了します。
func (c *Controller) MouseUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = false
}

// Dragging はドラッグ中かどうかを返します。
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

// Wheel は拡大率を -deltaY*WheelSensitivity だけ変更します。
// 戻り値はページのデフォルトスクロールを抑止すべきかどうかで、常に true です。
func (c *Controller) Wheel(deltaY float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t.Scale = ClampScale(c.t.Scale - deltaY*WheelSensitivity)
	return true
}

// TouchStart は1本指ならパン、2本指ならピンチの開始点を記録します。
func (c *Controller) TouchStart(target *Element, touches []Point) {
	if IsInteractive(target) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch len(touches) {
	case 1:
		c.touchStart = touches[0]
		c.touchOrigin = c.t.Offset
	case 2:
		c.pinchDist = Distance(touches[0], touches[1])
		c.pinchScale = c.t.Scale
	}
}

// TouchMove はジェスチャー開始時からの差分で変換を更新します。
func (c *Controller) TouchMove(target *Element, touches []Point) {
	if IsInteractive(target) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch len(touches) {
	case 1:
		c.t.Offset = c.touchOrigin.Add(touches[0].Sub(c.touchStart))
	case 2:
		if c.pinchDist <= 0 {
			return
		}
		factor := Distance(touches[0], touches[1]) / c.pinchDist
		c.t.Scale = ClampScale(c.pinchScale * factor)
	}
}
