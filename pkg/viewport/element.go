package viewport

import "strings"

// interactiveTags はドラッグを開始させない要素です。
var interactiveTags = []string{"button", "a"}

// Element はイベントの発生元となる要素ツリーのノードです。
type Element struct {
	Tag    string
	Parent *Element
}

// Child は e の子要素を作成します。
func (e *Element) Child(tag string) *Element {
	return &Element{Tag: tag, Parent: e}
}

// Closest は自身または祖先のうち、tags のいずれかに一致する最も近い要素を返します。
func (e *Element) Closest(tags ...string) *Element {
	for el := e; el != nil; el = el.Parent {
		for _, tag := range tags {
			if strings.EqualFold(el.Tag, tag) {
				return el
			}
		}
	}
	return nil
}

// IsInteractive はボタンやリンクの内側で発生したイベントかどうかを返します。
func IsInteractive(target *Element) bool {
	return target.Closest(interactiveTags...) != nil
}
