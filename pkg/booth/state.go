package booth

import (
	"fmt"

	"github.com/shouni/gemini-avatar-booth/pkg/domain"
)

// State は撮影から印刷までの状態です。
type State int

const (
	// StateIdle はキャラクター未選択の状態です。
	StateIdle State = iota
	// StateReady はキャラクター選択済みでキャプチャ元が無効な状態です。
	StateReady
	// StateArmed はキャプチャ元が有効でシャッター待ちの状態です。
	StateArmed
	StateCountdown
	StateCaptured
	StateGenerating
	// StatePrinted は生成結果を受け取り、現像演出中の状態です。
	StatePrinted
	// StateSettled は現像演出が終わり、ギャラリーへの登録待ちの状態です。
	StateSettled
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateReady:      "ready",
	StateArmed:      "armed",
	StateCountdown:  "countdown",
	StateCaptured:   "captured",
	StateGenerating: "generating",
	StatePrinted:    "printed",
	StateSettled:    "settled",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Session は進行中の撮影セッションです。同時に1つしか存在しません。
type Session struct {
	Character  *domain.Character
	Captured   *domain.CapturedImage
	Generated  *domain.ImageResponse
	Processing bool
	Countdown  int
}
