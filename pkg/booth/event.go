package booth

import "github.com/shouni/gemini-avatar-booth/pkg/domain"

// EventKind は Controller が通知するイベントの種類です。
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventCameraActivated
	// EventCountdownTick はカウントダウンの各秒で鳴らすビープ音の合図です。
	EventCountdownTick
	// EventShutter はフレームを取得した瞬間（シャッター音とフラッシュ）です。
	EventShutter
	// EventGenerated は生成結果の到着（成功ジングル）です。
	EventGenerated
	EventSettled
	EventCommitted
	// EventFailureNotice はユーザーに表示するブロッキングな失敗通知です。
	EventFailureNotice
	EventDeviceError
	EventDecodeError
	EventCaptureError
)

var eventNames = map[EventKind]string{
	EventStateChanged:    "state_changed",
	EventCameraActivated: "camera_activated",
	EventCountdownTick:   "countdown_tick",
	EventShutter:         "shutter",
	EventGenerated:       "generated",
	EventSettled:         "settled",
	EventCommitted:       "committed",
	EventFailureNotice:   "failure_notice",
	EventDeviceError:     "device_error",
	EventDecodeError:     "decode_error",
	EventCaptureError:    "capture_error",
}

func (k EventKind) String() string {
	return eventNames[k]
}

// Event は状態遷移やフィードバックの通知です。
type Event struct {
	Kind      EventKind
	State     State
	Countdown int
	Item      *domain.GalleryItem
	Err       error
}

// EventHandler はイベントを受け取ります。
// 発生順に1つずつ呼ばれるため、同期的に Controller のメソッドを呼び出してはいけません。
type EventHandler func(Event)
