package domain

import "errors"

var (
	// ErrDeviceUnavailable はカメラの権限拒否やデバイス不在を表します。
	ErrDeviceUnavailable = errors.New("camera device unavailable")
	// ErrDecodeFailure はアップロード画像のデコード失敗です。
	ErrDecodeFailure = errors.New("image decode failure")
	// ErrGenerationFailure は生成ゲートウェイの通信・サービスエラーです。
	ErrGenerationFailure = errors.New("generation failure")
	// ErrInvalidOperation は現在の状態で受け付けられない操作です。
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrNoFrame はキャプチャ可能なフレームが無いことを表します。
	ErrNoFrame = errors.New("no frame available")

	ErrDuplicateID = errors.New("duplicate gallery item id")
	ErrNotFound    = errors.New("gallery item not found")
)
