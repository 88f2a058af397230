package booth

import "time"

// Clock はタイマーの取得元です。テストでは手動で進める実装に差し替えます。
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Timing は演出上の待ち時間です。
type Timing struct {
	CountdownFrom int
	CountdownTick time.Duration
	// PrintDelay は生成完了からギャラリー登録までの固定の待ち時間です。
	PrintDelay time.Duration
	// DevelopDuration は PrintDelay のうち現像演出に充てる時間です。
	DevelopDuration time.Duration
}

// DefaultTiming は 3 カウント、1 秒刻み、5 秒の印刷待ち、4 秒の現像です。
func DefaultTiming() Timing {
	return Timing{
		CountdownFrom:   3,
		CountdownTick:   time.Second,
		PrintDelay:      5 * time.Second,
		DevelopDuration: 4 * time.Second,
	}
}
