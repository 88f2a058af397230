package booth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shouni/gemini-avatar-booth/pkg/capture"
	"github.com/shouni/gemini-avatar-booth/pkg/domain"
	"github.com/shouni/gemini-avatar-booth/pkg/imgutil"
)

// OriginalJPEGQuality はギャラリーに保存する元画像の JPEG 品質です。
const OriginalJPEGQuality = 90

// CaptureSource は Controller が利用するキャプチャ元です。
type CaptureSource interface {
	Activate(ctx context.Context) error
	Deactivate() error
	LoadFromFile(data []byte) error
	ClearFile()
	CaptureFrame(ctx context.Context) (domain.CapturedImage, error)
	Status() capture.Status
	HasFile() bool
	Ready() bool
}

// Gateway はキャプチャ画像からアバターを生成します。
type Gateway interface {
	Generate(ctx context.Context, img domain.CapturedImage, styleDirective string) (*domain.ImageResponse, error)
}

// Gallery は完成した写真の登録先です。
type Gallery interface {
	Append(item domain.GalleryItem) error
}

// Option は Controller の設定を変更します。
type Option func(*Controller)

func WithTiming(t Timing) Option {
	return func(c *Controller) { c.timing = t }
}

func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithEventHandler(h EventHandler) Option {
	return func(c *Controller) {
		if h != nil {
			c.onEvent = h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithIDGenerator はギャラリー項目の ID 生成関数を差し替えます。
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Controller は撮影から印刷までの一連の流れを管理するステートマシンです。
// 同時に進行するセッションは1つだけで、処理中のシャッター操作は無視されます。
type Controller struct {
	source  CaptureSource
	gateway Gateway
	gallery Gallery

	timing  Timing
	clock   Clock
	onEvent EventHandler
	logger  *slog.Logger
	newID   func() string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu           sync.Mutex
	emitMu       sync.Mutex
	pending      []Event
	state        State
	session      Session
	countingDown bool
	activating   bool
	closed       bool
}

// NewController は Controller を作成します。
func NewController(source CaptureSource, gateway Gateway, gallery Gallery, opts ...Option) (*Controller, error) {
	if source == nil {
		return nil, fmt.Errorf("capture source is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("generation gateway is required")
	}
	if gallery == nil {
		return nil, fmt.Errorf("gallery is required")
	}

	c := &Controller{
		source:  source,
		gateway: gateway,
		gallery: gallery,
		timing:  DefaultTiming(),
		clock:   realClock{},
		onEvent: func(Event) {},
		logger:  slog.Default(),
		newID:   newItemID,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timing.CountdownFrom < 0 {
		return nil, fmt.Errorf("countdown must not be negative: %d", c.timing.CountdownFrom)
	}
	if c.timing.PrintDelay < 0 || c.timing.CountdownTick < 0 || c.timing.DevelopDuration < 0 {
		return nil, fmt.Errorf("durations must not be negative")
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c, nil
}

// newItemID は時系列順に並ぶ UUIDv7 を返します。
func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SelectCharacter は撮影に使うキャラクターを選択します。
// 処理中に選択を変更しても、進行中のセッションのスタイルは変わりません。
func (c *Controller) SelectCharacter(ch domain.Character) {
	c.mu.Lock()
	c.session.Character = &ch
	c.logger.Info("キャラクターを選択しました", "character", ch.ID)
	c.restLocked()
	c.unlockAndFlush()
}

// Shutter はシャッターボタンの押下を処理します。
func (c *Controller) Shutter() {
	c.mu.Lock()
	if reason := c.shutterBlockedLocked(); reason != "" {
		c.logger.Debug("シャッター操作を無視しました", "reason", reason)
		c.mu.Unlock()
		return
	}

	switch {
	case c.source.HasFile():
		c.startPipelineLocked()
	case c.source.Status() != capture.StatusActive:
		c.startActivationLocked()
	case !c.source.Ready():
		c.logger.Info("カメラを準備中です")
	default:
		c.startCountdownLocked()
	}
	c.unlockAndFlush()
}

// Upload はアップロード画像を読み込みます。
// キャラクター選択済みで処理中でなければ、そのまま撮影を開始します。
func (c *Controller) Upload(data []byte) error {
	if err := c.source.LoadFromFile(data); err != nil {
		c.logger.Warn("アップロード画像を読み込めませんでした", "error", err)
		c.mu.Lock()
		c.pending = append(c.pending, Event{Kind: EventDecodeError, State: c.state, Err: err})
		c.unlockAndFlush()
		return err
	}

	c.mu.Lock()
	// 起動中のカメラはアップロード画像に置き換えられるため、待たずに撮影する
	if c.pipelineBlockedLocked() == "" {
		c.startPipelineLocked()
	} else {
		c.restLocked()
	}
	c.unlockAndFlush()
	return nil
}

// ClearUpload はアップロード画像を破棄します。
func (c *Controller) ClearUpload() {
	c.source.ClearFile()
	c.mu.Lock()
	c.restLocked()
	c.unlockAndFlush()
}

// StopCamera はカメラを停止します。
func (c *Controller) StopCamera() error {
	err := c.source.Deactivate()
	c.mu.Lock()
	c.restLocked()
	c.unlockAndFlush()
	return err
}

// State は現在の状態を返します。
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot は現在のセッションの写しを返します。
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s.Character != nil {
		ch := *s.Character
		s.Character = &ch
	}
	return s
}

// IsProcessing は撮影から登録までの処理中かどうかを返します。
func (c *Controller) IsProcessing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Processing
}

// Close は進行中の処理を取り消し、カメラを解放します。
// 登録前の生成結果は破棄されます。
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return c.source.Deactivate()
}

func (c *Controller) shutterBlockedLocked() string {
	if reason := c.pipelineBlockedLocked(); reason != "" {
		return reason
	}
	if c.activating {
		return "activating"
	}
	return ""
}

// pipelineBlockedLocked は新しい撮影を開始できない理由を返します。
func (c *Controller) pipelineBlockedLocked() string {
	switch {
	case c.closed:
		return "closed"
	case c.session.Character == nil:
		return "no character"
	case c.session.Processing:
		return "processing"
	case c.countingDown:
		return "countdown"
	}
	return ""
}

func (c *Controller) startActivationLocked() {
	c.activating = true
	c.wg.Add(1)
	go c.runActivation()
}

func (c *Controller) runActivation() {
	defer c.wg.Done()
	err := c.source.Activate(c.ctx)

	c.mu.Lock()
	c.activating = false
	switch {
	case err == nil:
		c.pending = append(c.pending, Event{Kind: EventCameraActivated, State: c.state})
	case errors.Is(err, domain.ErrInvalidOperation):
		// アップロード画像に置き換えられた
		c.logger.Debug("カメラの起動を中断しました", "error", err)
	default:
		c.pending = append(c.pending, Event{Kind: EventDeviceError, State: c.state, Err: err})
	}
	c.restLocked()
	c.unlockAndFlush()
}

func (c *Controller) startCountdownLocked() {
	c.countingDown = true
	c.session.Countdown = c.timing.CountdownFrom
	c.setStateLocked(StateCountdown)
	c.wg.Add(1)
	go c.runCountdown()
}

func (c *Controller) runCountdown() {
	defer c.wg.Done()
	for n := c.timing.CountdownFrom; n > 0; n-- {
		c.mu.Lock()
		c.session.Countdown = n
		c.pending = append(c.pending, Event{Kind: EventCountdownTick, State: c.state, Countdown: n})
		c.unlockAndFlush()

		if !c.sleep(c.timing.CountdownTick) {
			c.mu.Lock()
			c.countingDown = false
			c.session.Countdown = 0
			c.unlockAndFlush()
			return
		}
	}

	c.mu.Lock()
	c.countingDown = false
	c.session.Countdown = 0
	if c.closed {
		c.restLocked()
		c.unlockAndFlush()
		return
	}
	c.startPipelineLocked()
	c.unlockAndFlush()
}

func (c *Controller) startPipelineLocked() {
	c.session.Processing = true
	c.session.Generated = nil
	ch := *c.session.Character
	c.wg.Add(1)
	go c.runPipeline(ch)
}

// runPipeline はキャプチャ、生成、現像、登録を順に行います。
func (c *Controller) runPipeline(ch domain.Character) {
	defer c.wg.Done()

	shot, err := c.source.CaptureFrame(c.ctx)
	if err != nil {
		c.logger.Warn("フレームを取得できませんでした", "error", err)
		c.mu.Lock()
		c.session.Processing = false
		c.pending = append(c.pending, Event{Kind: EventCaptureError, State: c.state, Err: err})
		c.restLocked()
		c.unlockAndFlush()
		return
	}

	c.mu.Lock()
	c.session.Captured = &shot
	c.setStateLocked(StateCaptured)
	c.pending = append(c.pending, Event{Kind: EventShutter, State: c.state})
	c.setStateLocked(StateGenerating)
	c.unlockAndFlush()

	c.logger.Info("アバターを生成します", "character", ch.ID, "source", shot.Source.String())
	resp, err := c.gateway.Generate(c.ctx, shot, ch.StylePrompt)
	if c.ctx.Err() != nil {
		c.abandon()
		return
	}
	if err == nil && (resp == nil || len(resp.Data) == 0) {
		err = fmt.Errorf("%w: empty response", domain.ErrGenerationFailure)
	}
	if err != nil {
		c.fail(err)
		return
	}

	c.mu.Lock()
	c.session.Generated = resp
	c.setStateLocked(StatePrinted)
	c.pending = append(c.pending, Event{Kind: EventGenerated, State: c.state})
	c.unlockAndFlush()

	develop := min(c.timing.DevelopDuration, c.timing.PrintDelay)
	if !c.sleep(develop) {
		c.abandon()
		return
	}

	c.mu.Lock()
	c.setStateLocked(StateSettled)
	c.pending = append(c.pending, Event{Kind: EventSettled, State: c.state})
	c.unlockAndFlush()

	if !c.sleep(c.timing.PrintDelay - develop) {
		c.abandon()
		return
	}

	c.commit(ch, shot, *resp)
}

func (c *Controller) commit(ch domain.Character, shot domain.CapturedImage, resp domain.ImageResponse) {
	original, err := imgutil.EncodeJPEG(shot.Frame, OriginalJPEGQuality)
	if err != nil {
		c.logger.Warn("元画像をエンコードできませんでした", "error", err)
		original = nil
	}

	item, err := domain.NewCapturedItem(c.newID(), original, resp, ch.ID, c.clock.Now())
	if err == nil {
		err = c.gallery.Append(item)
	}

	c.mu.Lock()
	c.session.Processing = false
	c.session.Captured = nil
	if err != nil {
		c.logger.Error("ギャラリーに登録できませんでした", "error", err)
		c.pending = append(c.pending, Event{Kind: EventFailureNotice, State: c.state, Err: err})
	} else {
		c.logger.Info("ギャラリーに登録しました", "id", item.ID, "character", ch.ID)
		c.pending = append(c.pending, Event{Kind: EventCommitted, State: c.state, Item: &item})
	}
	c.restLocked()
	c.unlockAndFlush()
}

func (c *Controller) fail(err error) {
	if !errors.Is(err, domain.ErrGenerationFailure) {
		err = fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}
	c.logger.Error("アバター生成に失敗しました", "error", err)

	c.mu.Lock()
	c.session.Processing = false
	c.session.Captured = nil
	c.pending = append(c.pending, Event{Kind: EventFailureNotice, State: c.state, Err: err})
	c.restLocked()
	c.unlockAndFlush()
}

// abandon は Close によって中断されたセッションを片付けます。
func (c *Controller) abandon() {
	c.mu.Lock()
	c.session.Processing = false
	c.session.Captured = nil
	c.session.Generated = nil
	c.restLocked()
	c.unlockAndFlush()
}

// sleep は d だけ待ちます。Close された場合は false を返します。
func (c *Controller) sleep(d time.Duration) bool {
	if d <= 0 {
		return c.ctx.Err() == nil
	}
	select {
	case <-c.clock.After(d):
		return true
	case <-c.ctx.Done():
		return false
	}
}

// restLocked は処理中でなければ待機状態に戻します。
func (c *Controller) restLocked() {
	if c.session.Processing || c.countingDown {
		return
	}
	c.setStateLocked(c.restingStateLocked())
}

func (c *Controller) restingStateLocked() State {
	switch {
	case c.session.Character == nil:
		return StateIdle
	case c.source.HasFile(), c.source.Status() == capture.StatusActive:
		return StateArmed
	default:
		return StateReady
	}
}

func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.logger.Debug("状態が遷移しました", "from", c.state.String(), "to", s.String())
	c.state = s
	c.pending = append(c.pending, Event{Kind: EventStateChanged, State: s})
}

// unlockAndFlush は溜まったイベントを取り出してロックを解放し、発生順に通知します。
func (c *Controller) unlockAndFlush() {
	events := c.pending
	c.pending = nil
	c.emitMu.Lock()
	c.mu.Unlock()
	defer c.emitMu.Unlock()
	for _, e := range events {
		c.onEvent(e)
	}
}
