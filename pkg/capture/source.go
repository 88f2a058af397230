package capture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/shouni/gemini-avatar-booth/pkg/domain"
	"github.com/shouni/gemini-avatar-booth/pkg/imgutil"
)

// Status はキャプチャソースの状態です。
type Status int

const (
	StatusInactive Status = iota
	StatusActivating
	StatusActive
	StatusError
	StatusFile
)

func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusActivating:
		return "activating"
	case StatusActive:
		return "active"
	case StatusError:
		return "error"
	case StatusFile:
		return "file"
	default:
		return "unknown"
	}
}

// Option は Source の設定を変更します。
type Option func(*Source)

// WithOutputSize はキャプチャ画像の一辺を指定します。
func WithOutputSize(size int) Option {
	return func(s *Source) {
		if size > 0 {
			s.outputSize = size
		}
	}
}

// WithConstraints はカメラに要求する条件を指定します。
func WithConstraints(c Constraints) Option {
	return func(s *Source) { s.constraints = c }
}

// WithLogger はロガーを指定します。
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// Source はライブ映像またはアップロード画像のどちらか一方を保持するキャプチャ元です。
// 同時に有効なのは常に一方だけで、ファイルが優先されます。
type Source struct {
	device      MediaDevice
	constraints Constraints
	outputSize  int
	logger      *slog.Logger
	now         func() time.Time

	mu      sync.Mutex
	status  Status
	stream  Stream
	file    image.Image
	lastErr error
	// generation はソースが差し替えられるたびに進み、
	// 差し替え前に開始された Activate の結果を破棄するために使います。
	generation uint64
}

// NewSource は Source を初期化します。device が nil の場合、カメラは常に利用不可になります。
func NewSource(device MediaDevice, opts ...Option) *Source {
	s := &Source{
		device:      device,
		constraints: DefaultConstraints(),
		outputSize:  DefaultOutputSize,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Activate はカメラ映像の取得を要求します。失敗しても自動で再試行はしません。
func (s *Source) Activate(ctx context.Context) error {
	s.mu.Lock()
	if s.file != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: an uploaded image is loaded", domain.ErrInvalidOperation)
	}
	if s.status == StatusActive || s.status == StatusActivating {
		s.mu.Unlock()
		return nil
	}
	if s.device == nil {
		s.status = StatusError
		s.lastErr = fmt.Errorf("%w: no media device configured", domain.ErrDeviceUnavailable)
		err := s.lastErr
		s.mu.Unlock()
		return err
	}
	s.status = StatusActivating
	s.lastErr = nil
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	stream, err := s.device.Open(ctx, s.constraints)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// 権限待ちの間にファイル読み込みや停止が行われた
		if stream != nil {
			s.closeStream(stream)
		}
		return fmt.Errorf("%w: source was replaced during activation", domain.ErrInvalidOperation)
	}
	if err != nil {
		s.status = StatusError
		s.lastErr = fmt.Errorf("%w: %w", domain.ErrDeviceUnavailable, err)
		s.logger.Warn("カメラの起動に失敗しました", "error", err)
		return s.lastErr
	}
	s.stream = stream
	s.status = StatusActive
	s.logger.Info("カメラを起動しました", "ideal_width", s.constraints.IdealWidth, "ideal_height", s.constraints.IdealHeight)
	return nil
}

// Deactivate はカメラを解放します。ファイルが読み込まれている場合はそのまま残ります。
func (s *Source) Deactivate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	err := s.releaseLocked()
	if s.file == nil {
		s.status = StatusInactive
	}
	return err
}

// LoadFromFile はアップロード画像をデコードし、ライブ映像を置き換えます。
// デコードに失敗した場合は以前の状態を維持します。
func (s *Source) LoadFromFile(data []byte) error {
	img, format, err := imgutil.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDecodeFailure, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if err := s.releaseLocked(); err != nil {
		s.logger.Warn("カメラの解放に失敗しました", "error", err)
	}
	s.file = img
	s.status = StatusFile
	s.lastErr = nil
	b := img.Bounds()
	s.logger.Info("アップロード画像を読み込みました", "format", format, "width", b.Dx(), "height", b.Dy())
	return nil
}

// ClearFile はアップロード画像を破棄して非アクティブに戻します。
func (s *Source) ClearFile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return
	}
	s.file = nil
	s.status = StatusInactive
}

// CaptureFrame は現在のフレームから正方形の画像を作成します。
// ライブ映像の場合のみ左右反転します。
func (s *Source) CaptureFrame(ctx context.Context) (domain.CapturedImage, error) {
	s.mu.Lock()
	file, stream, size := s.file, s.stream, s.outputSize
	s.mu.Unlock()

	var (
		frame image.Image
		kind  domain.SourceKind
	)
	switch {
	case file != nil:
		frame, kind = file, domain.SourceUpload
	case stream != nil && stream.Ready():
		f, err := stream.Frame(ctx)
		if err != nil {
			return domain.CapturedImage{}, fmt.Errorf("%w: %w", domain.ErrNoFrame, err)
		}
		frame, kind = f, domain.SourceCamera
	default:
		return domain.CapturedImage{}, domain.ErrNoFrame
	}

	if b := frame.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return domain.CapturedImage{}, domain.ErrNoFrame
	}

	return domain.CapturedImage{
		Frame:      SquareCrop(frame, size, kind == domain.SourceCamera),
		Source:     kind,
		CapturedAt: s.now(),
	}, nil
}

// Status は現在の状態を返します。
func (s *Source) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err は直近のカメラエラーを返します。
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// HasFile はアップロード画像が読み込まれているかを返します。
func (s *Source) HasFile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file != nil
}

// Ready はシャッターを切れる状態かどうかを返します。
func (s *Source) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		return true
	}
	return s.stream != nil && s.stream.Ready()
}

func (s *Source) releaseLocked() error {
	if s.stream == nil {
		return nil
	}
	stream := s.stream
	s.stream = nil
	return s.closeStream(stream)
}

func (s *Source) closeStream(stream Stream) error {
	if err := stream.Close(); err != nil {
		return fmt.Errorf("ストリームの解放に失敗しました: %w", err)
	}
	return nil
}
