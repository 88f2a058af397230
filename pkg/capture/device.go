package capture

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/shouni/gemini-avatar-booth/pkg/imgutil"
)

// FacingUser はフロントカメラを要求する facing mode です。
const FacingUser = "user"

// Constraints はカメラ映像に要求する条件です。
type Constraints struct {
	FacingMode  string
	IdealWidth  int
	IdealHeight int
}

// DefaultConstraints は 720×720 のフロントカメラを要求します。
func DefaultConstraints() Constraints {
	return Constraints{FacingMode: FacingUser, IdealWidth: 720, IdealHeight: 720}
}

// MediaDevice はカメラ映像へのアクセスを提供します。
// 権限拒否やデバイス不在の場合はエラーを返します。
type MediaDevice interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// Stream は取得済みのライブ映像です。Close で必ず解放してください。
type Stream interface {
	// Frame は現在表示中のフレームを返します。
	Frame(ctx context.Context) (image.Image, error)
	// Ready はフレームを取得できる状態かどうかを返します。
	Ready() bool
	Close() error
}

// HTTPClient は URL からバイト列を取得します。httpkit.ClientInterface が満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// SnapshotDevice はネットワークカメラのスナップショットURLをライブ映像として扱います。
type SnapshotDevice struct {
	client HTTPClient
	url    string
}

// NewSnapshotDevice は SnapshotDevice を初期化します。
func NewSnapshotDevice(client HTTPClient, url string) (*SnapshotDevice, error) {
	if client == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if url == "" {
		return nil, fmt.Errorf("snapshot url is required")
	}
	return &SnapshotDevice{client: client, url: url}, nil
}

// Open は最初のスナップショットを取得できた時点でストリームを返します。
func (d *SnapshotDevice) Open(ctx context.Context, _ Constraints) (Stream, error) {
	s := &snapshotStream{device: d}
	if _, err := s.Frame(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

type snapshotStream struct {
	device *SnapshotDevice

	mu     sync.Mutex
	last   image.Image
	closed bool
}

func (s *snapshotStream) Frame(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("snapshot stream is closed")
	}
	s.mu.Unlock()

	data, err := s.device.client.FetchBytes(ctx, s.device.url)
	if err != nil {
		return nil, fmt.Errorf("スナップショットの取得に失敗しました: %w", err)
	}
	img, _, err := imgutil.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("スナップショットのデコードに失敗しました: %w", err)
	}

	s.mu.Lock()
	s.last = img
	s.mu.Unlock()
	return img, nil
}

func (s *snapshotStream) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.last != nil
}

func (s *snapshotStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.last = nil
	return nil
}
