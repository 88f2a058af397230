package capture

import (
	"context"
	"errors"
	"image"
	"sync"
)

// --- Mocks ---

type fakeStream struct {
	mu     sync.Mutex
	frame  image.Image
	ready  bool
	closed int
}

func (s *fakeStream) Frame(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame == nil {
		return nil, errors.New("no frame")
	}
	return s.frame, nil
}

func (s *fakeStream) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready && s.closed == 0
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeStream) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeDevice struct {
	stream  *fakeStream
	err     error
	opened  int
	lastReq Constraints
	// gate が設定されている場合、Open はそれが閉じられるまでブロックします
	gate chan struct{}
}

func (d *fakeDevice) Open(ctx context.Context, c Constraints) (Stream, error) {
	d.opened++
	d.lastReq = c
	if d.gate != nil {
		<-d.gate
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.stream, nil
}

type mockHTTPClient struct {
	data  []byte
	err   error
	calls int
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.data, m.err
}
