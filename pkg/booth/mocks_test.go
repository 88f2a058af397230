package booth

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-avatar-booth/pkg/capture"
	"github.com/shouni/gemini-avatar-booth/pkg/domain"
)

// --- Clock ---

type manualTimer struct {
	at time.Time
	ch chan time.Time
}

type manualClock struct {
	mu        sync.Mutex
	now       time.Time
	timers    []manualTimer
	durations []time.Duration
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (m *manualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualClock) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan time.Time, 1)
	m.durations = append(m.durations, d)
	if d <= 0 {
		ch <- m.now
		return ch
	}
	m.timers = append(m.timers, manualTimer{at: m.now.Add(d), ch: ch})
	return ch
}

// Advance は時刻を進め、期限を迎えたタイマーを発火させます。
func (m *manualClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	keep := m.timers[:0]
	for _, t := range m.timers {
		if t.at.After(m.now) {
			keep = append(keep, t)
			continue
		}
		t.ch <- m.now
	}
	m.timers = keep
}

func (m *manualClock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *manualClock) Durations() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.durations...)
}

// hookClock は After が呼ばれた時点で hook を実行し、即座に発火するタイマーを返します。
type hookClock struct {
	*manualClock
	hook func(d time.Duration)
}

func (h *hookClock) After(d time.Duration) <-chan time.Time {
	if h.hook != nil {
		h.hook(d)
	}
	ch := make(chan time.Time, 1)
	ch <- h.Now()
	return ch
}

// --- Gateway ---

type fakeGateway struct {
	mu     sync.Mutex
	calls  int
	shots  []domain.CapturedImage
	styles []string
	fn     func(ctx context.Context) (*domain.ImageResponse, error)
}

func (g *fakeGateway) Generate(ctx context.Context, img domain.CapturedImage, style string) (*domain.ImageResponse, error) {
	g.mu.Lock()
	g.calls++
	g.shots = append(g.shots, img)
	g.styles = append(g.styles, style)
	fn := g.fn
	g.mu.Unlock()
	if fn == nil {
		return &domain.ImageResponse{Data: []byte("avatar"), MimeType: "image/png"}, nil
	}
	return fn(ctx)
}

func (g *fakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *fakeGateway) Styles() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.styles...)
}

func (g *fakeGateway) Shots() []domain.CapturedImage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.CapturedImage(nil), g.shots...)
}

// --- Events ---

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) find(kind EventKind) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []State
	for _, e := range r.events {
		if e.Kind == EventStateChanged {
			out = append(out, e.State)
		}
	}
	return out
}

func (r *recorder) ticks() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int
	for _, e := range r.events {
		if e.Kind == EventCountdownTick {
			out = append(out, e.Countdown)
		}
	}
	return out
}

// --- Media device ---

type fakeStream struct {
	mu     sync.Mutex
	frame  image.Image
	ready  bool
	closed bool
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
	return s.ready && !s.closed
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeStream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeDevice struct {
	mu     sync.Mutex
	stream *fakeStream
	err    error
	opened int
	// gate が設定されている場合、Open はそれが閉じられるまでブロックします
	gate chan struct{}
}

func (d *fakeDevice) Open(ctx context.Context, c capture.Constraints) (capture.Stream, error) {
	d.mu.Lock()
	d.opened++
	gate := d.gate
	d.mu.Unlock()
	if gate != nil {
		<-gate
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	return d.stream, nil
}

func (d *fakeDevice) Opened() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opened
}

// --- Helpers ---

var (
	ahri = domain.Character{ID: "ahri", Name: "Ahri", Category: "League of Legends", StylePrompt: "nine-tailed fox, glowing orb"}
	jett = domain.Character{ID: "jett", Name: "Jett", Category: "Valorant", StylePrompt: "white hair, wind dash"}
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func cameraFrame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 640, 480))
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 2*time.Millisecond, msg)
}
