package scanner

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type stubSource struct {
	frames chan image.Image

	mu     sync.Mutex
	closed int
}

func newStubSource() *stubSource {
	return &stubSource{frames: make(chan image.Image)}
}

func (s *stubSource) Frames() <-chan image.Image { return s.frames }

func (s *stubSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *stubSource) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// stubDecoder returns the code stashed in the frame's bounds: frames are
// tagged by their width via codeFrame.
type stubDecoder struct{}

type codeFrame struct {
	image.Image
	code string
}

func frameWith(code string) image.Image {
	return codeFrame{Image: image.NewGray(image.Rect(0, 0, 1, 1)), code: code}
}

func (stubDecoder) Decode(img image.Image) (string, error) {
	if cf, ok := img.(codeFrame); ok {
		return cf.code, nil
	}
	return "", nil
}

type stubValidator struct {
	calls atomic.Int64
	ok    bool
	msg   string
}

func (v *stubValidator) Validate(ctx context.Context, qrCode, scannerID string) (bool, string) {
	v.calls.Add(1)
	return v.ok, v.msg
}

func startPipeline(t *testing.T, debounce time.Duration, validator Validator) (*Pipeline, *stubSource) {
	t.Helper()
	source := newStubSource()
	p := NewPipeline(source, stubDecoder{}, validator, "scanner-1", debounce, zap.NewNop())
	p.Start(context.Background())
	t.Cleanup(p.Close)
	return p, source
}

func awaitResult(t *testing.T, p *Pipeline) Result {
	t.Helper()
	select {
	case r := <-p.Results():
		return r
	case <-time.After(2 * time.Second):
		t.Fatalf("no result")
	}
	return Result{}
}

func TestScanHappyPath(t *testing.T) {
	validator := &stubValidator{ok: true, msg: "Ticket valid, entry granted"}
	p, source := startPipeline(t, 50*time.Millisecond, validator)

	source.frames <- frameWith("QR_abc")

	res := awaitResult(t, p)
	if !res.Success || res.Code != "QR_abc" {
		t.Fatalf("result = %+v", res)
	}
	if got := p.State(); got != StateResult {
		t.Fatalf("state = %s, want result", got)
	}

	p.ScanNext()
	if got := p.State(); got != StateScanning {
		t.Fatalf("state after ScanNext = %s, want scanning", got)
	}
}

func TestDebounceSwallowsRapidRepeats(t *testing.T) {
	validator := &stubValidator{ok: true, msg: "ok"}
	p, source := startPipeline(t, 200*time.Millisecond, validator)

	source.frames <- frameWith("QR_abc")
	awaitResult(t, p)
	p.ScanNext()

	// still inside the debounce window: decoded but not accepted
	source.frames <- frameWith("QR_abc")
	time.Sleep(50 * time.Millisecond)
	if n := validator.calls.Load(); n != 1 {
		t.Fatalf("validator called %d times inside debounce window, want 1", n)
	}

	// past the window the next decode is accepted again
	time.Sleep(200 * time.Millisecond)
	source.frames <- frameWith("QR_abc")
	awaitResult(t, p)
	if n := validator.calls.Load(); n != 2 {
		t.Fatalf("validator called %d times after window, want 2", n)
	}
}

func TestFramesIgnoredWhileResultShown(t *testing.T) {
	validator := &stubValidator{ok: true, msg: "ok"}
	p, source := startPipeline(t, time.Millisecond, validator)

	source.frames <- frameWith("QR_abc")
	awaitResult(t, p)

	// no ScanNext: the pipeline holds the result and drops frames
	source.frames <- frameWith("QR_def")
	time.Sleep(50 * time.Millisecond)
	if n := validator.calls.Load(); n != 1 {
		t.Fatalf("validator called %d times without ScanNext, want 1", n)
	}
}

func TestValidatorFailureIsResult(t *testing.T) {
	validator := &stubValidator{ok: false, msg: "Network error, ticket not validated"}
	p, source := startPipeline(t, time.Millisecond, validator)

	source.frames <- frameWith("QR_abc")
	res := awaitResult(t, p)
	if res.Success {
		t.Fatalf("failure reported as success")
	}
	if res.Message != "Network error, ticket not validated" {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestCloseUnbindsSourceOnce(t *testing.T) {
	validator := &stubValidator{ok: true}
	source := newStubSource()
	p := NewPipeline(source, stubDecoder{}, validator, "scanner-1", time.Millisecond, zap.NewNop())
	p.Start(context.Background())

	p.Close()
	p.Close()

	if n := source.closeCount(); n != 1 {
		t.Fatalf("source closed %d times, want 1", n)
	}
	if got := p.State(); got != StateIdle {
		t.Fatalf("state after close = %s, want idle", got)
	}
}

func TestSourceExhaustionShutsDown(t *testing.T) {
	validator := &stubValidator{ok: true}
	source := newStubSource()
	p := NewPipeline(source, stubDecoder{}, validator, "scanner-1", time.Millisecond, zap.NewNop())
	p.Start(context.Background())

	close(source.frames)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if source.closeCount() == 1 && p.State() == StateIdle {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("pipeline did not shut down after source exhaustion")
}
