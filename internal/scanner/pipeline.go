package scanner

import (
	"context"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type State string

const (
	StateIdle               State = "idle"
	StateScanning           State = "scanning"
	StateAwaitingValidation State = "awaitingValidation"
	StateResult             State = "result"
)

// Result is the outcome shown on the scanning device. Failure covers
// rejected tickets and transport problems alike.
type Result struct {
	Success bool
	Message string
	Code    string
}

// FrameSource delivers camera frames. Close unbinds the device.
type FrameSource interface {
	Frames() <-chan image.Image
	Close() error
}

// Decoder extracts a QR payload from one frame.
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// Validator checks a decoded code against the backend. It never returns
// an error: transport and parse failures come back as a failed result
// with a diagnostic message.
type Validator interface {
	Validate(ctx context.Context, qrCode, scannerID string) (bool, string)
}

// Pipeline drives one scanning device. All frame work happens on a
// single worker; frames are conflated so at most one is in flight and
// intermediates are dropped, never queued.
type Pipeline struct {
	source    FrameSource
	decoder   Decoder
	validator Validator
	scannerID string
	debounce  time.Duration
	log       *zap.Logger

	frames  chan image.Image
	results chan Result

	mu           sync.Mutex
	state        State
	lastAccepted time.Time

	group    singleflight.Group
	cancel   context.CancelFunc
	done     chan struct{}
	shutOnce sync.Once
}

func NewPipeline(source FrameSource, decoder Decoder, validator Validator, scannerID string, debounce time.Duration, log *zap.Logger) *Pipeline {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Pipeline{
		source:    source,
		decoder:   decoder,
		validator: validator,
		scannerID: scannerID,
		debounce:  debounce,
		log:       log.With(zap.String("component", "scan_pipeline"), zap.String("scanner_id", scannerID)),
		frames:    make(chan image.Image, 1),
		results:   make(chan Result, 1),
		done:      make(chan struct{}),
		state:     StateIdle,
	}
}

// Start binds the frame source and begins scanning.
func (p *Pipeline) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.mu.Lock()
	p.state = StateScanning
	p.mu.Unlock()

	go p.forward(runCtx)
	go p.run(runCtx)
}

// Results yields validation outcomes, latest-only.
func (p *Pipeline) Results() <-chan Result { return p.results }

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ScanNext dismisses the shown result and resumes scanning.
func (p *Pipeline) ScanNext() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateResult {
		p.state = StateScanning
	}
}

// Close stops the worker and unbinds the frame source. Idempotent, and
// also invoked on every internal exit path.
func (p *Pipeline) Close() {
	p.shutdown()
	<-p.done
}

func (p *Pipeline) shutdown() {
	p.shutOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
		} else {
			// never started; nothing will close done for us
			close(p.done)
		}
		if err := p.source.Close(); err != nil {
			p.log.Warn("Frame source close failed", zap.Error(err))
		}
		p.mu.Lock()
		p.state = StateIdle
		p.mu.Unlock()
	})
}

// forward conflates source frames into the worker's single slot: a new
// frame replaces an untaken older one.
func (p *Pipeline) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-p.source.Frames():
			if !ok {
				close(p.frames)
				return
			}
			for sent := false; !sent; {
				select {
				case p.frames <- frame:
					sent = true
				default:
					select {
					case <-p.frames:
					default:
					}
				}
			}
		}
	}
}

func (p *Pipeline) run(ctx context.Context) {
	defer close(p.done)
	defer p.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-p.frames:
			if !ok {
				return
			}
			p.process(ctx, frame)
		}
	}
}

func (p *Pipeline) process(ctx context.Context, frame image.Image) {
	p.mu.Lock()
	if p.state != StateScanning {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	code, err := p.decoder.Decode(frame)
	if err != nil || code == "" {
		// not every frame holds a code; keep scanning
		return
	}

	p.mu.Lock()
	if time.Since(p.lastAccepted) < p.debounce {
		p.mu.Unlock()
		return
	}
	p.lastAccepted = time.Now()
	p.state = StateAwaitingValidation
	p.mu.Unlock()

	// duplicate accepts of the same code share one backend call
	v, _, _ := p.group.Do(code, func() (any, error) {
		ok, msg := p.validator.Validate(ctx, code, p.scannerID)
		return Result{Success: ok, Message: msg, Code: code}, nil
	})
	result := v.(Result)

	p.mu.Lock()
	p.state = StateResult
	p.mu.Unlock()

	p.log.Info("Scan validated",
		zap.String("code", result.Code),
		zap.Bool("success", result.Success),
	)

	p.emit(result)
}

func (p *Pipeline) emit(result Result) {
	for {
		select {
		case p.results <- result:
			return
		default:
			select {
			case <-p.results:
			default:
			}
		}
	}
}
