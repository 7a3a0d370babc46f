package scanner

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	qrgen "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

func qrFrame(t *testing.T, code string) image.Image {
	t.Helper()
	buf, err := qrgen.Encode(code, qrgen.Medium, 256)
	if err != nil {
		t.Fatalf("encode qr: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

func TestQRDecoderReadsGeneratedCode(t *testing.T) {
	const code = "QR_0b8e2c1f-2a69-4f34-9f51-6f0a4a3c9d2e"

	got, err := NewQRDecoder().Decode(qrFrame(t, code))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != code {
		t.Fatalf("decoded %q, want %q", got, code)
	}
}

func TestQRDecoderRejectsBlankFrame(t *testing.T) {
	blank := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}

	if _, err := NewQRDecoder().Decode(blank); err == nil {
		t.Fatalf("blank frame decoded without error")
	}
}

func TestPipelineScansRealFrame(t *testing.T) {
	const code = "QR_9d3f7a52-1c44-4e0b-8a17-b5d2e6f01c3a"

	validator := &stubValidator{ok: true, msg: "Ticket valid, entry granted"}
	source := newStubSource()
	p := NewPipeline(source, NewQRDecoder(), validator, "scanner-1", 50*time.Millisecond, zap.NewNop())
	p.Start(context.Background())
	t.Cleanup(p.Close)

	source.frames <- qrFrame(t, code)

	r := awaitResult(t, p)
	if !r.Success || r.Code != code {
		t.Fatalf("result = %+v, want success for %s", r, code)
	}
}
