package scanner

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// QRDecoder wraps the zxing QR reader. A frame without a readable code
// decodes to an error, which the pipeline treats as "keep scanning".
type QRDecoder struct {
	reader gozxing.Reader
}

func NewQRDecoder() *QRDecoder {
	return &QRDecoder{reader: qrcode.NewQRCodeReader()}
}

func (d *QRDecoder) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("bitmap from frame: %w", err)
	}

	result, err := d.reader.Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("decode frame: %w", err)
	}

	return result.GetText(), nil
}
