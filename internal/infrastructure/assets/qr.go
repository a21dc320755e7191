package assets

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const qrSizePx = 320

// encodeQR genera un PNG con el QR de content.
func encodeQR(content string) ([]byte, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("assets: codificar QR: %w", err)
	}
	code, err = barcode.Scale(code, qrSizePx, qrSizePx)
	if err != nil {
		return nil, fmt.Errorf("assets: escalar QR: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("assets: PNG del QR: %w", err)
	}
	return buf.Bytes(), nil
}
