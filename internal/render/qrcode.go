package render

import (
	"image"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 160

// QRCode caches the QR image of the last payload it was asked for. The HUD
// asks every frame; the code is only re-encoded when the payload changes.
type QRCode struct {
	payload string
	sizePx  int
	img     image.Image
}

// Image returns the QR code for payload at sizePx. An empty payload yields
// nil.
func (q *QRCode) Image(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}
	if q.img != nil && payload == q.payload && sizePx == q.sizePx {
		return q.img, nil
	}

	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	code.DisableBorder = true
	q.payload, q.sizePx, q.img = payload, sizePx, code.Image(sizePx)
	return q.img, nil
}
