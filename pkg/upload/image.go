package upload

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// Standard output sizes for the two image kinds the profile records.
const (
	AvatarMaxDim  = 400
	AppIconMaxDim = 64
)

// NormalizeImage decodes an uploaded image, shrinks it to fit maxDim (never
// upscales) and re-encodes it as PNG. Returns the encoded bytes so callers
// know the exact size to record.
func NormalizeImage(r io.Reader, maxDim int) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > maxDim || b.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
