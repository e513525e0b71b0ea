package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

const (
	// Bounding dimension for the full-size variant
	FullMaxDimension = 1920
	// Bounding dimension for the thumbnail variant
	ThumbMaxDimension = 400

	fullQuality  = 80
	thumbQuality = 60
)

// Compressed holds both resized JPEG variants of an uploaded image plus the
// original dimensions. Each variant is derived from the original bytes, not
// chained, so the thumbnail avoids double quality loss.
type Compressed struct {
	Full   []byte
	Thumb  []byte
	Width  int
	Height int
}

// Compress decodes the original image and produces the full and thumbnail
// JPEG variants.
func Compress(data []byte) (*Compressed, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	full, err := encodeBounded(img, FullMaxDimension, fullQuality)
	if err != nil {
		return nil, fmt.Errorf("error encoding full variant: %w", err)
	}

	thumb, err := encodeBounded(img, ThumbMaxDimension, thumbQuality)
	if err != nil {
		return nil, fmt.Errorf("error encoding thumbnail variant: %w", err)
	}

	return &Compressed{
		Full:   full,
		Thumb:  thumb,
		Width:  width,
		Height: height,
	}, nil
}

func encodeBounded(img image.Image, maxDimension uint, quality int) ([]byte, error) {
	resized := resize.Thumbnail(maxDimension, maxDimension, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
