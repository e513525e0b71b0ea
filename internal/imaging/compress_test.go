package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeTestImage(t *testing.T, width, height int, format string) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		t.Fatalf("Unexpected error encoding test image: %v", err)
	}
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Unexpected error decoding variant: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("Expected a jpeg variant, got %s", format)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestCompress_ReportsOriginalDimensions(t *testing.T) {
	data := encodeTestImage(t, 640, 480, "jpeg")

	compressed, err := Compress(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if compressed.Width != 640 || compressed.Height != 480 {
		t.Errorf("Expected 640x480, got %dx%d", compressed.Width, compressed.Height)
	}
}

func TestCompress_BoundsVariants(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"landscape larger than both bounds", 4000, 3000},
		{"portrait larger than both bounds", 1500, 2500},
		{"smaller than the full bound", 800, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeTestImage(t, tt.width, tt.height, "jpeg")

			compressed, err := Compress(data)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			fullW, fullH := decodeDims(t, compressed.Full)
			if fullW > FullMaxDimension || fullH > FullMaxDimension {
				t.Errorf("Full variant %dx%d exceeds the %d bound", fullW, fullH, FullMaxDimension)
			}

			thumbW, thumbH := decodeDims(t, compressed.Thumb)
			if thumbW > ThumbMaxDimension || thumbH > ThumbMaxDimension {
				t.Errorf("Thumb variant %dx%d exceeds the %d bound", thumbW, thumbH, ThumbMaxDimension)
			}

			// Aspect ratio preserved within rounding
			wantRatio := float64(tt.width) / float64(tt.height)
			gotRatio := float64(fullW) / float64(fullH)
			if gotRatio/wantRatio > 1.02 || wantRatio/gotRatio > 1.02 {
				t.Errorf("Full variant ratio %f drifted from %f", gotRatio, wantRatio)
			}
		})
	}
}

func TestCompress_SmallImageNotUpscaled(t *testing.T) {
	data := encodeTestImage(t, 300, 200, "jpeg")

	compressed, err := Compress(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	fullW, fullH := decodeDims(t, compressed.Full)
	if fullW != 300 || fullH != 200 {
		t.Errorf("Expected the small image untouched at 300x200, got %dx%d", fullW, fullH)
	}
	thumbW, thumbH := decodeDims(t, compressed.Thumb)
	if thumbW != 300 || thumbH != 200 {
		t.Errorf("Expected the thumb untouched at 300x200, got %dx%d", thumbW, thumbH)
	}
}

func TestCompress_AcceptsPNG(t *testing.T) {
	data := encodeTestImage(t, 1024, 768, "png")

	compressed, err := Compress(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Variants are always JPEG regardless of the source format
	decodeDims(t, compressed.Full)
	decodeDims(t, compressed.Thumb)
}

func TestCompress_RejectsGarbage(t *testing.T) {
	if _, err := Compress([]byte("not an image at all")); err == nil {
		t.Error("Expected an error for undecodable bytes")
	}
}
