package memegen

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testTemplate() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	for x := 0; x < 300; x++ {
		for y := 0; y < 200; y++ {
			img.Set(x, y, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	return img
}

func TestComposeProducesNormalizedPNG(t *testing.T) {
	data, err := Compose(testTemplate(), "top text", "bottom text")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Compose output is not a PNG: %v", err)
	}
	if got := decoded.Bounds().Dx(); got != canvasWidth {
		t.Fatalf("width = %d, want %d", got, canvasWidth)
	}
	// 300x200 scaled to width 600 keeps the aspect ratio.
	if got := decoded.Bounds().Dy(); got != 400 {
		t.Fatalf("height = %d, want 400", got)
	}
}

func TestComposeWithEmptyCaptions(t *testing.T) {
	data, err := Compose(testTemplate(), "", "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if _, err = png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("Compose output is not a PNG: %v", err)
	}
}

func TestComposeDrawsCaption(t *testing.T) {
	plain, err := Compose(testTemplate(), "", "")
	if err != nil {
		t.Fatalf("Compose plain: %v", err)
	}
	captioned, err := Compose(testTemplate(), "HELLO", "")
	if err != nil {
		t.Fatalf("Compose captioned: %v", err)
	}
	if bytes.Equal(plain, captioned) {
		t.Fatal("caption left the image unchanged")
	}
}
