// Package memegen renders impact-style top/bottom captions onto an image.
// It is the local fallback for the hosted captioning API: same inputs, PNG
// bytes out.
package memegen

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/nfnt/resize"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// canvasWidth is the width every template is normalized to before
	// captions are drawn, so font sizing is predictable.
	canvasWidth = 600
	fontSize    = 42
	margin      = 12
	outline     = 2
)

// Compose draws the captions onto the template and returns the result as
// PNG bytes. Either caption may be empty.
func Compose(template image.Image, topText, bottomText string) ([]byte, error) {
	img := resize.Resize(canvasWidth, 0, template, resize.Lanczos3)
	width := float64(img.Bounds().Dx())
	height := float64(img.Bounds().Dy())

	dc := gg.NewContextForImage(img)

	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse caption font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(parsed, &truetype.Options{Size: fontSize}))

	if topText != "" {
		drawCaption(dc, strings.ToUpper(topText), width/2, margin, 0, width)
	}
	if bottomText != "" {
		drawCaption(dc, strings.ToUpper(bottomText), width/2, height-margin, 1, width)
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode meme: %w", err)
	}
	return buf.Bytes(), nil
}

// drawCaption draws white text with a black outline, wrapped to the canvas
// width. ay selects the vertical anchor: 0 for top edge, 1 for bottom.
func drawCaption(dc *gg.Context, text string, x, y, ay, width float64) {
	dc.SetRGB(0, 0, 0)
	for dx := -outline; dx <= outline; dx++ {
		for dy := -outline; dy <= outline; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			dc.DrawStringWrapped(text, x+float64(dx), y+float64(dy), 0.5, ay, width-2*margin, 1.2, gg.AlignCenter)
		}
	}
	dc.SetRGB(1, 1, 1)
	dc.DrawStringWrapped(text, x, y, 0.5, ay, width-2*margin, 1.2, gg.AlignCenter)
}
