package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	_ "image/jpeg" // bridge screenshots may arrive as JPEG

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/uipilot/uipilot/internal/model"
)

var (
	boxColor     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	labelColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// Annotate draws each element's bounding box and number onto the screenshot
// so a visual-reasoning consumer can reference elements by the same numbers
// the planner sees. Returns the annotated image as PNG.
func Annotate(screenshot []byte, elements map[int]model.Element) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(screenshot))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	rgba := toRGBA(img)
	for n, el := range elements {
		drawElementBox(rgba, n, el)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("encode labeled screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

func drawElementBox(img *image.RGBA, number int, el model.Element) {
	x, y, w, h := el.Bounds[0], el.Bounds[1], el.Bounds[2], el.Bounds[3]
	drawRect(img, x, y, x+w, y+h, boxColor)

	label := fmt.Sprintf("[%d]", number)
	cx, cy := el.Center()
	drawLabel(img, label, cx, cy)
}

// drawRect draws a one-pixel rectangle outline clamped to the image.
func drawRect(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	b := img.Bounds()
	if x1 < b.Min.X {
		x1 = b.Min.X
	}
	if y1 < b.Min.Y {
		y1 = b.Min.Y
	}
	if x2 > b.Max.X {
		x2 = b.Max.X
	}
	if y2 > b.Max.Y {
		y2 = b.Max.Y
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}

// drawLabel draws text centered at (x, y) with a dark outline so the number
// stays readable on any background.
func drawLabel(img *image.RGBA, text string, x, y int) {
	// basicfont.Face7x13: ~7px per character, 13px tall
	offsetX := x - len(text)*7/2
	offsetY := y + 13/2

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(img, text, offsetX+dx, offsetY+dy, outlineColor)
		}
	}
	drawString(img, text, offsetX, offsetY, labelColor)
}

func drawString(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(text)
}
