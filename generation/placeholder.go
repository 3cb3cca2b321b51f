package generation

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderPlaceholder draws a PNG used when the remote generation fails: a
// dark card with the error text burned in, so the CLI still leaves a file
// on disk.
func RenderPlaceholder(width, height int, lines []string) ([]byte, error) {
	if width <= 0 {
		width = 512
	}
	if height <= 0 {
		height = 512
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := color.RGBA{R: 24, G: 26, B: 38, A: 255}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	// Thin border, same as the card styling in the web UI.
	border := color.RGBA{R: 79, G: 172, B: 254, A: 255}
	for x := 0; x < width; x++ {
		img.Set(x, 0, border)
		img.Set(x, height-1, border)
	}
	for y := 0; y < height; y++ {
		img.Set(0, y, border)
		img.Set(width-1, y, border)
	}

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	lineHeight := face.Metrics().Height.Ceil() + 4
	y := height/2 - (len(lines)-1)*lineHeight/2
	for _, line := range lines {
		w := drawer.MeasureString(line).Ceil()
		drawer.Dot = fixed.P((width-w)/2, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
