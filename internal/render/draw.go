package render

import (
	"image"
	"image/color"
	imagedraw "image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

type pointF struct {
	X float64
	Y float64
}

// drawArrow draws a shaft plus head from the centre of one square to another.
func drawArrow(img *image.RGBA, start, end image.Point, size int, clr color.Color) {
	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	dirX, dirY := dx/length, dy/length
	perpX, perpY := -dirY, dirX

	shaft := length - float64(size)*0.45
	if shaft < float64(size)*0.35 {
		shaft = length * 0.6
	}
	half := float64(size) * 0.18
	head := float64(size) * 0.32

	sx, sy := float64(start.X), float64(start.Y)
	bx, by := sx+dirX*shaft, sy+dirY*shaft

	a := pointF{sx - perpX*half, sy - perpY*half}
	b := pointF{sx + perpX*half, sy + perpY*half}
	c := pointF{bx + perpX*half, by + perpY*half}
	d := pointF{bx - perpX*half, by - perpY*half}
	fillTriangle(img, a, b, c, clr)
	fillTriangle(img, a, c, d, clr)

	fillTriangle(img,
		pointF{float64(end.X), float64(end.Y)},
		pointF{bx - perpX*head/2, by - perpY*head/2},
		pointF{bx + perpX*head/2, by + perpY*head/2},
		clr,
	)
}

func fillTriangle(img *image.RGBA, a, b, c pointF, clr color.Color) {
	minX := int(math.Floor(math.Min(a.X, math.Min(b.X, c.X))))
	maxX := int(math.Ceil(math.Max(a.X, math.Max(b.X, c.X))))
	minY := int(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y))))
	maxY := int(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y))))

	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if denom == 0 {
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			alpha := ((b.Y-c.Y)*(px-c.X) + (c.X-b.X)*(py-c.Y)) / denom
			beta := ((c.Y-a.Y)*(px-c.X) + (a.X-c.X)*(py-c.Y)) / denom
			if alpha >= 0 && beta >= 0 && alpha+beta <= 1 {
				blendPixel(img, x, y, clr)
			}
		}
	}
}

// blendPixel composites clr over the pixel at (x, y) using premultiplied alpha.
func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	sr, sg, sb, sa := clr.RGBA()
	if sa == 0 {
		return
	}
	d := img.RGBAAt(x, y)
	inv := 0xffff - sa
	over := func(s uint32, dst uint8) uint8 {
		return uint8((s + uint32(dst)*0x101*inv/0xffff) >> 8)
	}
	img.SetRGBA(x, y, color.RGBA{
		R: over(sr, d.R),
		G: over(sg, d.G),
		B: over(sb, d.B),
		A: over(sa, d.A),
	})
}

func drawDisc(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	r2 := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= r2 {
				blendPixel(img, center.X+x, center.Y+y, clr)
			}
		}
	}
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if rect.Empty() {
		return
	}
	radius = max(0, min(radius, rect.Dx()/2, rect.Dy()/2))
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}
	// centre column, then the two side strips between the corners
	imagedraw.Draw(img, image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)

	// quarter discs, clipped so they do not overlap the strips
	corners := []struct {
		center image.Point
		clip   image.Rectangle
	}{
		{image.Pt(rect.Min.X+radius, rect.Min.Y+radius), image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+radius, rect.Min.Y+radius)},
		{image.Pt(rect.Max.X-radius-1, rect.Min.Y+radius), image.Rect(rect.Max.X-radius, rect.Min.Y, rect.Max.X, rect.Min.Y+radius)},
		{image.Pt(rect.Min.X+radius, rect.Max.Y-radius-1), image.Rect(rect.Min.X, rect.Max.Y-radius, rect.Min.X+radius, rect.Max.Y)},
		{image.Pt(rect.Max.X-radius-1, rect.Max.Y-radius-1), image.Rect(rect.Max.X-radius, rect.Max.Y-radius, rect.Max.X, rect.Max.Y)},
	}
	for _, c := range corners {
		sub, ok := img.SubImage(c.clip).(*image.RGBA)
		if !ok || sub.Bounds().Empty() {
			continue
		}
		drawDisc(sub, c.center, radius, clr)
	}
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}
	const ellipsis = "..."
	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if drawer == nil || text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := max(rect.Min.X, rect.Min.X+(rect.Dx()-width)/2)
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}
