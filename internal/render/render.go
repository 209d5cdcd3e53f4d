// Package render draws the read-only board projection as a PNG.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/park285/hotseat-chess/internal/domain"
)

// Highlight marks the squares of the last move.
type Highlight struct {
	From string
	To   string
}

type Options struct {
	Highlight  *Highlight
	Header     string // status line
	WhiteClock string
	BlackClock string
	Turn       domain.Color // clock panel drawn as active
	Flip       bool         // draw from Black's side
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, board domain.Board, opts Options) ([]byte, error)
}

type PNGRenderer struct {
	face font.Face
}

func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{face: basicfont.Face7x13}
}

const (
	squareSize   = 64
	boardSize    = squareSize * 8
	sideMargin   = 28
	topMargin    = 96
	bottomMargin = 28
	panelRadius  = 10
	panelHeight  = 28
	panelGap     = 10
	shadowOffset = 4
)

var (
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	backgroundColor     = color.RGBA{20, 22, 33, 255}
	whiteMoveFill       = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	blackMoveArrow      = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	hudPanelColor       = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudActivePanelColor = color.NRGBA{R: 46, G: 92, B: 160, A: 250}
	hudShadowColor      = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

func (r *PNGRenderer) RenderPNG(ctx context.Context, board domain.Board, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width := boardSize + sideMargin*2
	height := boardSize + topMargin + bottomMargin
	origin := image.Point{X: sideMargin, Y: topMargin}
	g := geometry{origin: origin, flip: opts.Flip}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	r.drawHUD(img, opts, image.Rect(origin.X, origin.Y, origin.X+boardSize, origin.Y+boardSize))
	drawSquares(img, g)
	if err := drawPieces(img, board, g); err != nil {
		return nil, err
	}
	drawHighlight(img, board, opts.Highlight, g)
	r.drawCoordinates(img, g)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// geometry maps board coordinates to pixels, optionally from Black's side.
type geometry struct {
	origin image.Point
	flip   bool
}

func (g geometry) rect(file, rank int) image.Rectangle {
	col, row := file, 7-rank
	if g.flip {
		col, row = 7-file, rank
	}
	x := g.origin.X + col*squareSize
	y := g.origin.Y + row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func (g geometry) center(file, rank int) image.Point {
	r := g.rect(file, rank)
	return image.Pt(r.Min.X+squareSize/2, r.Min.Y+squareSize/2)
}

func drawSquares(dst *image.RGBA, g geometry) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			clr := lightSquare
			if (file+rank)%2 == 0 {
				clr = darkSquare
			}
			imagedraw.Draw(dst, g.rect(file, rank), image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(dst *image.RGBA, board domain.Board, g geometry) error {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			cell := board[rank][file]
			if cell.Empty() {
				continue
			}
			img, err := pieceImage(cell, squareSize)
			if err != nil {
				return err
			}
			imagedraw.Draw(dst, g.rect(file, rank), img, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

// drawHighlight fills both squares for a White move and draws an arrow for a Black one.
func drawHighlight(img *image.RGBA, board domain.Board, h *Highlight, g geometry) {
	if h == nil {
		return
	}
	ff, fr, okFrom := domain.SquareIndex(h.From)
	tf, tr, okTo := domain.SquareIndex(h.To)
	if !okFrom || !okTo {
		return
	}
	if board[tr][tf].Color == domain.Black {
		drawArrow(img, g.center(ff, fr), g.center(tf, tr), squareSize, blackMoveArrow)
		return
	}
	imagedraw.Draw(img, g.rect(ff, fr), image.NewUniform(whiteMoveFill), image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, g.rect(tf, tr), image.NewUniform(whiteMoveFill), image.Point{}, imagedraw.Over)
}

func (r *PNGRenderer) drawHUD(img *image.RGBA, opts Options, boardRect image.Rectangle) {
	drawer := &font.Drawer{Dst: img, Face: r.face}

	header := strings.TrimSpace(opts.Header)
	if header == "" {
		header = "Hot-seat chess"
	}

	clockBottom := boardRect.Min.Y - panelGap*2
	clockTop := clockBottom - panelHeight
	titleBottom := clockTop - panelGap
	titleTop := titleBottom - panelHeight

	titleRect := image.Rect(boardRect.Min.X, titleTop, boardRect.Max.X, titleBottom)
	half := (boardRect.Dx() - panelGap) / 2
	whiteRect := image.Rect(boardRect.Min.X, clockTop, boardRect.Min.X+half, clockBottom)
	blackRect := image.Rect(boardRect.Max.X-half, clockTop, boardRect.Max.X, clockBottom)
	if opts.Flip {
		whiteRect, blackRect = blackRect, whiteRect
	}

	for _, rect := range []image.Rectangle{titleRect, whiteRect, blackRect} {
		drawRoundedPanel(img, rect.Add(image.Pt(0, shadowOffset)), panelRadius, hudShadowColor)
	}
	drawRoundedPanel(img, titleRect, panelRadius, hudPanelColor)
	drawRoundedPanel(img, whiteRect, panelRadius, panelColor(opts.Turn == domain.White))
	drawRoundedPanel(img, blackRect, panelRadius, panelColor(opts.Turn == domain.Black))

	header = truncateWithEllipsis(r.face, header, titleRect.Dx()-24)
	drawCenteredString(drawer, titleRect, header, hudTextPrimary)
	drawCenteredString(drawer, whiteRect, clockLabel("White", opts.WhiteClock), hudTextPrimary)
	drawCenteredString(drawer, blackRect, clockLabel("Black", opts.BlackClock), hudTextPrimary)
}

func panelColor(active bool) color.Color {
	if active {
		return hudActivePanelColor
	}
	return hudPanelColor
}

func clockLabel(side, clock string) string {
	if strings.TrimSpace(clock) == "" {
		return side
	}
	return side + "  " + clock
}

func (r *PNGRenderer) drawCoordinates(dst *image.RGBA, g geometry) {
	drawer := &font.Drawer{Dst: dst, Face: r.face, Src: image.NewUniform(coordinateTextColor)}
	ascent := r.face.Metrics().Ascent.Ceil()
	for i := 0; i < 8; i++ {
		rankCenter := g.center(0, i)
		drawCenteredText(drawer, string(rune('1'+i)), g.origin.X-sideMargin/2, rankCenter.Y+ascent/2)

		fileCenter := g.center(i, 0)
		drawCenteredText(drawer, string(rune('a'+i)), fileCenter.X, g.origin.Y+boardSize+ascent+4)
	}
}
