package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/park285/hotseat-chess/internal/domain"
	"github.com/park285/hotseat-chess/internal/rules"
)

func decode(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

func squareCorner(g geometry, square string) image.Point {
	file, rank, _ := domain.SquareIndex(square)
	r := g.rect(file, rank)
	return image.Pt(r.Min.X+1, r.Min.Y+1)
}

func sameRGBA(c color.Color, want color.RGBA) bool {
	r, g, b, a := c.RGBA()
	wr, wg, wb, wa := want.RGBA()
	return r == wr && g == wg && b == wb && a == wa
}

func startBoard(t *testing.T, moves ...string) domain.Board {
	t.Helper()
	a := rules.NewAdapter()
	pos := a.Start()
	for _, mv := range moves {
		res := a.AttemptMove(pos, mv)
		if !res.Accepted {
			t.Fatalf("move %q rejected: %s", mv, res.Reason)
		}
		pos = res.Position
	}
	return a.Board(pos)
}

func TestRenderPNGDimensionsAndSquares(t *testing.T) {
	r := NewPNGRenderer()
	out, err := r.RenderPNG(context.Background(), startBoard(t), Options{
		Header:     "White to move",
		WhiteClock: "10:00",
		BlackClock: "10:00",
		Turn:       domain.White,
	})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img := decode(t, out)
	b := img.Bounds()
	if b.Dx() != boardSize+sideMargin*2 || b.Dy() != boardSize+topMargin+bottomMargin {
		t.Fatalf("unexpected size %v", b)
	}

	g := geometry{origin: image.Pt(sideMargin, topMargin)}
	if !sameRGBA(img.At(squareCorner(g, "e4").X, squareCorner(g, "e4").Y), lightSquare) {
		t.Errorf("e4 should be a light square")
	}
	if !sameRGBA(img.At(squareCorner(g, "d4").X, squareCorner(g, "d4").Y), darkSquare) {
		t.Errorf("d4 should be a dark square")
	}
}

func TestRenderPNGHighlightsWhiteMove(t *testing.T) {
	r := NewPNGRenderer()
	out, err := r.RenderPNG(context.Background(), startBoard(t, "e4"), Options{
		Highlight: &Highlight{From: "e2", To: "e4"},
	})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img := decode(t, out)
	g := geometry{origin: image.Pt(sideMargin, topMargin)}
	p := squareCorner(g, "e4")
	if sameRGBA(img.At(p.X, p.Y), lightSquare) {
		t.Errorf("e4 corner not highlighted")
	}
	q := squareCorner(g, "d4")
	if !sameRGBA(img.At(q.X, q.Y), darkSquare) {
		t.Errorf("d4 must stay untouched")
	}
}

func TestRenderPNGFlipped(t *testing.T) {
	g := geometry{origin: image.Pt(sideMargin, topMargin), flip: true}
	a1 := g.rect(0, 0)
	if a1.Min != image.Pt(sideMargin+7*squareSize, topMargin) {
		t.Fatalf("flipped a1 at %v", a1.Min)
	}
	h8 := geometry{origin: image.Pt(sideMargin, topMargin)}.rect(7, 7)
	if h8.Min != image.Pt(sideMargin+7*squareSize, topMargin) {
		t.Fatalf("h8 at %v", h8.Min)
	}
}

func TestRenderPNGHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPNGRenderer().RenderPNG(ctx, domain.Board{}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPieceImagesParse(t *testing.T) {
	kinds := []domain.PieceKind{domain.King, domain.Queen, domain.Rook, domain.Bishop, domain.Knight, domain.Pawn}
	for _, k := range kinds {
		for _, c := range []domain.Color{domain.White, domain.Black} {
			img, err := pieceImage(domain.Cell{Kind: k, Color: c}, 32)
			if err != nil {
				t.Fatalf("%s%s: %v", c, k.Letter(), err)
			}
			if img.Bounds().Dx() != 32 {
				t.Fatalf("%s%s: size %v", c, k.Letter(), img.Bounds())
			}
		}
	}
}
