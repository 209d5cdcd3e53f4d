package render

import (
	"bytes"

	"github.com/park285/hotseat-chess/internal/domain"
)

var (
	whitePieceFill   = []byte("#f8f8f4")
	whitePieceStroke = []byte("#1c1c1c")
	blackPieceFill   = []byte("#262626")
	blackPieceStroke = []byte("#e6e6e6")
)

// colorizeSVG fills the shared piece templates for one side.
func colorizeSVG(svg []byte, side domain.Color) []byte {
	fill, stroke := whitePieceFill, whitePieceStroke
	if side == domain.Black {
		fill, stroke = blackPieceFill, blackPieceStroke
	}
	out := bytes.ReplaceAll(svg, []byte("{{FILL}}"), fill)
	return bytes.ReplaceAll(out, []byte("{{STROKE}}"), stroke)
}
