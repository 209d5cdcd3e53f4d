package rules

import (
	"regexp"
	"strings"
	"unicode"

	nchess "github.com/corentings/chess/v2"
)

var (
	coordSingleRe = regexp.MustCompile(`^([a-h][1-8])([a-h][1-8])=?([qrbn])?$`)
	coordTargetRe = regexp.MustCompile(`^([a-h][1-8])=?([qrbn])?$`)
	squareRe      = regexp.MustCompile(`^[a-h][1-8]$`)
)

// candidate is one decoding the adapter will try against the position, in order.
type candidate struct {
	notation nchess.Notation
	text     string
}

// parseInput normalises raw player input into decoding candidates.
// Input is matched case-insensitively. Coordinate forms ("e2 e4", "e2-e4",
// "e2e4", "e7e8=q") become UCI; everything else is treated as SAN, tried in
// lower case first and then with the promotion and piece letters capitalised.
func parseInput(raw string) ([]candidate, string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, ReasonEmpty
	}
	if san, ok := castlingSAN(s); ok {
		return []candidate{{notation: nchess.AlgebraicNotation{}, text: san}}, ""
	}

	lower := strings.ToLower(s)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})
	switch len(fields) {
	case 1:
		if m := coordSingleRe.FindStringSubmatch(fields[0]); m != nil {
			return []candidate{{notation: nchess.UCINotation{}, text: m[1] + m[2] + m[3]}}, ""
		}
		out := make([]candidate, 0, 3)
		for _, v := range sanVariants(lower) {
			out = append(out, candidate{notation: nchess.AlgebraicNotation{}, text: v})
		}
		return out, ""
	case 2:
		if !squareRe.MatchString(fields[0]) {
			return nil, ReasonFormat
		}
		m := coordTargetRe.FindStringSubmatch(fields[1])
		if m == nil {
			return nil, ReasonFormat
		}
		return []candidate{{notation: nchess.UCINotation{}, text: fields[0] + m[1] + m[2]}}, ""
	default:
		return nil, ReasonFormat
	}
}

// castlingSAN recognises O-O / O-O-O written with letter O or digit zero, any case.
func castlingSAN(s string) (string, bool) {
	t := strings.ToUpper(strings.TrimRight(s, "+#!?"))
	t = strings.ReplaceAll(t, "0", "O")
	switch t {
	case "O-O":
		return "O-O", true
	case "O-O-O":
		return "O-O-O", true
	default:
		return "", false
	}
}

// sanVariants expects lower-case SAN. Pawn readings come before piece
// readings, so "bxc3" is a pawn capture when both are legal.
func sanVariants(s string) []string {
	out := []string{s}
	add := func(v string) {
		for _, have := range out {
			if have == v {
				return
			}
		}
		out = append(out, v)
	}

	promo := s
	if i := strings.IndexByte(s, '='); i >= 0 && i+1 < len(s) {
		promo = s[:i+1] + strings.ToUpper(s[i+1:i+2]) + s[i+2:]
		add(promo)
	}
	if len(promo) > 1 && strings.ContainsRune("nbrqk", rune(promo[0])) {
		add(strings.ToUpper(promo[:1]) + promo[1:])
	}
	return out
}
