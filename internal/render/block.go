package render

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/common-nighthawk/go-figure"
)

const blockFont = "block"

var ErrColorCount = errors.New("render: word and colors must have the same length")

// glyph renders one letter in the FIGlet block font, every row padded to the
// letter's width plus a one-column gap.
func glyph(r rune) []string {
	rows := figure.NewFigure(string(unicode.ToUpper(r)), blockFont, false).Slicify()
	width := 0
	for _, row := range rows {
		width = max(width, utf8.RuneCountInString(row))
	}
	for i, row := range rows {
		rows[i] = row + strings.Repeat(" ", width-utf8.RuneCountInString(row)+1)
	}
	return rows
}

// BlockWord renders word as block letters, letter i painted colors[i].
// Rows blank across every letter are dropped.
func (p *Painter) BlockWord(word string, colors []Color) (string, error) {
	letters := []rune(word)
	if len(letters) != len(colors) {
		return "", ErrColorCount
	}

	glyphs := make([][]string, len(letters))
	height := 0
	for i, r := range letters {
		glyphs[i] = glyph(r)
		height = max(height, len(glyphs[i]))
	}
	for i, g := range glyphs {
		// shorter glyphs get blank rows of their own width
		blank := ""
		if len(g) > 0 {
			blank = strings.Repeat(" ", utf8.RuneCountInString(g[0]))
		}
		for len(g) < height {
			g = append(g, blank)
		}
		glyphs[i] = g
	}

	var lines []string
	for row := 0; row < height; row++ {
		inked := false
		for _, g := range glyphs {
			if strings.TrimSpace(g[row]) != "" {
				inked = true
				break
			}
		}
		if !inked {
			continue
		}
		var b strings.Builder
		for i, g := range glyphs {
			b.WriteString(p.Paint(g[row], colors[i], true))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n"), nil
}

// BlockWordMono renders word in a single color.
func (p *Painter) BlockWordMono(word string, c Color) string {
	colors := make([]Color, len([]rune(word)))
	for i := range colors {
		colors[i] = c
	}
	s, _ := p.BlockWord(word, colors)
	return s
}

const turtle = `
  _____     ____
 /      \  |  o |
|        |/ ___\|
|_________/
|_|_| |_|_|
`

// Title is the rainbow game banner.
func (p *Painter) Title() string {
	s, _ := p.BlockWord("TORDLE", []Color{Magenta, Red, Yellow, Green, Blue, Cyan})
	return s
}

// Turtle is the mascot, in bold green.
func (p *Painter) Turtle() string {
	return p.Paint(turtle, Green, true)
}
