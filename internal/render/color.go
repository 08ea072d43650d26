// internal/render/color.go
//
// Terminal color handling.
//   - Color: ANSI foreground color codes used by the game screens.
//   - Painter: wraps the output writer and paints through fatih/color; escape
//     sequences are emitted only when the writer is a terminal (go-isatty) and
//     NO_COLOR is unset. On Windows the writer is passed through go-colorable
//     so the sequences are translated.
//   - VerdictColor: the fixed verdict → color table.

package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/robalobadob/tordle/internal/game"
)

// Color is an ANSI SGR foreground code.
type Color int

const (
	Red     = Color(color.FgRed)
	Green   = Color(color.FgGreen)
	Yellow  = Color(color.FgYellow)
	Blue    = Color(color.FgBlue)
	Magenta = Color(color.FgMagenta)
	Cyan    = Color(color.FgCyan)
	White   = Color(color.FgWhite)
)

// Screen roles.
const (
	AttemptsColor     = Yellow
	PromptColor       = Cyan
	ErrorColor        = Magenta
	GameOverColor     = Red
	SuccessColor      = Green
	WordColor         = Cyan
	PhoneticColor     = Magenta
	PartOfSpeechColor = Yellow
	DefinitionColor   = Blue
)

var verdictColors = map[game.Verdict]Color{
	game.Exact:   Green,
	game.Present: Yellow,
	game.Absent:  White,
}

// VerdictColor maps a verdict to its display color. Unknown verdicts render as Absent.
func VerdictColor(v game.Verdict) Color {
	if c, ok := verdictColors[v]; ok {
		return c
	}
	return verdictColors[game.Absent]
}

// VerdictColors maps every verdict of a clue.
func VerdictColors(vs []game.Verdict) []Color {
	out := make([]Color, len(vs))
	for i, v := range vs {
		out[i] = VerdictColor(v)
	}
	return out
}

// Painter writes optionally colored text.
type Painter struct {
	w     io.Writer
	color bool
}

// NewPainter colors output only when w is a terminal.
func NewPainter(w io.Writer) *Painter {
	if f, ok := w.(*os.File); ok && os.Getenv("NO_COLOR") == "" &&
		(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return &Painter{w: colorable.NewColorable(f), color: true}
	}
	return &Painter{w: w}
}

// NewPainterColor forces color on or off.
func NewPainterColor(w io.Writer, color bool) *Painter {
	return &Painter{w: w, color: color}
}

// Writer is the underlying output.
func (p *Painter) Writer() io.Writer { return p.w }

// Colored reports whether escape sequences are emitted.
func (p *Painter) Colored() bool { return p.color }

// Paint colors every line of s separately so multi-line art stays aligned
// when lines are concatenated side by side.
func (p *Painter) Paint(s string, c Color, bold bool) string {
	if !p.color {
		return s
	}
	attrs := []color.Attribute{color.Attribute(c)}
	if bold {
		attrs = append(attrs, color.Bold)
	}
	fc := color.New(attrs...)
	fc.EnableColor()
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = fc.Sprint(l)
	}
	return strings.Join(lines, "\n")
}

// Println writes s in color c followed by a newline.
func (p *Painter) Println(s string, c Color) {
	fmt.Fprintln(p.w, p.Paint(s, c, false))
}

// Print writes s in color c.
func (p *Painter) Print(s string, c Color) {
	fmt.Fprint(p.w, p.Paint(s, c, false))
}
