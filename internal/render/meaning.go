package render

import (
	"regexp"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/robalobadob/tordle/internal/dictionary"
)

const wrapWidth = 72

var nonASCII = regexp.MustCompile(`[^\x00-\x7F]+`)

// FormatEntry lays out a dictionary entry:
//
//	word (phonetic)
//	[part of speech]
//	  - definition, wrapped at 72 columns
//	    with indented continuation lines
//
// Non-ASCII runs are replaced by a single space so the output is safe on any terminal.
func (p *Painter) FormatEntry(e *dictionary.Entry) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(p.Paint(e.Word, WordColor, false))
	if e.Phonetic != "" {
		b.WriteString(" ")
		b.WriteString(p.Paint("("+e.Phonetic+")", PhoneticColor, false))
	}

	for _, m := range e.Meanings {
		b.WriteString("\n")
		b.WriteString(p.Paint("["+m.PartOfSpeech+"]", PartOfSpeechColor, false))
		for _, d := range m.Definitions {
			for i, line := range wrap(d.Definition, wrapWidth) {
				if i == 0 {
					b.WriteString("\n  - ")
				} else {
					b.WriteString("\n    ")
				}
				b.WriteString(p.Paint(line, DefinitionColor, false))
			}
		}
	}
	b.WriteString("\n")
	return nonASCII.ReplaceAllString(b.String(), " ")
}

// wrap fills lines of at most width columns, breaking at spaces. A word
// longer than width keeps a line of its own.
func wrap(text string, width int) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	return strings.Split(wordwrap.WrapString(text, uint(width)), "\n")
}
