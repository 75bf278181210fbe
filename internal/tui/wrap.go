package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/quicktype/internal/session"
)

const wrongSpace = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders each target position by its typed status. The next
// position to type is underlined until the session completes.
func buildStyledRunes(s *session.Session, st styles) []styledRune {
	target := s.Target()
	cursorIndex := -1
	if s.State() != session.Completed {
		cursorIndex = s.Cursor()
	}

	out := make([]styledRune, 0, len(target))
	for i, r := range target {
		displayed := r
		style := st.untyped
		switch s.Status(i) {
		case session.Correct:
			style = st.typed
		case session.Incorrect:
			style = st.incorrect
			if r == ' ' {
				displayed = wrongSpace
			}
		}
		if i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: r == ' ',
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines after the last space that fits in width, or
// mid-word when a word is wider than the line. Spaces stay at the end of the
// line they follow so every target position remains visible.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	var line []styledRune
	lineWidth := 0
	lastSpace := -1

	for _, item := range runes {
		if !item.isSpace && lineWidth+item.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				lines = append(lines, renderStyledRunes(line[:lastSpace+1]))
				line = append([]styledRune(nil), line[lastSpace+1:]...)
			} else {
				lines = append(lines, renderStyledRunes(line))
				line = nil
			}
			lineWidth, lastSpace = measure(line)
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpace = len(line) - 1
		}
	}
	lines = append(lines, renderStyledRunes(line))
	return strings.Join(lines, "\n")
}

func measure(line []styledRune) (width, lastSpace int) {
	lastSpace = -1
	for i, item := range line {
		width += item.width
		if item.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
