package poster

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks s into lines of at most width display columns, splitting on whitespace.
// Words wider than width are split across lines. A non-positive width yields one line.
func Wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	cur := ""
	for _, word := range words {
		for runewidth.StringWidth(word) > width {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			head, rest := splitAtWidth(word, width)
			lines = append(lines, head)
			word = rest
		}
		if word == "" {
			continue
		}

		switch {
		case cur == "":
			cur = word
		case runewidth.StringWidth(cur)+1+runewidth.StringWidth(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// splitAtWidth cuts s after the last rune fitting in width columns, keeping at least one rune
func splitAtWidth(s string, width int) (string, string) {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > width && i > 0 {
			return s[:i], s[i:]
		}
		w += rw
	}
	return s, ""
}
