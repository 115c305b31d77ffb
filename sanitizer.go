package charseq

import (
	"regexp"
	"strings"
)

var extraWhitespace = regexp.MustCompile("[[:space:]]+")

// SanitizeText
// Cleans up whitespace issues common in scraped text: `\r` is dropped,
// repeated newlines collapse to one, an escaped `\n` becomes a newline,
// tabs become spaces, " :" becomes ":", and each line has runs of
// whitespace collapsed and its ends trimmed.
func SanitizeText(text string) string {
	out := make([]rune, 0, len(text))
	for _, r := range text {
		var last rune
		if len(out) > 0 {
			last = out[len(out)-1]
		}
		switch {
		case r == '\r':
		case r == '\n' && last == '\n':
		case r == 'n' && last == '\\':
			out[len(out)-1] = '\n'
		case r == ':' && last == ' ':
			out[len(out)-1] = ':'
		case r == '\t':
			out = append(out, ' ')
		default:
			out = append(out, r)
		}
	}
	lines := strings.Split(string(out), "\n")
	for lineIdx := range lines {
		line := extraWhitespace.ReplaceAllString(lines[lineIdx], " ")
		lines[lineIdx] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
