// Package format turns raw model output into plain, list-safe text for the chat UI.
package format

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/oilnova/chat-ai/backend/internal/analysis/language"
)

// maxMarkerDigits bounds numbered list markers so years such as "2025." stay inline.
const maxMarkerDigits = 2

const punctuation = ".,;:!?()[]-–'\"/%+=&@*•_°"

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// Format runs the full pipeline. It is idempotent for a fixed locale.
func Format(text string, locale language.Locale) string {
	out := filterChars(text)
	out = normalizeWhitespace(out)
	out = enforceListLines(out)
	if locale == language.Arabic {
		out = arabicDigits(out)
	}
	return strings.TrimSpace(out)
}

func filterChars(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case allowed(r):
			b.WriteRune(r)
		}
	}
	// Markdown emphasis; a lone '*' is kept as a bullet.
	return strings.ReplaceAll(b.String(), "**", "")
}

func allowed(r rune) bool {
	switch {
	case isArabicBlock(r):
		return true
	case unicode.Is(unicode.Latin, r) && unicode.IsLetter(r):
		return true
	case r >= '0' && r <= '9':
		return true
	default:
		return strings.ContainsRune(punctuation, r)
	}
}

func isArabicBlock(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF:
		return true
	case r >= 0x0750 && r <= 0x077F:
		return true
	case r >= 0xFB50 && r <= 0xFDFF:
		return true
	case r >= 0xFE70 && r <= 0xFEFF && r != 0xFEFF:
		return true
	default:
		return false
	}
}

func normalizeWhitespace(text string) string {
	text = horizontalSpace.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Trim(line, " ")
	}
	return blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
}

// enforceListLines moves every list marker that is not at the start of a line
// onto its own line.
func enforceListLines(text string) string {
	runes := []rune(text)
	out := make([]rune, 0, len(runes)+8)

	for i, r := range runes {
		if isMarkerAt(runes, i) && i > 0 {
			switch prev := out[len(out)-1]; prev {
			case '\n':
			case ' ':
				out[len(out)-1] = '\n'
			default:
				out = append(out, '\n')
			}
		}
		out = append(out, r)
	}
	return string(out)
}

func isMarkerAt(runes []rune, i int) bool {
	if i > 0 {
		prev := runes[i-1]
		if unicode.IsLetter(prev) || isDigit(prev) {
			return false
		}
	}

	switch runes[i] {
	case '-', '•', '*':
		return i+1 < len(runes) && runes[i+1] == ' '
	}

	j := i
	for j < len(runes) && isDigit(runes[j]) {
		j++
	}
	digits := j - i
	if digits == 0 || digits > maxMarkerDigits {
		return false
	}
	return j+1 < len(runes) && runes[j] == '.' && runes[j+1] == ' '
}

func isDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 0x0660 && r <= 0x0669:
		return true
	case r >= 0x06F0 && r <= 0x06F9:
		return true
	default:
		return false
	}
}

func arabicDigits(text string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return 0x0660 + (r - '0')
		}
		return r
	}, text)
}
