package language

import (
	"strings"
	"unicode"
)

// Locale 表示回复所使用的语言。
type Locale string

const (
	Arabic  Locale = "arabic"
	English Locale = "english"
)

// Valid reports whether l is one of the supported locales.
func (l Locale) Valid() bool {
	switch l {
	case Arabic, English:
		return true
	default:
		return false
	}
}

// Detect classifies text as Arabic or English, defaulting to Arabic on a tie.
func Detect(text string) Locale {
	return DetectWithFallback(text, Arabic)
}

// DetectWithFallback compares Arabic script code points with Latin letters.
// Equal counts are settled by word counts; if those also tie, fallback is returned.
func DetectWithFallback(text string, fallback Locale) Locale {
	if !fallback.Valid() {
		fallback = Arabic
	}

	arabic, latin := countScripts(text)
	switch {
	case arabic > latin:
		return Arabic
	case latin > arabic:
		return English
	}

	arabicWords, latinWords := 0, 0
	for _, word := range strings.Fields(text) {
		a, l := countScripts(word)
		switch {
		case a > l:
			arabicWords++
		case l > a:
			latinWords++
		}
	}
	switch {
	case arabicWords > latinWords:
		return Arabic
	case latinWords > arabicWords:
		return English
	default:
		return fallback
	}
}

func countScripts(text string) (arabic, latin int) {
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case unicode.Is(unicode.Latin, r) && unicode.IsLetter(r):
			latin++
		}
	}
	return arabic, latin
}
