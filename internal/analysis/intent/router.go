// Package intent decides whether a message asks about a known team member.
package intent

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/oilnova/chat-ai/backend/internal/model/team"
)

// Entry binds an entity key to the keywords that select it.
type Entry struct {
	Key      string
	Keywords []string
}

type matcher struct {
	key    string
	latin  []*regexp.Regexp
	arabic []string
}

// Router matches messages against an ordered list of entries. The first entry
// with a matching keyword wins.
type Router struct {
	matchers []matcher
}

// NewRouter compiles entries, keeping their order as the priority order.
// Keywords containing Arabic script match as substrings that end on a word
// boundary, so attached prefixes such as "ال" or "و" still match. Other keywords
// match whole words only.
func NewRouter(entries []Entry) *Router {
	r := &Router{matchers: make([]matcher, 0, len(entries))}
	for _, entry := range entries {
		m := matcher{key: entry.Key}
		for _, kw := range entry.Keywords {
			kw = Normalize(kw)
			if kw == "" {
				continue
			}
			if hasArabic(kw) {
				m.arabic = append(m.arabic, kw)
				continue
			}
			m.latin = append(m.latin, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		r.matchers = append(r.matchers, m)
	}
	return r
}

// FromMembers builds a router over the team members in slice order.
func FromMembers(members []team.Member) *Router {
	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		entries = append(entries, Entry{Key: m.Key, Keywords: m.AllKeywords()})
	}
	return NewRouter(entries)
}

// Match returns the key of the first entry matching text.
func (r *Router) Match(text string) (string, bool) {
	normalized := Normalize(text)
	if normalized == "" {
		return "", false
	}

	for _, m := range r.matchers {
		for _, re := range m.latin {
			if re.MatchString(normalized) {
				return m.key, true
			}
		}
		for _, kw := range m.arabic {
			if containsWord(normalized, kw) {
				return m.key, true
			}
		}
	}
	return "", false
}

// Normalize lower-cases Latin text and collapses whitespace. Arabic has no case
// and passes through unchanged.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func containsWord(text, kw string) bool {
	for offset := 0; offset <= len(text)-len(kw); {
		idx := strings.Index(text[offset:], kw)
		if idx < 0 {
			return false
		}
		end := offset + idx + len(kw)
		next, _ := utf8.DecodeRuneInString(text[end:])
		if end == len(text) || !unicode.IsLetter(next) {
			return true
		}
		offset += idx + 1
	}
	return false
}

func hasArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
