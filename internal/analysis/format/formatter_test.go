package format

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oilnova/chat-ai/backend/internal/analysis/language"
)

func TestFormatFiltersCharacters(t *testing.T) {
	got := Format("ESP 🚀 pumps <b>lift</b> oil ✅ **fast**", language.English)
	assert.Equal(t, "ESP pumps blift/b oil fast", got)
}

func TestFormatKeepsArabicAndPunctuation(t *testing.T) {
	got := Format("مضخة ESP: تعمل بكفاءة (٩٠%)، أليس كذلك؟", language.English)
	assert.Equal(t, "مضخة ESP: تعمل بكفاءة (٩٠%)، أليس كذلك؟", got)
}

func TestFormatWhitespace(t *testing.T) {
	got := Format("  first\t\t line  \r\n\n\n\n second   line   end\n", language.English)
	assert.Equal(t, "first line\n\nsecond line end", got)
}

func TestFormatListLines(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "inline numbered list",
			in:   "Types of lift: 1. ESP 2. PCP 3. Gas lift",
			want: "Types of lift:\n1. ESP\n2. PCP\n3. Gas lift",
		},
		{
			name: "inline bullets",
			in:   "Main parts - motor - pump • cable * seal",
			want: "Main parts\n- motor\n- pump\n• cable\n* seal",
		},
		{
			name: "marker glued to punctuation",
			in:   "Steps:1. open valve",
			want: "Steps:\n1. open valve",
		},
		{
			name: "already on own lines",
			in:   "1. ESP\n2. PCP",
			want: "1. ESP\n2. PCP",
		},
		{
			name: "years and decimals stay inline",
			in:   "Class of 2025. Pressure rose 3.5 times.",
			want: "Class of 2025. Pressure rose 3.5 times.",
		},
		{
			name: "hyphenated names stay inline",
			in:   "Hayder Al-Samarrai built it",
			want: "Hayder Al-Samarrai built it",
		},
		{
			name: "digits after letters are not markers",
			in:   "Use model X2. Then test",
			want: "Use model X2. Then test",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.in, language.English))
		})
	}
}

func TestFormatArabicDigits(t *testing.T) {
	got := Format("أنواع الرفع: 1. ESP 2. PCP دفعة 2025", language.Arabic)
	assert.Equal(t, "أنواع الرفع:\n١. ESP\n٢. PCP دفعة ٢٠٢٥", got)
}

func TestFormatEnglishKeepsASCIIDigits(t *testing.T) {
	assert.Equal(t, "Depth 3000 ft", Format("Depth 3000 ft", language.English))
}

func TestFormatIdempotentSamples(t *testing.T) {
	samples := []string{
		"",
		"   ",
		"- - x",
		"1. 2. 3. ",
		"a - b - c",
		"*** bold *** and * bullet",
		"**\n\n\n\n**",
		"x:- y",
		"نص 1. أول 2. ثاني\n\n\n\n- ثالث",
		"v2.1. release notes",
		"١. أول ٢. ثاني",
		"line one  \n   - item\n\n\n\n\n12. twelve 123. big",
	}

	for _, locale := range []language.Locale{language.Arabic, language.English} {
		for _, in := range samples {
			once := Format(in, locale)
			assert.Equal(t, once, Format(once, locale), "locale=%s input=%q", locale, in)
		}
	}
}

func TestFormatIdempotentRandom(t *testing.T) {
	alphabet := []string{
		"a", "B", "z", "ب", "ع", "ة", "1", "7", "٣", "12", "2025",
		" ", "  ", "\t", "\n", "\n\n\n", "\r\n", " ",
		".", ". ", "-", "- ", "*", "* ", "**", "•", "• ", ":", "(", "؟", "،",
		"🚀", "<", "#", "‏",
	}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		var b strings.Builder
		n := rng.Intn(40)
		for j := 0; j < n; j++ {
			b.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		in := b.String()

		for _, locale := range []language.Locale{language.Arabic, language.English} {
			once := Format(in, locale)
			if twice := Format(once, locale); twice != once {
				t.Fatalf("not idempotent for %q (%s):\nonce:  %q\ntwice: %q", in, locale, once, twice)
			}
		}
	}
}
