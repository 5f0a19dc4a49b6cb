package team

import "github.com/oilnova/chat-ai/backend/internal/analysis/language"

// Member keys, in routing priority order.
const (
	KeyFounder    = "founder"
	KeyAliBilal   = "ali_bilal"
	KeyNoorKanaan = "noor_kanaan"
	KeyArzuMateen = "arzu_mateen"
	KeyTeam       = "team"
)

// Profile holds the public facts about a member in one language.
type Profile struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Background string `json:"background,omitempty"`
	Education  string `json:"education,omitempty"`
	Hometown   string `json:"hometown,omitempty"`
	Contact    string `json:"contact,omitempty"`
}

// Member is a person (or group) the assistant answers about from static facts.
type Member struct {
	Key      string                       `json:"key"`
	Profiles map[language.Locale]Profile  `json:"profiles"`
	Keywords map[language.Locale][]string `json:"keywords"`
}

// Profile returns the facts for locale, falling back to English.
func (m Member) Profile(locale language.Locale) Profile {
	if p, ok := m.Profiles[locale]; ok {
		return p
	}
	return m.Profiles[language.English]
}

// AllKeywords returns the keywords of every locale, Arabic first.
func (m Member) AllKeywords() []string {
	out := make([]string, 0, len(m.Keywords[language.Arabic])+len(m.Keywords[language.English]))
	out = append(out, m.Keywords[language.Arabic]...)
	out = append(out, m.Keywords[language.English]...)
	return out
}

// Seed provides the OILNOVA founder and assisting team. Slice order is the
// routing priority: a message naming several members resolves to the earliest.
func Seed() []Member {
	return []Member{
		{
			Key: KeyFounder,
			Profiles: map[language.Locale]Profile{
				language.English: {
					Name:       "Hayder Naseem Al-Samarrai",
					Role:       "Founder of the OILNOVA platform",
					Background: "Petroleum engineer, programmer, AI developer and content creator",
					Education:  "University of Kirkuk, College of Engineering, Petroleum Engineering Department, class of 2025 (Very Good)",
					Hometown:   "Samarra, Iraq",
					Contact:    "Through the OILNOVA platform",
				},
				language.Arabic: {
					Name:       "حيدر نسيم السامرائي",
					Role:       "مؤسس منصة OILNOVA",
					Background: "مهندس نفط ومبرمج ومطور ذكاء اصطناعي وصانع محتوى",
					Education:  "جامعة كركوك، كلية الهندسة، قسم هندسة النفط، دفعة 2025 بتقدير جيد جداً",
					Hometown:   "سامراء، العراق",
					Contact:    "عبر منصة OILNOVA",
				},
			},
			Keywords: map[language.Locale][]string{
				language.Arabic: {
					"المؤسس", "مؤسس", "من أسس", "من اسس", "حيدر", "السامرائي",
					"من صنعك", "من طورك", "من برمجك", "من انشأ", "من أنشأ",
				},
				language.English: {
					"founder", "who founded", "hayder", "haider", "samarrai",
					"who created you", "who made you", "who built you", "who developed you",
					"who created oilnova", "who made oilnova", "who built oilnova",
				},
			},
		},
		{
			Key: KeyAliBilal,
			Profiles: map[language.Locale]Profile{
				language.English: {
					Name:       "Ali Bilal",
					Role:       "Member of the OILNOVA assisting team",
					Background: "Petroleum engineer",
					Education:  "Petroleum engineering graduate, class of 2025 (Mosul)",
				},
				language.Arabic: {
					Name:       "علي بلال",
					Role:       "عضو في فريق OILNOVA المساعد",
					Background: "مهندس نفط",
					Education:  "خريج هندسة النفط، دفعة 2025 (الموصل)",
				},
			},
			Keywords: map[language.Locale][]string{
				language.Arabic:  {"علي بلال", "بلال"},
				language.English: {"ali bilal", "bilal"},
			},
		},
		{
			Key: KeyNoorKanaan,
			Profiles: map[language.Locale]Profile{
				language.English: {
					Name:       "Noor Kanaan",
					Role:       "Member of the OILNOVA assisting team",
					Background: "Petroleum engineer",
					Education:  "Petroleum engineering graduate, class of 2025 (Mosul)",
				},
				language.Arabic: {
					Name:       "نور كنعان",
					Role:       "عضوة في فريق OILNOVA المساعد",
					Background: "مهندسة نفط",
					Education:  "خريجة هندسة النفط، دفعة 2025 (الموصل)",
				},
			},
			Keywords: map[language.Locale][]string{
				language.Arabic:  {"نور كنعان", "كنعان"},
				language.English: {"noor kanaan", "noor", "nour", "kanaan"},
			},
		},
		{
			Key: KeyArzuMateen,
			Profiles: map[language.Locale]Profile{
				language.English: {
					Name:       "Arzu Mateen",
					Role:       "Member of the OILNOVA assisting team",
					Background: "Petroleum engineer",
					Education:  "Petroleum engineering graduate, class of 2025 (Kirkuk)",
				},
				language.Arabic: {
					Name:       "أرزو متين",
					Role:       "عضوة في فريق OILNOVA المساعد",
					Background: "مهندسة نفط",
					Education:  "خريجة هندسة النفط، دفعة 2025 (كركوك)",
				},
			},
			Keywords: map[language.Locale][]string{
				language.Arabic:  {"أرزو", "ارزو", "آرزو"},
				language.English: {"arzu", "mateen"},
			},
		},
		{
			Key: KeyTeam,
			Profiles: map[language.Locale]Profile{
				language.English: {
					Name:       "The OILNOVA team",
					Role:       "Founded by Hayder Naseem Al-Samarrai, with an assisting team of petroleum engineers",
					Background: "Ali Bilal (Mosul), Noor Kanaan (Mosul) and Arzu Mateen (Kirkuk), all class of 2025",
				},
				language.Arabic: {
					Name:       "فريق OILNOVA",
					Role:       "أسسه حيدر نسيم السامرائي بمساعدة فريق من مهندسي النفط",
					Background: "علي بلال (الموصل) ونور كنعان (الموصل) وأرزو متين (كركوك)، جميعهم دفعة 2025",
				},
			},
			Keywords: map[language.Locale][]string{
				language.Arabic:  {"فريق العمل", "أعضاء الفريق", "اعضاء الفريق", "فريق oilnova", "فريقكم", "الفريق المساعد"},
				language.English: {"your team", "team members", "oilnova team", "who works on oilnova"},
			},
		},
	}
}
