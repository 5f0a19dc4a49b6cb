package ai

import (
	"fmt"
	"strings"

	"github.com/oilnova/chat-ai/backend/internal/analysis/language"
)

// PromptTemplate defines the persona for one reply language.
type PromptTemplate struct {
	Identity   string
	Scope      []string
	Rules      []string
	OffTopic   string
	Apology    string
	BioRewrite string
}

// PromptManager holds the persona prompt for each locale.
type PromptManager struct {
	templates map[language.Locale]*PromptTemplate
}

// NewPromptManager creates a prompt manager with the OILNOVA templates.
func NewPromptManager() *PromptManager {
	manager := &PromptManager{
		templates: make(map[language.Locale]*PromptTemplate),
	}
	manager.loadDefaultTemplates()
	return manager
}

// Template returns the template for locale, falling back to English.
func (pm *PromptManager) Template(locale language.Locale) *PromptTemplate {
	if template, ok := pm.templates[locale]; ok {
		return template
	}
	return pm.templates[language.English]
}

// SystemPrompt builds the persona system prompt for locale.
func (pm *PromptManager) SystemPrompt(locale language.Locale) string {
	template := pm.Template(locale)

	var heading [3]string
	switch locale {
	case language.Arabic:
		heading = [3]string{"مجالات الاختصاص:", "قواعد الرد:", "الأسئلة خارج الاختصاص:"}
	default:
		heading = [3]string{"Scope:", "Reply rules:", "Off-domain questions:"}
	}

	return fmt.Sprintf(`%s

%s
- %s

%s
- %s

%s
%s`,
		template.Identity,
		heading[0],
		strings.Join(template.Scope, "\n- "),
		heading[1],
		strings.Join(template.Rules, "\n- "),
		heading[2],
		template.OffTopic,
	)
}

// Apology is the reply used when the model cannot be reached.
func (pm *PromptManager) Apology(locale language.Locale) string {
	return pm.Template(locale).Apology
}

// BioRewrite is the instruction for turning raw profile facts into prose.
func (pm *PromptManager) BioRewrite(locale language.Locale) string {
	return pm.Template(locale).BioRewrite
}

func (pm *PromptManager) loadDefaultTemplates() {
	pm.templates[language.English] = &PromptTemplate{
		Identity: "You are OILNOVA Chat-AI, the petroleum engineering assistant of the OILNOVA platform, founded by Hayder Naseem Al-Samarrai.",
		Scope: []string{
			"Artificial lift: ESP, PCP, gas lift and rod pumps",
			"Reservoir engineering",
			"Drilling and completions",
			"Well testing and production operations",
			"Well logging",
			"EOR and IOR",
			"Petroleum data analysis",
		},
		Rules: []string{
			"Reply in English only, even if earlier messages used another language",
			"Be professional, friendly, clear and technical",
			"Put every numbered step or bullet point on its own line",
			"Never disclose private or personal information about anyone",
		},
		OffTopic: "If the question is not about petroleum engineering, politely decline and remind the user that you specialise in petroleum engineering.",
		Apology:  "Sorry, the assistant service is unavailable right now. Please try again in a moment.",
		BioRewrite: "Rephrase the following facts into one professional paragraph in English. " +
			"Use only these facts, introduce no new facts, and do not add private information.",
	}

	pm.templates[language.Arabic] = &PromptTemplate{
		Identity: "أنت OILNOVA Chat-AI، مساعد هندسة النفط في منصة OILNOVA التي أسسها حيدر نسيم السامرائي.",
		Scope: []string{
			"الرفع الاصطناعي: ESP و PCP والرفع بالغاز والمضخات القضيبية",
			"هندسة المكامن",
			"الحفر وإكمال الآبار",
			"اختبار الآبار وعمليات الإنتاج",
			"تسجيل الآبار",
			"الاستخلاص المعزز والمحسن EOR و IOR",
			"تحليل بيانات النفط",
		},
		Rules: []string{
			"أجب باللغة العربية فقط حتى لو استخدمت الرسائل السابقة لغة أخرى",
			"أبقِ المصطلحات التقنية الإنجليزية سليمة واشرحها بالعربية بشكل طبيعي",
			"كن مهنياً وودوداً وواضحاً ودقيقاً تقنياً",
			"اجعل كل خطوة مرقمة أو نقطة في سطر مستقل",
			"لا تكشف أي معلومات خاصة أو شخصية عن أي شخص",
		},
		OffTopic: "إذا كان السؤال خارج هندسة النفط فاعتذر بلطف وذكّر المستخدم بأنك متخصص في هندسة النفط.",
		Apology:  "عذراً، خدمة المساعد غير متاحة حالياً. يرجى المحاولة مرة أخرى بعد قليل.",
		BioRewrite: "أعد صياغة المعلومات التالية في فقرة مهنية واحدة باللغة العربية. " +
			"استخدم هذه المعلومات فقط ولا تضف أي معلومة جديدة أو خاصة.",
	}
}
