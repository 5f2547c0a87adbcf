package models

// Language selects the output language for generated content
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageChinese Language = "zh"
	LanguageSpanish Language = "es"
)

// ParseLanguage maps a locale tag to a supported language, falling back to
// English for anything outside the closed set.
func ParseLanguage(tag string) Language {
	switch Language(tag) {
	case LanguageChinese:
		return LanguageChinese
	case LanguageSpanish:
		return LanguageSpanish
	default:
		return LanguageEnglish
	}
}
