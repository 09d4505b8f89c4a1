package conversation

import (
	"unicode"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// DetectLanguage picks Arabic or English by counting script characters.
// Arabic wins ties, including empty input.
func DetectLanguage(text string) domain.Language {
	var arabic, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Arabic, r):
			arabic++
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			latin++
		}
	}
	if latin > arabic {
		return domain.LanguageEnglish
	}
	return domain.LanguageArabic
}
