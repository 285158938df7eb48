package normalize

import (
	"strings"

	"github.com/sells-group/latin-corpus/internal/model"
)

var languageCodes = map[string]string{
	"lat":    model.LanguageLatin,
	"la":     model.LanguageLatin,
	"latin":  model.LanguageLatin,
	"latine": model.LanguageLatin,
	"latius": model.LanguageLatin,
}

// StandardizeLanguage maps language codes and descriptors to a canonical
// name. Anything starting with "lat" is Latin; unrecognized labels are
// returned trimmed. An empty label is unknown ("").
func StandardizeLanguage(label string) string {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return ""
	}
	cleaned := strings.TrimSpace(strings.ToLower(Transliterate(trimmed)))
	if name, ok := languageCodes[cleaned]; ok {
		return name
	}
	if strings.HasPrefix(cleaned, "lat") {
		return model.LanguageLatin
	}
	return trimmed
}

// IsLatin reports whether a raw language label denotes Latin: either it
// standardizes to "Latin" or it contains "latin" in any case.
func IsLatin(raw string) bool {
	if StandardizeLanguage(raw) == model.LanguageLatin {
		return true
	}
	return strings.Contains(strings.ToLower(raw), "latin")
}
