package domain

import "strings"

// Language selects the message catalog for a chat.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageMalay   Language = "my"
)

// LanguageInfo describes one supported message language.
type LanguageInfo struct {
	Code     Language
	Name     string
	DayNames [7]string
}

var languages = map[Language]LanguageInfo{
	LanguageEnglish: {
		Code:     LanguageEnglish,
		Name:     "English",
		DayNames: [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
	},
	LanguageMalay: {
		Code:     LanguageMalay,
		Name:     "Bahasa Melayu",
		DayNames: [7]string{"Isnin", "Selasa", "Rabu", "Khamis", "Jumaat", "Sabtu", "Ahad"},
	},
}

// NormalizeLanguage maps raw input to a supported language, defaulting to English.
func NormalizeLanguage(raw string) Language {
	code := Language(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := languages[code]; ok {
		return code
	}
	return LanguageEnglish
}

// Info returns the catalog entry for the language, falling back to English.
func (l Language) Info() LanguageInfo {
	if info, ok := languages[l]; ok {
		return info
	}
	return languages[LanguageEnglish]
}

// DayName returns the localized weekday name. Weekday is 0=Monday.
func (l Language) DayName(weekday int) string {
	info := l.Info()
	return info.DayNames[((weekday%7)+7)%7]
}
