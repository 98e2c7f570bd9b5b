package domain

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Language
	}{
		{name: "english passthrough", raw: "en", want: LanguageEnglish},
		{name: "malay passthrough", raw: "my", want: LanguageMalay},
		{name: "uppercase", raw: "MY", want: LanguageMalay},
		{name: "padded", raw: "  en ", want: LanguageEnglish},
		{name: "unknown falls back", raw: "fr", want: LanguageEnglish},
		{name: "empty falls back", raw: "", want: LanguageEnglish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLanguage(tt.raw); got != tt.want {
				t.Fatalf("NormalizeLanguage(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDayNameLocalized(t *testing.T) {
	if got := LanguageEnglish.DayName(0); got != "Monday" {
		t.Fatalf("expected Monday, got %s", got)
	}
	if got := LanguageMalay.DayName(4); got != "Jumaat" {
		t.Fatalf("expected Jumaat, got %s", got)
	}
	if got := Language("fr").DayName(6); got != "Sunday" {
		t.Fatalf("unknown language should fall back to English, got %s", got)
	}
}
