// Package language holds the fixed set of target languages offered for translation.
package language

// Language maps a display name to the code sent to the translation and speech
// services. Locale is the BCP-47 tag used by speech backends that need a region.
type Language struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Locale string `json:"locale"`
}

var table = []Language{
	{Name: "English", Code: "en", Locale: "en-US"},
	{Name: "French", Code: "fr", Locale: "fr-FR"},
	{Name: "Spanish", Code: "es", Locale: "es-ES"},
	{Name: "German", Code: "de", Locale: "de-DE"},
	{Name: "Hindi", Code: "hi", Locale: "hi-IN"},
	{Name: "Chinese", Code: "zh-CN", Locale: "cmn-CN"},
	{Name: "Arabic", Code: "ar", Locale: "ar-XA"},
	{Name: "Italian", Code: "it", Locale: "it-IT"},
	{Name: "Japanese", Code: "ja", Locale: "ja-JP"},
}

// All returns the languages in display order.
func All() []Language {
	out := make([]Language, len(table))
	copy(out, table)
	return out
}

// Lookup resolves a display name such as "French".
func Lookup(name string) (Language, bool) {
	for _, l := range table {
		if l.Name == name {
			return l, true
		}
	}
	return Language{}, false
}

func ByCode(code string) (Language, bool) {
	for _, l := range table {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}
