package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug builds a URL-safe slug from a display name:
// transliterate Cyrillic to latin, lowercase, hyphenate, strip the rest.
func GenerateSlug(input string) string {
	latin := Transliterate(input)

	lower := strings.ToLower(latin)
	hyphenated := strings.ReplaceAll(lower, " ", "-")

	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")
	normalized := slugHyphenRuns.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}

// Transliterate converts Ukrainian/Russian Cyrillic text to its latin
// spelling. Unknown characters pass through unchanged.
func Transliterate(input string) string {
	mappings := map[rune]string{
		'а': "a", 'б': "b", 'в': "v", 'г': "g", 'ґ': "g", 'д': "d",
		'е': "e", 'є': "ye", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
		'і': "i", 'ї': "yi", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
		'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
		'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh",
		'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
		'я': "ya",

		'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Ґ': "G", 'Д': "D",
		'Е': "E", 'Є': "Ye", 'Ё': "Yo", 'Ж': "Zh", 'З': "Z", 'И': "I",
		'І': "I", 'Ї': "Yi", 'Й': "Y", 'К': "K", 'Л': "L", 'М': "M",
		'Н': "N", 'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T",
		'У': "U", 'Ф': "F", 'Х': "H", 'Ц': "Ts", 'Ч': "Ch", 'Ш': "Sh",
		'Щ': "Shch", 'Ъ': "", 'Ы': "Y", 'Ь': "", 'Э': "E", 'Ю': "Yu",
		'Я': "Ya",
	}

	var b strings.Builder
	b.Grow(len(input))

	for _, r := range input {
		if replacement, ok := mappings[r]; ok {
			b.WriteString(replacement)
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}
