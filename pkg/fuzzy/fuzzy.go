// Package fuzzy matches typed words against keyword lists with a small edit
// distance tolerance, so "creat" or "ayduda" still count.
package fuzzy

import (
	"strings"
	"unicode"
)

// LevenshteinDistance calculates the edit distance between two strings
// This measures how many single-character edits (insertions, deletions, or substitutions)
// are required to change one string into another
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(Normalize(s1))
	r2 := []rune(Normalize(s2))
	m := len(r1)
	n := len(r2)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// Threshold is the edit distance tolerated for a keyword. Short keywords
// must match exactly, otherwise "add" would match "and".
func Threshold(keyword string) int {
	n := len([]rune(keyword))
	switch {
	case n < 5:
		return 0
	case n < 8:
		return 1
	default:
		return 2
	}
}

// MatchWord reports whether word is keyword, an inflection of it (keyword as
// prefix) or a near miss within Threshold.
func MatchWord(word, keyword string) bool {
	word = Normalize(word)
	keyword = Normalize(keyword)
	if word == "" || keyword == "" {
		return false
	}
	if word == keyword {
		return true
	}
	if len([]rune(keyword)) >= 4 && strings.HasPrefix(word, keyword) {
		return true
	}
	t := Threshold(keyword)
	return t > 0 && LevenshteinDistance(word, keyword) <= t
}

// MatchAny returns the first keyword any word of text matches.
func MatchAny(text string, keywords []string) (string, bool) {
	for _, word := range Words(text) {
		for _, kw := range keywords {
			if MatchWord(word, kw) {
				return kw, true
			}
		}
	}
	return "", false
}

// Words splits text into normalized words, dropping punctuation such as the
// inverted question mark.
func Words(text string) []string {
	return strings.FieldsFunc(Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Normalize lowercases, strips accents and collapses whitespace.
func Normalize(s string) string {
	s = removeAccents(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// removeAccents removes diacritical marks so "completá" and "completa" compare equal.
func removeAccents(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case 'á', 'à', 'â', 'ä':
			result.WriteRune('a')
		case 'é', 'è', 'ê', 'ë':
			result.WriteRune('e')
		case 'í', 'ì', 'î', 'ï':
			result.WriteRune('i')
		case 'ó', 'ò', 'ô', 'ö':
			result.WriteRune('o')
		case 'ú', 'ù', 'û', 'ü':
			result.WriteRune('u')
		case 'ñ':
			result.WriteRune('n')
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
