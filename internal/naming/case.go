package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', ' ', '.':
		return true
	}

	return false
}

// Tokens splits an identifier into lowercase words at separators and case
// boundaries. An acronym stays one word unless its last letter starts the
// next word: "XMLParser" gives ["xml", "parser"], "OrderID" gives
// ["order", "id"].
func Tokens(s string) []string {
	var out []string

	for _, word := range strings.FieldsFunc(s, isSeparator) {
		for _, part := range splitCase([]rune(word)) {
			out = append(out, strings.ToLower(part))
		}
	}

	return out
}

// splitCase cuts a word without separators before every upper case letter
// that follows a lower case one, and before the last letter of an upper
// case run followed by a lower case letter.
func splitCase(w []rune) []string {
	var (
		parts []string
		start int
	)

	for i := 1; i < len(w); i++ {
		if !unicode.IsUpper(w[i]) {
			continue
		}

		afterLower := !unicode.IsUpper(w[i-1])
		endsAcronym := i+1 < len(w) && unicode.IsLower(w[i+1])

		if afterLower || endsAcronym {
			parts = append(parts, string(w[start:i]))
			start = i
		}
	}

	return append(parts, string(w[start:]))
}

// Normalize reduces an identifier to lowercase letters and digits so that
// "UserName", "user_name" and "user-name" compare equal.
func Normalize(s string) string {
	return strings.Join(Tokens(s), "")
}

// LowerCamel converts an identifier into lowerCamelCase. A leading acronym
// is lowered as a whole: "ID" gives "id", "URLPath" gives "urlPath".
func LowerCamel(s string) string {
	words := Tokens(s)
	if len(words) == 0 {
		return ""
	}

	return words[0] + joinTitled(words[1:])
}

// UpperCamel converts an identifier into UpperCamelCase.
func UpperCamel(s string) string {
	return joinTitled(Tokens(s))
}

// Snake converts an identifier into snake_case.
func Snake(s string) string {
	return strings.Join(Tokens(s), "_")
}

func joinTitled(words []string) string {
	var b strings.Builder

	for _, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(w[size:])
	}

	return b.String()
}
