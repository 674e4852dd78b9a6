package util

import (
	"strings"
	"unicode"

	"github.com/m4gshm/gollections/slice"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var title = cases.Title(language.Und)

// Words splits an identifier into words on separators and case boundaries:
// "dueDate" -> [due Date], "APIBundle" -> [API Bundle], "invoice_line" -> [invoice line].
func Words(s string) []string {
	var (
		words []string
		word  []rune
		runes = []rune(s)
	)
	flush := func() {
		if len(word) > 0 {
			words = append(words, string(word))
			word = word[:0]
		}
	}
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' || r == '/' || r == '\\' || r == '.' {
			flush()
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		word = append(word, r)
	}
	flush()
	return words
}

func Snake(s string) string {
	return strings.Join(slice.Convert(Words(s), strings.ToLower), "_")
}

func Kebab(s string) string {
	return strings.Join(slice.Convert(Words(s), strings.ToLower), "-")
}

func Pascal(s string) string {
	return strings.Join(slice.Convert(Words(s), title.String), "")
}

func Camel(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	return strings.ToLower(words[0]) + strings.Join(slice.Convert(words[1:], title.String), "")
}

// LowerInitial lowers the leading upper case run the way Go initialisms are written:
// "Invoice" -> "invoice", "ID" -> "id", "URLPath" -> "urlPath".
func LowerInitial(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n > 1 && n < len(runes) && unicode.IsLower(runes[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
