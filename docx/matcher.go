package docx

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// matcher replaces every token of a value map in one left-to-right scan.
// Tokens are tried longest first so that a token which is a prefix of
// another never wins over it.
type matcher struct {
	re     *regexp.Regexp
	values map[string]string
	tokens []string
}

func newMatcher(values map[string]string) *matcher {
	m := &matcher{values: make(map[string]string, len(values))}
	for k, v := range values {
		k = norm.NFC.String(k)
		if k == "" {
			continue
		}
		m.values[k] = v
		m.tokens = append(m.tokens, k)
	}
	sort.Slice(m.tokens, func(i, j int) bool {
		a, b := m.tokens[i], m.tokens[j]
		if la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b); la != lb {
			return la > lb
		}
		return a < b
	})
	if len(m.tokens) == 0 {
		return m
	}
	quoted := make([]string, len(m.tokens))
	for i, t := range m.tokens {
		quoted[i] = regexp.QuoteMeta(t)
	}
	m.re = regexp.MustCompile(strings.Join(quoted, "|"))
	return m
}

// replace substitutes tokens in text and reports how many were found.
// Values are inserted verbatim and never rescanned.
func (m *matcher) replace(text string) (string, int) {
	if m.re == nil {
		return text, 0
	}
	text = norm.NFC.String(text)
	n := 0
	out := m.re.ReplaceAllStringFunc(text, func(tok string) string {
		n++
		return m.values[tok]
	})
	return out, n
}
