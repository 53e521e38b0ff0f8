package templates

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kalkulator/blogbuilder/internal/post"
)

// Placeholder tokens understood by the expander.
const (
	PlaceholderKeywordTitle    = "{keyword_title}"
	PlaceholderCalculatorTitle = "{calculator_title}"
	PlaceholderKeyword         = "{keyword}"
)

var placeholderPattern = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// fillerPhrases are leading question words dropped from a keyword before it becomes a title.
var fillerPhrases = [][]string{
	{"how", "to"},
	{"kako"},
	{"koliko"},
	{"how"},
}

// Expander expands title and description patterns.
type Expander struct {
	upper cases.Caser
}

// NewExpander returns an expander that capitalizes with the casing rules of lang.
func NewExpander(lang language.Tag) *Expander {
	return &Expander{upper: cases.Upper(lang)}
}

// ExpandTitle expands a title pattern for in using tpl's defaults.
func (e *Expander) ExpandTitle(pattern string, in post.Input, tpl ContentTemplate) string {
	return e.expand(pattern, in, tpl)
}

// ExpandDescription expands a meta-description pattern for in using tpl's defaults.
func (e *Expander) ExpandDescription(pattern string, in post.Input, tpl ContentTemplate) string {
	return e.expand(pattern, in, tpl)
}

// Unknown placeholders are left verbatim; see UnresolvedPlaceholders.
func (e *Expander) expand(pattern string, in post.Input, tpl ContentTemplate) string {
	values := map[string]string{
		PlaceholderKeywordTitle:    e.KeywordTitle(in.MainKeyword),
		PlaceholderCalculatorTitle: ResolveCalculator(in, tpl).Title,
		PlaceholderKeyword:         strings.TrimSpace(in.MainKeyword),
	}
	return placeholderPattern.ReplaceAllStringFunc(pattern, func(token string) string {
		if v, ok := values[token]; ok {
			return v
		}
		return token
	})
}

// KeywordTitle strips one leading filler phrase from keyword and upper-cases its first
// character. The rest of the keyword is kept as written.
func (e *Expander) KeywordTitle(keyword string) string {
	words := strings.Fields(keyword)
	for _, filler := range fillerPhrases {
		if len(words) > len(filler) && hasPrefixFold(words, filler) {
			words = words[len(filler):]
			break
		}
	}
	if len(words) == 0 {
		return ""
	}
	return e.capitalizeFirst(strings.Join(words, " "))
}

func (e *Expander) capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return e.upper.String(string(r)) + s[size:]
}

func hasPrefixFold(words, prefix []string) bool {
	for i, p := range prefix {
		if !strings.EqualFold(words[i], p) {
			return false
		}
	}
	return true
}

// ResolveCalculator returns the primary calculator: explicit input values win over the
// template default, field by field.
func ResolveCalculator(in post.Input, tpl ContentTemplate) post.Calculator {
	calc := tpl.CalculatorDefault
	if in.Calculator != nil {
		if t := strings.TrimSpace(in.Calculator.Title); t != "" {
			calc.Title = t
		}
		if l := strings.TrimSpace(in.Calculator.Link); l != "" {
			calc.Link = l
		}
	}
	return calc
}

// ResolveSecondaryCalculators returns the input's related calculators, or the template's.
func ResolveSecondaryCalculators(in post.Input, tpl ContentTemplate) []post.Calculator {
	if len(in.SecondaryCalculators) > 0 {
		return in.SecondaryCalculators
	}
	return tpl.SecondaryCalculators
}

// UnresolvedPlaceholders lists placeholder-shaped tokens left in s after expansion.
func UnresolvedPlaceholders(s string) []string {
	return placeholderPattern.FindAllString(s, -1)
}
