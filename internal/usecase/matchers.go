package usecase

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// productPage is the parsed view of a fetched document that matchers query
type productPage struct {
	raw   string
	lower string
	doc   *goquery.Document
}

func newProductPage(html string) (*productPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &productPage{
		raw:   html,
		lower: strings.ToLower(html),
		doc:   doc,
	}, nil
}

// matcher recovers a single field from a page. ok is false when nothing matched.
type matcher func(p *productPage) (value string, ok bool)

// firstMatch runs matchers in order and returns the first present result.
func firstMatch(p *productPage, matchers ...matcher) (string, bool) {
	for _, m := range matchers {
		if value, ok := m(p); ok {
			return value, true
		}
	}
	return "", false
}

// patternMatcher captures the first group of re from the raw markup.
func patternMatcher(re *regexp.Regexp) matcher {
	return func(p *productPage) (string, bool) {
		groups := re.FindStringSubmatch(p.raw)
		if len(groups) < 2 {
			return "", false
		}
		return presentText(groups[1])
	}
}

// selectorText returns the text of the first element matching selector.
func selectorText(selector string) matcher {
	return func(p *productPage) (string, bool) {
		return presentText(p.doc.Find(selector).First().Text())
	}
}

// selectorAttr returns attr of the first element matching selector.
func selectorAttr(selector, attr string) matcher {
	return func(p *productPage) (string, bool) {
		value, exists := p.doc.Find(selector).First().Attr(attr)
		if !exists {
			return "", false
		}
		return presentText(value)
	}
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

func presentText(s string) (string, bool) {
	s = strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
	return s, s != ""
}

// containsAny reports whether the lower-cased page contains any of the markers.
func (p *productPage) containsAny(markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(p.lower, marker) {
			return true
		}
	}
	return false
}

// transformed applies fn to the value of m; the result counts as a match only when fn accepts it.
func transformed(m matcher, fn func(string) (string, bool)) matcher {
	return func(p *productPage) (string, bool) {
		value, ok := m(p)
		if !ok {
			return "", false
		}
		return fn(value)
	}
}
