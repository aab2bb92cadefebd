// Package locator resolves caller-facing locator strategies into engine-native locators.
package locator

import (
	"fmt"
	"strings"

	"github.com/aretw0/tauribridge/pkg/domain"
)

// aliases maps every accepted spelling (lowercase) onto a canonical strategy.
// "tag" is a legacy name kept for older clients: its value is used as a CSS selector.
var aliases = map[string]domain.Strategy{
	"id":                domain.StrategyID,
	"css":               domain.StrategyCSS,
	"tag":               domain.StrategyCSS,
	"xpath":             domain.StrategyXPath,
	"name":              domain.StrategyName,
	"class":             domain.StrategyClass,
	"classname":         domain.StrategyClass,
	"class_name":        domain.StrategyClass,
	"link-text":         domain.StrategyLinkText,
	"linktext":          domain.StrategyLinkText,
	"link_text":         domain.StrategyLinkText,
	"partial-link-text": domain.StrategyPartialLinkText,
	"partiallinktext":   domain.StrategyPartialLinkText,
	"partial_link_text": domain.StrategyPartialLinkText,
}

// Strategies returns the strategy names advertised to clients: every canonical
// name plus the camel-cased spellings older clients send.
func Strategies() []string {
	return []string{
		"id", "css", "xpath", "name", "tag", "class",
		"link-text", "partial-link-text",
		"linkText", "partialLinkText",
	}
}

// Canonical returns the canonical strategy for a (case-insensitive) name.
func Canonical(strategy string) (domain.Strategy, error) {
	s, ok := aliases[strings.ToLower(strings.TrimSpace(strategy))]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedStrategy, strategy)
	}
	return s, nil
}

// Resolve maps a (strategy, value) pair onto an engine-native locator.
// Unknown strategies fail immediately; there is no fallback strategy.
func Resolve(strategy, value string) (domain.Locator, error) {
	canonical, err := Canonical(strategy)
	if err != nil {
		return domain.Locator{}, err
	}

	loc := domain.Locator{Spec: domain.LocatorSpec{Strategy: strategy, Value: value}}

	// W3C drivers only implement css, xpath and the link-text strategies,
	// so id/name/class are expressed as CSS selectors.
	switch canonical {
	case domain.StrategyID:
		loc.Using, loc.Value = domain.UsingCSSSelector, "#"+EscapeCSS(value)
	case domain.StrategyName:
		loc.Using, loc.Value = domain.UsingCSSSelector, `*[name="`+escapeQuoted(value)+`"]`
	case domain.StrategyClass:
		loc.Using, loc.Value = domain.UsingCSSSelector, "."+EscapeCSS(value)
	case domain.StrategyCSS:
		loc.Using, loc.Value = domain.UsingCSSSelector, value
	case domain.StrategyXPath:
		loc.Using, loc.Value = domain.UsingXPath, value
	case domain.StrategyLinkText:
		loc.Using, loc.Value = domain.UsingLinkText, value
	case domain.StrategyPartialLinkText:
		loc.Using, loc.Value = domain.UsingPartialLinkText, value
	}
	return loc, nil
}

// MustResolve is Resolve for statically known locators; it panics on error.
func MustResolve(strategy, value string) domain.Locator {
	loc, err := Resolve(strategy, value)
	if err != nil {
		panic(err)
	}
	return loc
}

// EscapeCSS escapes an identifier for use in a CSS selector (CSS.escape semantics).
func EscapeCSS(ident string) string {
	var b strings.Builder
	for i, r := range ident {
		switch {
		case r == 0:
			b.WriteRune('\uFFFD')
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 0 && r >= '0' && r <= '9':
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 1 && r >= '0' && r <= '9' && ident[0] == '-':
			fmt.Fprintf(&b, "\\%x ", r)
		case i == 0 && r == '-' && len(ident) == 1:
			b.WriteString(`\-`)
		case r >= 0x80, r == '-', r == '_',
			r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		default:
			b.WriteRune('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeQuoted(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
