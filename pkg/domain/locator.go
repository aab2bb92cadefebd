package domain

// Strategy names a method for identifying a UI element.
type Strategy string

// Canonical locator strategies.
const (
	StrategyID              Strategy = "id"
	StrategyCSS             Strategy = "css"
	StrategyXPath           Strategy = "xpath"
	StrategyName            Strategy = "name"
	StrategyClass           Strategy = "class"
	StrategyLinkText        Strategy = "link-text"
	StrategyPartialLinkText Strategy = "partial-link-text"
)

// WebDriver "using" values understood by W3C endpoints.
const (
	UsingCSSSelector     = "css selector"
	UsingXPath           = "xpath"
	UsingLinkText        = "link text"
	UsingPartialLinkText = "partial link text"
)

// LocatorSpec is the caller-facing description of an element lookup.
type LocatorSpec struct {
	Strategy string `json:"by" mapstructure:"by"`
	Value    string `json:"value" mapstructure:"value"`
}

// Locator is the engine-native form of a LocatorSpec.
type Locator struct {
	Using string `json:"using"`
	Value string `json:"value"`

	// Spec keeps the original request for error messages.
	Spec LocatorSpec `json:"-"`
}

// String renders the locator the way it was requested.
func (l Locator) String() string {
	return l.Spec.Strategy + "=" + l.Spec.Value
}
