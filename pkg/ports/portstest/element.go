package portstest

import (
	"fmt"
	"sync"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
)

// PNG is the image returned by every fake screenshot (a PNG signature).
var PNG = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Element is a fake UI element.
type Element struct {
	mu sync.Mutex

	Name      string
	Tag       string
	Content   string
	Attrs     map[string]string
	CSS       map[string]string
	Displayed bool
	Enabled   bool
	Selected  bool
	Loc       domain.Point
	Dim       domain.Size
	Children  map[string]*Element

	// Err is returned by every interaction when set.
	Err error

	Typed   string
	Clicks  int
	Submits int
}

// NewElement creates a visible, enabled element.
func NewElement(name, tag, text string) *Element {
	return &Element{
		Name:      name,
		Tag:       tag,
		Content:   text,
		Attrs:     map[string]string{},
		CSS:       map[string]string{},
		Displayed: true,
		Enabled:   true,
		Children:  map[string]*Element{},
	}
}

// AddChild registers child under loc for Element.FindElement.
func (e *Element) AddChild(loc domain.Locator, child *Element) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Children[key(loc)] = child
	return e
}

// Snapshot returns the recorded interaction counters.
func (e *Element) Snapshot() (typed string, clicks, submits int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Typed, e.Clicks, e.Submits
}

func (e *Element) Click() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Clicks++
	switch {
	case e.Tag == "option":
		e.Selected = true
	case e.Attrs["type"] == "checkbox":
		e.Selected = !e.Selected
	}
	return nil
}

func (e *Element) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Typed = ""
	return nil
}

func (e *Element) SendKeys(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Typed += text
	return nil
}

func (e *Element) Submit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.Submits++
	return nil
}

func (e *Element) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Content, e.Err
}

func (e *Element) TagName() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Tag, e.Err
}

func (e *Element) Attribute(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return "", e.Err
	}
	if name == "value" {
		if v, ok := e.Attrs[name]; ok {
			return v + e.Typed, nil
		}
		return e.Typed, nil
	}
	return e.Attrs[name], nil
}

func (e *Element) CSSValue(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.CSS[name], e.Err
}

func (e *Element) IsDisplayed() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Displayed, e.Err
}

func (e *Element) IsEnabled() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Enabled, e.Err
}

func (e *Element) IsSelected() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Selected, e.Err
}

func (e *Element) Property(name string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	switch name {
	case "value":
		return e.Typed, nil
	case "checked", "selected":
		return e.Selected, nil
	case "tagName":
		return e.Tag, nil
	}
	if v, ok := e.Attrs[name]; ok {
		return v, nil
	}
	return nil, nil
}

func (e *Element) Location() (domain.Point, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Loc, e.Err
}

func (e *Element) Size() (domain.Size, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Dim, e.Err
}

func (e *Element) FindElement(loc domain.Locator) (ports.Element, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if child, ok := e.Children[key(loc)]; ok {
		return child, nil
	}
	return nil, fmt.Errorf("no such element: %s", loc)
}

func (e *Element) Screenshot() ([]byte, error) {
	return PNG, e.Err
}

// SetDisplayed changes visibility under the element lock.
func (e *Element) SetDisplayed(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Displayed = v
}

// key identifies a locator by its engine-native form.
func key(loc domain.Locator) string {
	return loc.Using + "=" + loc.Value
}

var _ ports.Element = (*Element)(nil)
