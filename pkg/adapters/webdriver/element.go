package webdriver

import (
	"fmt"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
	"github.com/tebeka/selenium"
)

// Element adapts a selenium element to ports.Element.
type Element struct {
	we    selenium.WebElement
	proto *protocol
}

func (e *Element) Click() error               { return e.we.Click() }
func (e *Element) Clear() error               { return e.we.Clear() }
func (e *Element) SendKeys(text string) error { return e.we.SendKeys(text) }
func (e *Element) Submit() error              { return e.we.Submit() }
func (e *Element) Text() (string, error)      { return e.we.Text() }
func (e *Element) TagName() (string, error)   { return e.we.TagName() }
func (e *Element) IsDisplayed() (bool, error) { return e.we.IsDisplayed() }
func (e *Element) IsEnabled() (bool, error)   { return e.we.IsEnabled() }
func (e *Element) IsSelected() (bool, error)  { return e.we.IsSelected() }

func (e *Element) Attribute(name string) (string, error) { return e.we.GetAttribute(name) }
func (e *Element) CSSValue(name string) (string, error)  { return e.we.CSSProperty(name) }

// Property reads a DOM property; the value keeps its JSON type.
func (e *Element) Property(name string) (any, error) {
	id, err := e.id()
	if err != nil {
		return nil, err
	}
	var v any
	if err := e.proto.get(&v, "/element/%s/property/%s", id, name); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Element) Location() (domain.Point, error) {
	pt, err := e.we.Location()
	if err != nil {
		return domain.Point{}, err
	}
	return domain.Point{X: pt.X, Y: pt.Y}, nil
}

func (e *Element) Size() (domain.Size, error) {
	sz, err := e.we.Size()
	if err != nil {
		return domain.Size{}, err
	}
	return domain.Size{Width: sz.Width, Height: sz.Height}, nil
}

func (e *Element) FindElement(loc domain.Locator) (ports.Element, error) {
	we, err := e.we.FindElement(loc.Using, loc.Value)
	if err != nil {
		return nil, err
	}
	return &Element{we: we, proto: e.proto}, nil
}

func (e *Element) Screenshot() ([]byte, error) { return e.we.Screenshot(false) }

func (e *Element) ref() (map[string]string, error) {
	return reference(e.we)
}

func (e *Element) id() (string, error) {
	ref, err := e.ref()
	if err != nil {
		return "", err
	}
	return ref[elementKey], nil
}

// unwrap returns the selenium element behind a ports.Element.
func unwrap(el ports.Element) (selenium.WebElement, error) {
	e, ok := el.(*Element)
	if !ok || e == nil {
		return nil, fmt.Errorf("element %T does not belong to this engine", el)
	}
	return e.we, nil
}

var _ ports.Element = (*Element)(nil)
