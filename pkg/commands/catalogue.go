package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
	"github.com/aretw0/tauribridge/pkg/session"
	"github.com/mitchellh/mapstructure"
)

// ParamType is the JSON type of a parameter.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeNumber ParamType = "number"
	TypeArray  ParamType = "array"
	// TypeAny accepts a string or a number.
	TypeAny ParamType = "any"
)

// Param describes one command argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// Call carries everything a handler may touch.
type Call struct {
	Session *session.Session
	Client  ports.Client
	// Wait is the resolved element-wait timeout.
	Wait time.Duration
	Args map[string]any
}

// Decode copies the arguments into a struct tagged with `mapstructure`.
// Numbers arrive as float64 from JSON and are converted to int fields.
func (c Call) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(c.Args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// Handler implements a command.
type Handler func(ctx context.Context, call Call) (domain.Result, error)

// Descriptor is a catalogue entry.
type Descriptor struct {
	Name        string
	Description string
	// Label prefixes every failure message of the command.
	Label        string
	Params       []Param
	NeedsSession bool
	Handler      Handler
}

// Validate checks that every required argument is present and that string
// parameters carry strings. Empty strings are allowed.
func (d Descriptor) Validate(args map[string]any) error {
	for _, p := range d.Params {
		v, ok := args[p.Name]
		if !ok || v == nil {
			if p.Required {
				return fmt.Errorf("missing required parameter %q", p.Name)
			}
			continue
		}
		if _, isString := v.(string); p.Type == TypeString && !isString {
			return fmt.Errorf("parameter %q must be a string, got %T", p.Name, v)
		}
	}
	return nil
}

// Catalogue maps command names to descriptors and keeps registration order.
type Catalogue struct {
	mu     sync.RWMutex
	byName map[string]Descriptor
	order  []string
}

// NewCatalogue creates an empty catalogue.
func NewCatalogue() *Catalogue {
	return &Catalogue{byName: make(map[string]Descriptor)}
}

// Default returns a catalogue holding every built-in session command.
func Default() *Catalogue {
	c := NewCatalogue()
	for _, d := range Builtin() {
		c.Register(d)
	}
	return c
}

// Register adds a descriptor. A descriptor with the same name is replaced in place.
func (c *Catalogue) Register(d Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byName[d.Name]; !exists {
		c.order = append(c.order, d.Name)
	}
	c.byName[d.Name] = d
}

// Lookup finds a descriptor by name.
func (c *Catalogue) Lookup(name string) (Descriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.byName[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", domain.ErrUnknownCommand, name)
	}
	return d, nil
}

// List returns the descriptors in registration order.
func (c *Catalogue) List() []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Descriptor, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

// Len is the number of registered commands.
func (c *Catalogue) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// TimeoutMillis extracts the optional "timeout" argument.
func TimeoutMillis(args map[string]any) int {
	switch v := args["timeout"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}
