package webdriver

// Input sources used for synthesised actions. tauri-driver keeps their state
// (held buttons and keys) between requests.
const (
	pointerSource  = "mouse"
	keyboardSource = "keyboard"

	buttonLeft  = 0
	buttonRight = 2
)

type inputAction map[string]any

type inputSource struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Actions    []inputAction  `json:"actions"`
}

func pointer(actions ...inputAction) inputSource {
	return inputSource{
		Type:       "pointer",
		ID:         pointerSource,
		Parameters: map[string]any{"pointerType": "mouse"},
		Actions:    actions,
	}
}

func keyboard(actions ...inputAction) inputSource {
	return inputSource{Type: "key", ID: keyboardSource, Actions: actions}
}

func moveTo(ref map[string]string) inputAction {
	return inputAction{"type": "pointerMove", "duration": 0, "origin": ref, "x": 0, "y": 0}
}

func moveBy(dx, dy int) inputAction {
	return inputAction{"type": "pointerMove", "duration": 0, "origin": "pointer", "x": dx, "y": dy}
}

func press(button int) inputAction   { return inputAction{"type": "pointerDown", "button": button} }
func release(button int) inputAction { return inputAction{"type": "pointerUp", "button": button} }
func keyDown(key string) inputAction  { return inputAction{"type": "keyDown", "value": key} }
func keyUp(key string) inputAction    { return inputAction{"type": "keyUp", "value": key} }

func (p *protocol) perform(sources ...inputSource) error {
	return p.post(map[string]any{"actions": sources}, nil, "/actions")
}

func typing(text string) []inputAction {
	out := make([]inputAction, 0, 2*len(text))
	for _, r := range text {
		out = append(out, keyDown(string(r)), keyUp(string(r)))
	}
	return out
}
