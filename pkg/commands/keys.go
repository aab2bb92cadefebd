package commands

import "strings"

// namedKeys maps key names to WebDriver key code points.
var namedKeys = map[string]string{
	"null":       "\uE000",
	"cancel":     "\uE001",
	"help":       "\uE002",
	"backspace":  "\uE003",
	"tab":        "\uE004",
	"clear":      "\uE005",
	"return":     "\uE006",
	"enter":      "\uE007",
	"shift":      "\uE008",
	"control":    "\uE009",
	"ctrl":       "\uE009",
	"alt":        "\uE00A",
	"pause":      "\uE00B",
	"escape":     "\uE00C",
	"esc":        "\uE00C",
	"space":      "\uE00D",
	"pageup":     "\uE00E",
	"pagedown":   "\uE00F",
	"end":        "\uE010",
	"home":       "\uE011",
	"arrowleft":  "\uE012",
	"left":       "\uE012",
	"arrowup":    "\uE013",
	"up":         "\uE013",
	"arrowright": "\uE014",
	"right":      "\uE014",
	"arrowdown":  "\uE015",
	"down":       "\uE015",
	"insert":     "\uE016",
	"delete":     "\uE017",
	"semicolon":  "\uE018",
	"equals":     "\uE019",
	"f1":         "\uE031",
	"f2":         "\uE032",
	"f3":         "\uE033",
	"f4":         "\uE034",
	"f5":         "\uE035",
	"f6":         "\uE036",
	"f7":         "\uE037",
	"f8":         "\uE038",
	"f9":         "\uE039",
	"f10":        "\uE03A",
	"f11":        "\uE03B",
	"f12":        "\uE03C",
	"meta":       "\uE03D",
	"command":    "\uE03D",
	"cmd":        "\uE03D",
}

// KeyCode converts a key name ("Enter", "Shift", "a") into the value sent to the driver.
// Single characters and unknown names pass through unchanged.
func KeyCode(key string) string {
	if len([]rune(key)) == 1 {
		return key
	}
	normalized := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(key))
	if code, ok := namedKeys[normalized]; ok {
		return code
	}
	return key
}
