package domain

// Point is a position in CSS pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect combines a position and a size.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Timeouts mirrors the WebDriver session timeouts, in milliseconds.
type Timeouts struct {
	Script   int `json:"script"`
	PageLoad int `json:"pageLoad"`
	Implicit int `json:"implicit"`
}

// DefaultTimeouts are the W3C defaults a fresh session starts with.
func DefaultTimeouts() Timeouts {
	return Timeouts{Script: 30000, PageLoad: 300000, Implicit: 0}
}
