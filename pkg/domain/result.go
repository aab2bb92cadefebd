package domain

import (
	"encoding/json"
	"fmt"
)

// Result is the uniform outcome of a command.
// A failed Result carries a human-readable Message and never a panic.
type Result struct {
	Text    string `json:"text,omitempty"`
	Data    any    `json:"data,omitempty"`
	Image   []byte `json:"-"`
	IsError bool   `json:"is_error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text builds a textual success result.
func Text(format string, args ...any) Result {
	if len(args) == 0 {
		return Result{Text: format}
	}
	return Result{Text: fmt.Sprintf(format, args...)}
}

// Data builds a structured success result rendered as indented JSON.
func Data(v any) Result {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Result{Data: v, Text: fmt.Sprintf("%v", v)}
	}
	return Result{Data: v, Text: string(out)}
}

// Image builds a PNG success result with a caption.
func Image(caption string, png []byte) Result {
	return Result{Text: caption, Image: png}
}

// Failure builds a failed result labelled with the operation that failed.
func Failure(label string, err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if label != "" {
		msg = label + ": " + msg
	}
	return Result{IsError: true, Message: msg}
}

// Output returns the text a transport should display for this result.
func (r Result) Output() string {
	if r.IsError {
		return r.Message
	}
	return r.Text
}
