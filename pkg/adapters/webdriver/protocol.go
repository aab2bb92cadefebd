package webdriver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tebeka/selenium"
)

// elementKey is the W3C web element identifier.
const elementKey = "element-6066-11e4-a52e-4f735466cecf"

// Error is a W3C error response.
type Error struct {
	Status  int
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Code, e.Status)
	}
	return e.Code + ": " + e.Message
}

// protocol sends raw commands to one session.
type protocol struct {
	base    string
	session string
	http    *http.Client
}

func (p *protocol) url(path string, args ...any) string {
	return strings.TrimRight(p.base, "/") + "/session/" + p.session + fmt.Sprintf(path, args...)
}

func (p *protocol) get(out any, path string, args ...any) error {
	return p.do(http.MethodGet, p.url(path, args...), nil, out)
}

func (p *protocol) post(body, out any, path string, args ...any) error {
	if body == nil {
		body = struct{}{}
	}
	return p.do(http.MethodPost, p.url(path, args...), body, out)
}

func (p *protocol) do(method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, url, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		wdErr := &Error{Status: resp.StatusCode}
		if len(envelope.Value) > 0 {
			_ = json.Unmarshal(envelope.Value, wdErr)
		}
		if wdErr.Code == "" {
			wdErr.Code = http.StatusText(resp.StatusCode)
		}
		return wdErr
	}

	if out == nil || len(envelope.Value) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Value, out)
}

// reference extracts the W3C element reference from a selenium element.
// The library keeps the id private but serialises elements as references.
func reference(we selenium.WebElement) (map[string]string, error) {
	data, err := json.Marshal(we)
	if err != nil {
		return nil, err
	}
	var ref map[string]string
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, err
	}
	id := ref[elementKey]
	if id == "" {
		id = ref["ELEMENT"]
	}
	if id == "" {
		return nil, errors.New("element has no reference id")
	}
	return map[string]string{elementKey: id}, nil
}
