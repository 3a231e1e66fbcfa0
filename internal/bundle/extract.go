// Package bundle recovers submission records from the conference website's
// compiled JavaScript data chunk, which embeds them as
// JSON.parse(`[...]`).
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const previewRunes = 500

var (
	lazyPayload   = regexp.MustCompile("(?s)JSON\\.parse\\(`(\\[.*?\\])`\\)")
	greedyPayload = regexp.MustCompile("(?s)=\\s*JSON\\.parse\\(`(\\[.*\\])`\\)")
)

// ErrNoPayload is returned when the script embeds no JSON.parse payload.
var ErrNoPayload = errors.New("bundle: no JSON.parse payload found")

// ParseError reports a payload that stayed invalid after repair.
type ParseError struct {
	Reason  string
	Preview string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bundle: invalid payload: %s", e.Reason)
}

// Payload returns the raw template-literal text of the embedded array.
func Payload(script string) (string, error) {
	if m := lazyPayload.FindStringSubmatch(script); m != nil {
		return m[1], nil
	}
	if m := greedyPayload.FindStringSubmatch(script); m != nil {
		return m[1], nil
	}
	return "", ErrNoPayload
}

// Decode turns template-literal text into valid JSON. The text is first
// unescaped the way a template literal would be; if that is not valid JSON,
// backslashes that do not begin a JSON escape are dropped once.
func Decode(raw string) (string, error) {
	text := unescapeTemplate(raw)
	if gjson.Valid(text) {
		return text, nil
	}
	repaired := dropInvalidEscapes(text)
	if gjson.Valid(repaired) {
		return repaired, nil
	}
	return "", &ParseError{Reason: describe(repaired), Preview: preview(text)}
}

// unescapeTemplate resolves the escapes a template literal consumes
// (\\, \`, \$, \", \') and keeps every other backslash sequence intact.
func unescapeTemplate(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		switch next := s[i+1]; next {
		case '\\', '`', '$', '"', '\'':
			b.WriteByte(next)
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// dropInvalidEscapes removes backslashes that JSON would reject.
func dropInvalidEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(s) && validEscape(s[i+1:]) {
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i++
		}
	}
	return b.String()
}

func validEscape(rest string) bool {
	switch rest[0] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return true
	case 'u':
		if len(rest) < 5 {
			return false
		}
		for _, h := range rest[1:5] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", h) {
				return false
			}
		}
		return true
	}
	return false
}

// describe reports the first syntax error with its byte offset.
func describe(text string) string {
	var probe json.RawMessage
	err := json.Unmarshal([]byte(text), &probe)
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return fmt.Sprintf("%s at offset %d", syntax.Error(), syntax.Offset)
	}
	if err != nil {
		return err.Error()
	}
	return "payload is not valid JSON"
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	return string([]rune(s)[:previewRunes])
}
