package headers

import (
	"bytes"
	"fmt"
	"strings"
)

type field struct {
	name  string
	value string
}

// Headers keeps field lines in insertion order. The response wire format
// fixes the order of its header lines, so a plain map cannot be used.
type Headers struct {
	fields []field
}

func NewHeaders() Headers {
	return Headers{}
}

func (h Headers) index(key string) int {
	for i, f := range h.fields {
		if strings.EqualFold(f.name, key) { return i }
	}
	return -1
}

func (h Headers) Get(key string) string {
	// Header names are case-insensitive
	if i := h.index(key); i != -1 {
		return h.fields[i].value
	}
	return ""
}

// Overwrites value in header, keeping its position
func (h *Headers) Set(key string, value string) {
	if key == "" { return }
	if i := h.index(key); i != -1 {
		h.fields[i].value = value
		return
	}
	h.fields = append(h.fields, field{key, value})
}

// Adds value to header
func (h *Headers) Add(key string, value string) {
	if key == "" || value == "" { return }

	// RFC 9110 5.2
	// There can be multiple header lines with the same key
	if i := h.index(key); i != -1 {
		h.fields[i].value = h.fields[i].value + ", " + value
		return
	}
	h.fields = append(h.fields, field{key, value})
}

func (h Headers) Len() int {
	return len(h.fields)
}

// Each calls fn for every field in insertion order.
func (h Headers) Each(fn func(name, value string)) {
	for _, f := range h.fields {
		fn(f.name, f.value)
	}
}

// Parse consumes a single field line. done is true once the empty line
// ending the header block has been consumed.
func (h *Headers) Parse(data []byte) (n int, done bool, err error) {
	idx := bytes.Index(data, []byte("\r\n"))
	if idx == -1 { return 0, false, nil }
	if idx == 0 { return 2, true, nil } // found end of headers, consume crlf

	parts := bytes.SplitN(data[:idx], []byte(":"), 2)
	if len(parts) != 2 {
		return 0, false, fmt.Errorf("invalid header: '%s'", string(data[:idx]))
	}

	key := strings.TrimLeft(string(parts[0]), " ")
	if strings.TrimRight(key, " ") != key {
		return 0, false, fmt.Errorf("invalid header key: '%s'", key)
	}
	if !isValidHeaderName(key) {
		return 0, false, fmt.Errorf("invalid character in header name: '%s'", key)
	}
	value := strings.TrimSpace(string(parts[1]))

	h.Add(key, value)
	return idx + 2, false, nil
}

// See RFC 9110 5.1 and 5.6.2
func isValidHeaderName(s string) bool {
	if s == "" { return false }
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '!' || r == '#' || r == '$' || r == '%' || r == '&' ||
			r == '\'' || r == '*' || r == '+' || r == '-' || r == '.' ||
			r == '^' || r == '_' || r == '`' || r == '|' || r == '~':
			continue
		default:
			return false
		}
	}
	return true
}
