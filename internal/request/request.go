package request

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	MaxMethodLen  = 15
	MaxPathLen    = 255
	MaxVersionLen = 15

	// BufferSize is how much of a connection is read for one request.
	BufferSize = 4096
)

var (
	// ErrPeerClosed means nothing was received. It ends the exchange
	// without a response.
	ErrPeerClosed = errors.New("peer closed connection")
	ErrMalformed  = errors.New("malformed request line")
)

type Request struct {
	Method  string
	Path    string
	Version string
}

// ReadRequest does a single Read from reader and parses whatever arrived.
// Requests split across several segments are not reassembled.
func ReadRequest(reader io.Reader) (*Request, error) {
	buf := make([]byte, BufferSize)
	n, err := reader.Read(buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) { return nil, ErrPeerClosed }
		return nil, fmt.Errorf("reading request: %w", err)
	}
	return Parse(buf[:n])
}

// Parse extracts method, path and version from the start of buf. Anything
// after the third token, headers included, is ignored.
func Parse(buf []byte) (*Request, error) {
	if len(buf) == 0 { return nil, ErrPeerClosed }

	widths := [3]int{MaxMethodLen, MaxPathLen, MaxVersionLen}
	var tokens [3]string
	pos := 0
	for i, width := range widths {
		token, next, err := scanToken(buf, pos, width)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: %v", ErrMalformed, i+1, err)
		}
		tokens[i] = token
		pos = next
	}

	if !strings.HasPrefix(tokens[1], "/") {
		return nil, fmt.Errorf("%w: request target must start with a slash", ErrMalformed)
	}

	return &Request{
		Method:  tokens[0],
		Path:    tokens[1],
		Version: tokens[2],
	}, nil
}

// scanToken skips leading whitespace and reads one token of at most width
// bytes starting at pos. It returns the offset just past the token.
func scanToken(buf []byte, pos int, width int) (string, int, error) {
	for pos < len(buf) && isSpace(buf[pos]) {
		pos++
	}
	start := pos
	for pos < len(buf) && !isSpace(buf[pos]) {
		if pos-start == width {
			return "", 0, fmt.Errorf("token longer than %d bytes", width)
		}
		pos++
	}
	if pos == start { return "", 0, errors.New("missing token") }
	return string(buf[start:pos]), pos, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}
