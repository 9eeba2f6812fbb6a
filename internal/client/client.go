package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/SteliosSpanos/networking-projects/internal/headers"
)

const DefaultTimeout = 5 * time.Second

var ErrMalformedResponse = errors.New("malformed response")

type Response struct {
	Version    string
	StatusCode int
	Reason     string
	Headers    headers.Headers
	Body       []byte
}

// Get sends a single GET for target and reads the response until the
// server closes the connection.
func Get(address string, target string) (*Response, error) {
	conn, err := net.DialTimeout("tcp", address, DefaultTimeout)
	if err != nil { return nil, fmt.Errorf("connecting to %s: %w", address, err) }
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(DefaultTimeout)); err != nil { return nil, err }

	host, _, err := net.SplitHostPort(address)
	if err != nil { host = address }

	req := "GET " + target + " HTTP/1.1\r\n" +
		"Host: " + host + "\r\n" +
		"Connection: close\r\n" +
		"\r\n"
	if _, err := conn.Write([]byte(req)); err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	data, err := io.ReadAll(conn)
	if err != nil { return nil, fmt.Errorf("reading response: %w", err) }
	return ParseResponse(data)
}

func ParseResponse(data []byte) (*Response, error) {
	idx := bytes.Index(data, []byte("\r\n"))
	if idx == -1 { return nil, fmt.Errorf("%w: no status line", ErrMalformedResponse) }

	// parts[0] = version, parts[1] = status code, parts[2] = reason phrase
	parts := strings.SplitN(string(data[:idx]), " ", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: status line must have 3 parts", ErrMalformedResponse)
	}
	if !strings.HasPrefix(parts[0], "HTTP/") {
		return nil, fmt.Errorf("%w: unknown protocol %q", ErrMalformedResponse, parts[0])
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 3 {
		return nil, fmt.Errorf("%w: invalid status code %q", ErrMalformedResponse, parts[1])
	}

	r := &Response{
		Version:    parts[0],
		StatusCode: code,
		Reason:     parts[2],
		Headers:    headers.NewHeaders(),
	}

	pos := idx + 2
	for {
		n, done, err := r.Headers.Parse(data[pos:])
		if err != nil { return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err) }
		if n == 0 { return nil, fmt.Errorf("%w: unterminated header block", ErrMalformedResponse) }
		pos += n
		if done { break }
	}
	r.Body = data[pos:]

	if cl := r.Headers.Get("Content-Length"); cl != "" {
		content_length, err := strconv.Atoi(cl)
		if err != nil { return nil, fmt.Errorf("%w: invalid Content-Length %q", ErrMalformedResponse, cl) }
		if content_length != len(r.Body) {
			return nil, fmt.Errorf(
				"%w: Content-Length is %d but body has %d bytes",
				ErrMalformedResponse,
				content_length,
				len(r.Body),
			)
		}
	}
	return r, nil
}
