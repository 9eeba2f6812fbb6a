package response

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/SteliosSpanos/networking-projects/internal/headers"
)

type StatusCode int

const (
	StatusOK                  StatusCode = 200
	StatusBadRequest          StatusCode = 400
	StatusForbidden           StatusCode = 403
	StatusNotFound            StatusCode = 404
	StatusMethodNotAllowed    StatusCode = 405
	StatusInternalServerError StatusCode = 500
)

const contentType = "text/html"

var ErrUnknownStatus = errors.New("unknown status code")

// Reasons maps every status code a responder may send to its reason phrase.
type Reasons map[StatusCode]string

func DefaultReasons() Reasons {
	return Reasons{
		StatusOK:                  "OK",
		StatusBadRequest:          "Bad Request",
		StatusForbidden:           "Forbidden",
		StatusNotFound:            "Not Found",
		StatusMethodNotAllowed:    "Method Not Allowed",
		StatusInternalServerError: "Internal Server Error",
	}
}

func (r Reasons) lookup(code StatusCode) (string, error) {
	reason, ok := r[code]
	if !ok { return "", fmt.Errorf("%w: %d", ErrUnknownStatus, code) }
	return reason, nil
}

// TransportError is returned when the response could not be written back.
// Nothing more can be sent on the connection after one.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "writing " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func WriteStatusLine(w io.Writer, reasons Reasons, statusCode StatusCode) error {
	reason, err := reasons.lookup(statusCode)
	if err != nil { return err }
	_, err = w.Write([]byte("HTTP/1.1 " + strconv.Itoa(int(statusCode)) + " " + reason + "\r\n"))
	return err
}

func GetDefaultHeaders(bodySize int) headers.Headers {
	h := headers.NewHeaders()

	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(bodySize))
	h.Set("Connection", "close")

	return h
}

func WriteHeaders(w io.Writer, h headers.Headers) error {
	var err error
	h.Each(func(name, value string) {
		if err != nil { return }
		_, err = w.Write([]byte(name + ": " + value + "\r\n"))
	})
	if err != nil { return err }
	_, err = w.Write([]byte("\r\n"))
	return err
}

func ErrorBody(code StatusCode, reason string) []byte {
	title := strconv.Itoa(int(code)) + " " + reason
	return []byte("<html><head><title>" + title + "</title></head><body><h1>" + title + "</h1></body></html>")
}

// WriteError sends a complete HTML error response for code in one write.
func WriteError(w io.Writer, reasons Reasons, code StatusCode) error {
	reason, err := reasons.lookup(code)
	if err != nil { return err }
	body := ErrorBody(code, reason)

	buf := bytes.NewBuffer(nil)
	if err := writeHeaderBlock(buf, reasons, code, len(body)); err != nil { return err }
	buf.Write(body)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &TransportError{Op: "error response", Err: err}
	}
	return nil
}

// WriteOK sends the 200 header block followed by body.
func WriteOK(w io.Writer, reasons Reasons, body []byte) error {
	buf := bytes.NewBuffer(nil)
	if err := writeHeaderBlock(buf, reasons, StatusOK, len(body)); err != nil { return err }

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &TransportError{Op: "headers", Err: err}
	}
	if _, err := w.Write(body); err != nil {
		return &TransportError{Op: "body", Err: err}
	}
	return nil
}

func writeHeaderBlock(buf *bytes.Buffer, reasons Reasons, code StatusCode, bodySize int) error {
	if err := WriteStatusLine(buf, reasons, code); err != nil { return err }
	return WriteHeaders(buf, GetDefaultHeaders(bodySize))
}
