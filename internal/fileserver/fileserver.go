// Package fileserver answers one parsed request with the contents of a file
// under a document root, or with an HTML error page.
package fileserver

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/SteliosSpanos/networking-projects/internal/request"
	"github.com/SteliosSpanos/networking-projects/internal/response"
)

const DefaultIndex = "index.html"

// Handler serves files below Root. Zero fields fall back to the defaults
// New would use.
type Handler struct {
	Root    string
	Index   string
	Reasons response.Reasons
	Logger  *slog.Logger

	open func(name string) (file, error)
}

type file interface {
	io.ReadCloser
	Stat() (fs.FileInfo, error)
}

func openFile(name string) (file, error) {
	f, err := os.Open(name)
	if err != nil { return nil, err }
	return f, nil
}

type Option func(*Handler)

func WithIndex(name string) Option {
	return func(h *Handler) { h.Index = name }
}

func WithReasons(reasons response.Reasons) Option {
	return func(h *Handler) { h.Reasons = reasons }
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil { h.Logger = logger }
	}
}

func New(root string, opts ...Option) *Handler {
	h := &Handler{
		Root:    root,
		Index:   DefaultIndex,
		Reasons: response.DefaultReasons(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		open:    openFile,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.Reasons = withDefaults(h.Reasons)
	return h
}

// withDefaults copies reasons and fills in every code the handler can
// send that the table leaves out.
func withDefaults(reasons response.Reasons) response.Reasons {
	merged := response.DefaultReasons()
	for code, reason := range reasons {
		merged[code] = reason
	}
	return merged
}

func (h *Handler) reasons() response.Reasons {
	if h.Reasons == nil { return response.DefaultReasons() }
	return h.Reasons
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
	return h.Logger
}

func (h *Handler) index() string {
	if h.Index == "" { return DefaultIndex }
	return h.Index
}

// Respond parses buf and writes the response to w. An empty buffer means
// the peer went away, so nothing is written. The only errors returned are
// write failures.
func (h *Handler) Respond(w io.Writer, buf []byte) error {
	req, err := request.Parse(buf)
	if errors.Is(err, request.ErrPeerClosed) { return nil }
	if err != nil {
		h.logger().Debug("Rejected request", "err", err, "status", int(response.StatusBadRequest))
		return response.WriteError(w, h.reasons(), response.StatusBadRequest)
	}
	return h.Serve(w, req)
}

func (h *Handler) Serve(w io.Writer, req *request.Request) error {
	if req.Method != "GET" {
		return h.fail(w, req, response.StatusMethodNotAllowed, nil)
	}
	if strings.Contains(req.Path, "..") {
		return h.fail(w, req, response.StatusForbidden, nil)
	}

	target, ok := h.resolve(req.Path)
	if !ok {
		return h.fail(w, req, response.StatusForbidden, nil)
	}

	body, status, err := h.readFile(target)
	if status != response.StatusOK {
		return h.fail(w, req, status, err)
	}

	h.logger().Debug("Serving file",
		"method", req.Method,
		"path", req.Path,
		"status", int(response.StatusOK),
		"size", len(body),
	)
	return response.WriteOK(w, h.reasons(), body)
}

// resolve maps a request path to a file under the document root. The path
// is appended to the root as is, so "/a.html/" stays a lookup of a
// directory named a.html. The second result is false if the target would
// leave the root.
func (h *Handler) resolve(path string) (string, bool) {
	if path == "/" { path = "/" + h.index() }

	target := h.Root + filepath.FromSlash(path)
	root := filepath.Clean(h.Root)
	rel, err := filepath.Rel(root, filepath.Clean(target))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

// readFile loads the whole file at target. The returned status says which
// response the outcome maps to.
func (h *Handler) readFile(target string) ([]byte, response.StatusCode, error) {
	open := h.open
	if open == nil { open = openFile }
	f, err := open(target)
	if err != nil { return nil, response.StatusNotFound, err }
	defer f.Close()

	info, err := f.Stat()
	if err != nil { return nil, response.StatusInternalServerError, err }
	if info.IsDir() { return nil, response.StatusNotFound, nil }

	buf := make([]byte, info.Size())
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, response.StatusInternalServerError, err
	}
	return buf, response.StatusOK, nil
}

func (h *Handler) fail(w io.Writer, req *request.Request, status response.StatusCode, cause error) error {
	attrs := []any{
		"method", req.Method,
		"path", req.Path,
		"status", int(status),
	}
	if cause != nil { attrs = append(attrs, "err", cause) }
	if status == response.StatusInternalServerError {
		h.logger().Warn("Failed to read file", attrs...)
	} else {
		h.logger().Debug("Rejected request", attrs...)
	}
	return response.WriteError(w, h.reasons(), status)
}
