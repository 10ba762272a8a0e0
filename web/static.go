// Package web serves the browser page bundled into the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed static
var content embed.FS

// StaticHandler serves the embedded page and its assets.
type StaticHandler struct {
	files fs.FS
}

// NewStaticHandler creates a handler over the embedded static directory.
func NewStaticHandler() *StaticHandler {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return &StaticHandler{files: sub}
}

// ServeHTTP serves index.html for "/" and files by path otherwise.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	name = strings.TrimPrefix(name, "static/")
	if name == "" || name == "." {
		name = "index.html"
	}

	data, err := fs.ReadFile(h.files, name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType(name))
	if name != "index.html" {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
