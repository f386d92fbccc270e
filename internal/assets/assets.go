// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package assets serves the single page application shell and its static
// files, either from a build directory on disk or from an embedded fallback.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
)

const indexFile = "index.html"

//go:embed static
var staticFS embed.FS

// Frontend holds the SPA shell and the file system its assets live in.
type Frontend struct {
	files  fs.FS
	index  []byte
	source string
}

// Embedded returns the frontend compiled into the binary.
func Embedded() *Frontend {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("failed to create sub filesystem: " + err.Error())
	}
	f, err := newFrontend(sub, "embedded")
	if err != nil {
		panic("embedded frontend is broken: " + err.Error())
	}
	return f
}

// Load returns the frontend built into dir. An empty dir yields the embedded
// fallback.
func Load(dir string) (*Frontend, error) {
	if dir == "" {
		slog.Debug("no frontend directory configured, using embedded shell")
		return Embedded(), nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("frontend directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("frontend directory %s is not a directory", dir)
	}

	f, err := newFrontend(os.DirFS(dir), dir)
	if err != nil {
		return nil, err
	}
	slog.Debug("frontend loaded", "dir", dir)
	return f, nil
}

func newFrontend(files fs.FS, source string) (*Frontend, error) {
	index, err := fs.ReadFile(files, indexFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %w", indexFile, source, err)
	}
	return &Frontend{files: files, index: index, source: source}, nil
}

// Index returns the SPA shell.
func (f *Frontend) Index() []byte {
	return f.index
}

// Source names where the frontend was loaded from.
func (f *Frontend) Source() string {
	return f.source
}

// FileServer returns an http.Handler that serves the frontend files. Mount it
// behind http.StripPrefix.
func (f *Frontend) FileServer() http.Handler {
	return http.FileServer(http.FS(f.files))
}
