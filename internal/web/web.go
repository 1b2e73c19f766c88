// Package web sirve el dashboard de una sola página: un shell html/template y assets embebidos.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/index.html static
var files embed.FS

type page struct {
	AppName string
	Version string
}

type Handler struct {
	index  []byte
	static http.Handler
}

// New renderiza el shell una vez; version se agrega a las URLs de assets para invalidar cache.
func New(appName, version string) (*Handler, error) {
	tmpl, err := template.ParseFS(files, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page{AppName: appName, Version: version}); err != nil {
		return nil, fmt.Errorf("render index template: %w", err)
	}

	assets, err := fs.Sub(files, "static")
	if err != nil {
		return nil, err
	}
	return &Handler{
		index:  buf.Bytes(),
		static: http.StripPrefix("/static/", http.FileServer(http.FS(assets))),
	}, nil
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.serveIndex)
	r.Get("/static/*", h.static.ServeHTTP)
}

func (h *Handler) serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(h.index)
}
