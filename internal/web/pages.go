package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	index  *template.Template
	result *template.Template
}

type indexView struct {
	Flashes  []string
	Accept   string
	MaxSize  string
	Model    string
	Accepted []string
}

type resultView struct {
	Flashes      []string
	Minutes      string
	DownloadName string
}

func loadPages() (*pages, error) {
	index, err := template.ParseFS(templateFS, "templates/layout.html", "templates/index.html")
	if err != nil {
		return nil, err
	}
	result, err := template.ParseFS(templateFS, "templates/layout.html", "templates/result.html")
	if err != nil {
		return nil, err
	}
	return &pages{index: index, result: result}, nil
}

// render executes tmpl into a buffer so template errors never send a partial page.
func (s *Server) render(w http.ResponseWriter, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.Error().Err(err).Msg("render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
