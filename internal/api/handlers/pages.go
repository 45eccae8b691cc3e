package handlers

import (
	"html/template"
	"log"
	"net/http"

	"github.com/transcribe-web/backend/web"
)

// PageData is everything the index template renders.
type PageData struct {
	TranscribedText string
	ErrorMessage    string
}

// Renderer renders the embedded index template.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(web.Templates, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (re *Renderer) RenderIndex(w http.ResponseWriter, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := re.tmpl.Execute(w, data); err != nil {
		log.Printf("[pages] render failed: %v", err)
	}
}

type PagesHandler struct {
	renderer *Renderer
}

func NewPagesHandler(renderer *Renderer) *PagesHandler {
	return &PagesHandler{renderer: renderer}
}

// Index serves the empty submission form
func (h *PagesHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderIndex(w, PageData{})
}
