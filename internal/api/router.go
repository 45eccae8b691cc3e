package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/transcribe-web/backend/internal/api/handlers"
	"github.com/transcribe-web/backend/internal/api/middleware"
	"github.com/transcribe-web/backend/internal/config"
	"github.com/transcribe-web/backend/internal/download"
	"github.com/transcribe-web/backend/internal/media"
	"github.com/transcribe-web/backend/internal/recognize"
	"github.com/transcribe-web/backend/web"
)

func NewRouter(cfg *config.Config, recognizer recognize.Recognizer, renderer *handlers.Renderer) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	converter := media.Converter{}
	downloader := download.NewDownloader(converter)
	pagesHandler := handlers.NewPagesHandler(renderer)
	transcribeHandler := handlers.NewTranscribeHandler(
		cfg.TempPath, cfg.MaxUploadBytes, cfg.DownloadTimeout, cfg.RecognizeTimeout,
		downloader, converter, recognizer, renderer,
	)

	r.Get("/", pagesHandler.Index)
	r.Post("/transcribe", transcribeHandler.Transcribe)

	// Embedded static assets
	staticFS, _ := fs.Sub(web.Static, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	return r
}
