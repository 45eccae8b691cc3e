package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/transcribe-web/backend/internal/api"
	"github.com/transcribe-web/backend/internal/api/handlers"
	"github.com/transcribe-web/backend/internal/config"
	"github.com/transcribe-web/backend/internal/recognize"
)

func main() {
	cfg := config.Load()

	// Ensure temp root exists
	os.MkdirAll(cfg.TempPath, 0755)

	// Recognition engines
	service := recognize.NewService(cfg.Language, cfg.APIKey, cfg.WhisperURL)
	recognizer, err := service.Engine(cfg.Recognizer)
	if err != nil {
		log.Fatalf("Failed to select recognition engine: %v", err)
	}
	log.Printf("Recognition engine: %s (language: %s)", recognizer.Name(), cfg.Language)

	// Page renderer
	renderer, err := handlers.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	// Create router
	router := api.NewRouter(cfg, recognizer, renderer)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Temp path: %s", cfg.TempPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		service.Close()
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
