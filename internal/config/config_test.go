package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.TempPath != "temp_uploads" {
		t.Errorf("TempPath = %q, want temp_uploads", cfg.TempPath)
	}
	if cfg.Recognizer != "google" {
		t.Errorf("Recognizer = %q, want google", cfg.Recognizer)
	}
	if cfg.MaxUploadBytes != 200<<20 {
		t.Errorf("MaxUploadBytes = %d, want 200MB", cfg.MaxUploadBytes)
	}
	if cfg.DownloadTimeout != 10*time.Minute {
		t.Errorf("DownloadTimeout = %s, want 10m", cfg.DownloadTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LANGUAGE", "ko-KR")
	t.Setenv("RECOGNIZER", "whisper.cpp")
	t.Setenv("DOWNLOAD_TIMEOUT", "30s")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.Language != "ko-KR" {
		t.Errorf("Language = %q, want ko-KR", cfg.Language)
	}
	if cfg.Recognizer != "whisper.cpp" {
		t.Errorf("Recognizer = %q, want whisper.cpp", cfg.Recognizer)
	}
	if cfg.DownloadTimeout != 30*time.Second {
		t.Errorf("DownloadTimeout = %s, want 30s", cfg.DownloadTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestGetDurationInvalid(t *testing.T) {
	t.Setenv("RECOGNIZE_TIMEOUT", "banana")
	cfg := Load()
	if cfg.RecognizeTimeout != 5*time.Minute {
		t.Errorf("RecognizeTimeout = %s, want default 5m on invalid input", cfg.RecognizeTimeout)
	}
}
