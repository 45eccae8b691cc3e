package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	TempPath         string
	Language         string
	Recognizer       string
	APIKey           string
	WhisperURL       string
	MaxUploadBytes   int64
	DownloadTimeout  time.Duration
	RecognizeTimeout time.Duration
	CORSOrigins      []string
}

func Load() *Config {
	// Optional .env file for local development
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	maxUploadMB, _ := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "200"))

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:             port,
		TempPath:         getEnv("TEMP_PATH", "temp_uploads"),
		Language:         getEnv("LANGUAGE", "en-US"),
		Recognizer:       getEnv("RECOGNIZER", "google"),
		APIKey:           os.Getenv("API_KEY"),
		WhisperURL:       os.Getenv("WHISPER_URL"),
		MaxUploadBytes:   int64(maxUploadMB) << 20,
		DownloadTimeout:  getDuration("DOWNLOAD_TIMEOUT", 10*time.Minute),
		RecognizeTimeout: getDuration("RECOGNIZE_TIMEOUT", 5*time.Minute),
		CORSOrigins:      corsOrigins,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s value %q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
