package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/transcribe-web/backend/internal/download"
	"github.com/transcribe-web/backend/internal/recognize"
	"github.com/transcribe-web/backend/internal/workspace"
)

// Input validation sentinels. Acquisition failures carry their own
// sentinels so the page mapping never depends on message matching.
var (
	ErrNoInput    = errors.New("no file or video URL provided")
	ErrInvalidURL = errors.New("invalid URL provided")

	errConversion = errors.New("could not convert file to audio")
	errDownload   = errors.New("could not download audio")
)

// User-facing pipeline messages. Validation and acquisition failures
// short-circuit with one of these; recognition failures are rendered as
// the transcription text itself.
const (
	msgNoInput        = "No file or video URL provided."
	msgInvalidURL     = "Invalid URL provided."
	msgInvalidBody    = "Invalid or oversized request body."
	msgConvertFailed  = "Could not convert file to audio."
	msgDownloadFailed = "Could not download audio from the provided URL."
	msgInternal       = "An unexpected error occurred. Please try again."
	msgNoSpeech       = "Speech recognition could not understand the audio."
)

// AudioAcquirer downloads a URL's audio into destDir as canonical WAV.
type AudioAcquirer interface {
	AcquireAudio(ctx context.Context, rawURL, destDir string) (string, error)
}

// Normalizer converts a local media file into canonical WAV.
type Normalizer interface {
	ToWAV(ctx context.Context, inputPath, outDir string) (string, error)
}

type TranscribeHandler struct {
	tempRoot         string
	maxUploadBytes   int64
	downloadTimeout  time.Duration
	recognizeTimeout time.Duration
	acquirer         AudioAcquirer
	normalizer       Normalizer
	recognizer       recognize.Recognizer
	renderer         *Renderer
}

func NewTranscribeHandler(tempRoot string, maxUploadBytes int64, downloadTimeout, recognizeTimeout time.Duration,
	acquirer AudioAcquirer, normalizer Normalizer, recognizer recognize.Recognizer, renderer *Renderer) *TranscribeHandler {
	return &TranscribeHandler{
		tempRoot:         tempRoot,
		maxUploadBytes:   maxUploadBytes,
		downloadTimeout:  downloadTimeout,
		recognizeTimeout: recognizeTimeout,
		acquirer:         acquirer,
		normalizer:       normalizer,
		recognizer:       recognizer,
		renderer:         renderer,
	}
}

// Transcribe handles the multipart form submission and re-renders the
// index page with the transcription or an error message. The page is
// always rendered; only framework-level failures produce non-200s.
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Printf("[transcribe] bad form: %v", err)
		h.renderer.RenderIndex(w, PageData{ErrorMessage: msgInvalidBody})
		return
	}
	h.renderer.RenderIndex(w, h.process(r))
}

// process maps pipeline errors onto the rendered page.
func (h *TranscribeHandler) process(r *http.Request) PageData {
	text, err := h.run(r)
	switch {
	case err == nil:
		return PageData{TranscribedText: text}
	case errors.Is(err, ErrNoInput):
		return PageData{ErrorMessage: msgNoInput}
	case errors.Is(err, ErrInvalidURL):
		return PageData{ErrorMessage: msgInvalidURL}
	case errors.Is(err, errConversion):
		return PageData{ErrorMessage: msgConvertFailed}
	case errors.Is(err, errDownload):
		return PageData{ErrorMessage: msgDownloadFailed}
	default:
		log.Printf("[transcribe] %v", err)
		return PageData{ErrorMessage: msgInternal}
	}
}

// run executes the pipeline: input selection, acquisition,
// normalization, recognition. The request workspace is removed on every
// exit path.
func (h *TranscribeHandler) run(r *http.Request) (string, error) {
	file, header, err := r.FormFile("file")
	hasFile := err == nil
	if hasFile {
		defer file.Close()
	}
	videoURL := strings.TrimSpace(r.FormValue("video_url"))

	if !hasFile && videoURL == "" {
		return "", ErrNoInput
	}
	// Validation failures short-circuit before any artifact is created.
	if !hasFile && !download.IsValidURL(videoURL) {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, videoURL)
	}

	ws, err := workspace.New(h.tempRoot)
	if err != nil {
		return "", fmt.Errorf("workspace: %w", err)
	}
	defer ws.Remove()

	var audioPath string
	if hasFile {
		// When both file and URL are provided, the file wins.
		saved, err := ws.SaveUpload(header.Filename, file)
		if err != nil {
			return "", fmt.Errorf("save upload: %w", err)
		}
		log.Printf("[transcribe] uploaded file saved to %s", saved)

		audioPath, err = h.normalizer.ToWAV(r.Context(), saved, ws.Dir)
		if err != nil {
			log.Printf("[transcribe] convert %s: %v", saved, err)
			return "", fmt.Errorf("%w: %v", errConversion, err)
		}
	} else {
		log.Printf("[transcribe] downloading audio from %s", videoURL)

		ctx, cancel := context.WithTimeout(r.Context(), h.downloadTimeout)
		defer cancel()

		audioPath, err = h.acquirer.AcquireAudio(ctx, videoURL, ws.Dir)
		if err != nil {
			log.Printf("[transcribe] download %s: %v", videoURL, err)
			return "", fmt.Errorf("%w: %v", errDownload, err)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.recognizeTimeout)
	defer cancel()

	log.Printf("[transcribe] starting recognition for %s", audioPath)
	return h.recognizeText(ctx, audioPath), nil
}

// recognizeText maps every recognition outcome onto displayed text:
// recognized speech, a fixed not-understood message, or a message
// embedding the backend error.
func (h *TranscribeHandler) recognizeText(ctx context.Context, audioPath string) string {
	text, err := h.recognizer.Recognize(ctx, audioPath)
	switch {
	case err == nil:
		return text
	case errors.Is(err, recognize.ErrNoSpeech):
		return msgNoSpeech
	default:
		log.Printf("[transcribe] recognition failed: %v", err)
		return fmt.Sprintf("Could not request results from the speech recognition service; %v", err)
	}
}
