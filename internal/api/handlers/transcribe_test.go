package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/transcribe-web/backend/internal/media"
	"github.com/transcribe-web/backend/internal/recognize"
)

type stubAcquirer struct {
	err   error
	calls int
	url   string
}

func (s *stubAcquirer) AcquireAudio(ctx context.Context, rawURL, destDir string) (string, error) {
	s.calls++
	s.url = rawURL
	if s.err != nil {
		return "", s.err
	}
	path := filepath.Join(destDir, "video.wav")
	if err := os.WriteFile(path, []byte("downloaded audio"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

type stubNormalizer struct {
	err error
}

// ToWAV copies the input bytes into <base>.wav so tests can trace which
// upload reached the recognizer.
func (s *stubNormalizer) ToWAV(ctx context.Context, inputPath, outDir string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	out := filepath.Join(outDir, base+".wav")
	if err := os.WriteFile(out, data, 0644); err != nil {
		return "", err
	}
	return out, nil
}

// echoRecognizer returns the audio file's contents as the transcription.
type echoRecognizer struct {
	err error
}

func (e *echoRecognizer) Recognize(ctx context.Context, wavPath string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (e *echoRecognizer) Name() string { return "echo" }

func newTestHandler(t *testing.T, root string, acq AudioAcquirer, norm Normalizer, rec recognize.Recognizer) *TranscribeHandler {
	t.Helper()
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return NewTranscribeHandler(root, 10<<20, time.Minute, time.Minute, acq, norm, rec, renderer)
}

func multipartRequest(t *testing.T, filename string, fileData []byte, videoURL string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatal(err)
		}
	}
	if videoURL != "" {
		writer.WriteField("video_url", videoURL)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/transcribe", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func assertTempRootEmpty(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", root, err)
	}
	if len(entries) != 0 {
		t.Errorf("temp root not cleaned up, %d entries remain", len(entries))
	}
}

func TestTranscribeNoInput(t *testing.T) {
	root := t.TempDir()
	h := newTestHandler(t, root, &stubAcquirer{}, &stubNormalizer{}, &echoRecognizer{})

	rec := httptest.NewRecorder()
	h.Transcribe(rec, multipartRequest(t, "", nil, ""))

	if !strings.Contains(rec.Body.String(), msgNoInput) {
		t.Errorf("response missing %q", msgNoInput)
	}
	assertTempRootEmpty(t, root)
}

func TestTranscribeInvalidURL(t *testing.T) {
	root := t.TempDir()
	acq := &stubAcquirer{}
	h := newTestHandler(t, root, acq, &stubNormalizer{}, &echoRecognizer{})

	for _, url := range []string{"not a url", "http//missing-colon"} {
		rec := httptest.NewRecorder()
		h.Transcribe(rec, multipartRequest(t, "", nil, url))

		if !strings.Contains(rec.Body.String(), msgInvalidURL) {
			t.Errorf("url %q: response missing %q", url, msgInvalidURL)
		}
	}
	if acq.calls != 0 {
		t.Errorf("acquirer called %d times for invalid URLs", acq.calls)
	}
	assertTempRootEmpty(t, root)
}

func TestTranscribeUnsupportedUpload(t *testing.T) {
	root := t.TempDir()
	h := newTestHandler(t, root, &stubAcquirer{},
		&stubNormalizer{err: media.ErrUnsupportedFormat}, &echoRecognizer{})

	rec := httptest.NewRecorder()
	h.Transcribe(rec, multipartRequest(t, "notes.txt", []byte("just text"), ""))

	if !strings.Contains(rec.Body.String(), msgConvertFailed) {
		t.Errorf("response missing %q", msgConvertFailed)
	}
	assertTempRootEmpty(t, root)
}

func TestTranscribeUploadSuccess(t *testing.T) {
	root := t.TempDir()
	h := newTestHandler(t, root, &stubAcquirer{}, &stubNormalizer{}, &echoRecognizer{})

	rec := httptest.NewRecorder()
	h.Transcribe(rec, multipartRequest(t, "speech.wav", []byte("hello there"), ""))

	body := rec.Body.String()
	if !strings.Contains(body, "hello there") {
		t.Errorf("response missing transcription, got:\n%s", body)
	}
	if strings.Contains(body, `class="error"`) {
		t.Error("unexpected error message on successful transcription")
	}
	assertTempRootEmpty(t, root)
}

func TestTranscribeURLSuccess(t *testing.T) {
	root := t.TempDir()
	acq := &stubAcquirer{}
	h := newTestHandler(t, root, acq, &stubNormalizer{}, &echoRecognizer{})

	rec := httptest.NewRecorder()
	h.Transcribe(rec, multipartRequest(t, "", nil, "https://example.com/video"))

	if acq.calls != 1 {
		t.Fatalf("acquirer called %d times, want 1", acq.calls)
	}
	if acq.url != "https://example.com/video" {
		t.Errorf("acquirer got url %q", acq.url)
	}
	if !strings.Contains(rec.Body.String(), "downloaded audio") {
		t.Error("response missing transcription of downloaded audio")
	}
	assertTempRootEmpty(t, root)
}

func TestTranscribeDownloadFailure(t *testing.T) {
	root := t.TempDir()
	h := newTestHandler(t, root, &stubAcquirer{err: errors.New("connection refused")},
		&stubNormalizer{}, &echoRecognizer{})

	rec := httptest.NewRecorder()
	h.Transcribe(rec, multipartRequest(t, "", nil, "https://unreachable.example.com/v"))

	if !strings.Contains(rec.Body.String(), msgDownloadFailed) {
		t.Errorf("response missing %q", msgDownloadFailed)
	}
	assertTempRootEmpty(t, root)
}

func TestTranscribeFileWinsOverURL(t *testing.T) {
	root := t.TempDir()
	acq := &stubAcquirer{}
	h := newTestHandler(t, root, acq, &stubNormalizer{}, &echoRecognizer{})

	rec := httptest.NewRecorder()
	h.Transcribe(rec, multipartRequest(t, "speech.wav", []byte("from the file"), "https://example.com/video"))

	if acq.calls != 0 {
		t.Errorf("acquirer called %d times when a file was uploaded", acq.calls)
	}
	if !strings.Contains(rec.Body.String(), "from the file") {
		t.Error("response missing the uploaded file's transcription")
	}
	assertTempRootEmpty(t, root)
}

func TestTranscribeRecognitionOutcomesAsText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no speech", recognize.ErrNoSpeech, msgNoSpeech},
		{"backend failure", errors.New("service exploded"),
			"Could not request results from the speech recognition service; service exploded"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			h := newTestHandler(t, root, &stubAcquirer{}, &stubNormalizer{}, &echoRecognizer{err: tc.err})

			rec := httptest.NewRecorder()
			h.Transcribe(rec, multipartRequest(t, "speech.wav", []byte("audio"), ""))

			// Recognition failures are the displayed result, never an
			// HTTP error.
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tc.want) {
				t.Errorf("response missing %q, got:\n%s", tc.want, rec.Body.String())
			}
			assertTempRootEmpty(t, root)
		})
	}
}

func TestInputValidationSentinels(t *testing.T) {
	root := t.TempDir()
	h := newTestHandler(t, root, &stubAcquirer{}, &stubNormalizer{}, &echoRecognizer{})

	_, err := h.run(multipartRequest(t, "", nil, ""))
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("empty submission error = %v, want ErrNoInput", err)
	}

	_, err = h.run(multipartRequest(t, "", nil, "not a url"))
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("invalid URL error = %v, want ErrInvalidURL", err)
	}

	// Validation short-circuits before any artifact is created.
	assertTempRootEmpty(t, root)
}

func TestTranscribeConcurrentUploads(t *testing.T) {
	root := t.TempDir()
	h := newTestHandler(t, root, &stubAcquirer{}, &stubNormalizer{}, &echoRecognizer{})

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := fmt.Sprintf("payload-%d", i)
			rec := httptest.NewRecorder()
			h.Transcribe(rec, multipartRequest(t, fmt.Sprintf("clip-%d.wav", i), []byte(content), ""))
			results[i] = rec.Body.String()
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		want := fmt.Sprintf("payload-%d", i)
		if !strings.Contains(results[i], want) {
			t.Errorf("request %d: response missing %q", i, want)
		}
	}
	assertTempRootEmpty(t, root)
}
