package recognize

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const openAITranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"
const maxOpenAIFileSize = 25 * 1024 * 1024 // 25MB API limit

// OpenAIClient uses the OpenAI Whisper API
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: openAITranscriptionURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

func (c *OpenAIClient) Name() string {
	return "openai"
}

func (c *OpenAIClient) Recognize(ctx context.Context, wavPath string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	info, err := os.Stat(wavPath)
	if err != nil {
		return "", err
	}
	// The recording is submitted whole; files over the API limit are
	// rejected rather than chunked.
	if info.Size() > maxOpenAIFileSize {
		return "", fmt.Errorf("audio file too large for OpenAI API (%d bytes, limit %d)", info.Size(), maxOpenAIFileSize)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	audioFile, err := os.Open(wavPath)
	if err != nil {
		return "", err
	}
	defer audioFile.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return "", err
	}

	writer.WriteField("model", "whisper-1")
	writer.WriteField("response_format", "text")
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("[recognize-openai] sending request to OpenAI API")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("OpenAI API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(body))
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
