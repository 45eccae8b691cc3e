package recognize

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// GoogleClient transcribes audio with Google Cloud Speech-to-Text using
// a single synchronous Recognize call over the whole recording. The
// underlying client is dialed once and reused across requests.
type GoogleClient struct {
	language string

	mu     sync.Mutex
	client *speech.Client
}

func NewGoogleClient(language string) *GoogleClient {
	return &GoogleClient{language: language}
}

func (c *GoogleClient) Name() string {
	return "google"
}

// speechClient dials on first use so that registering the engine never
// requires Google credentials when another engine is selected.
func (c *GoogleClient) speechClient(ctx context.Context) (*speech.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		client, err := speech.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create speech client: %w", err)
		}
		c.client = client
	}
	return c.client, nil
}

// Close releases the underlying connection. Safe to call more than
// once, and before the client was ever dialed.
func (c *GoogleClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

func (c *GoogleClient) Recognize(ctx context.Context, wavPath string) (string, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	client, err := c.speechClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: 16000,
			LanguageCode:    c.language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognition request: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
