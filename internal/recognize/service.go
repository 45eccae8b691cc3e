// Package recognize submits canonical WAV recordings to remote
// speech-recognition backends.
package recognize

import (
	"fmt"
	"io"
	"log"
)

// Service manages the available recognition engines
type Service struct {
	engines map[string]Recognizer
}

// NewService creates a recognition service with available engines
func NewService(language, openAIKey, whisperURL string) *Service {
	s := &Service{
		engines: make(map[string]Recognizer),
	}

	// Google Cloud Speech-to-Text is always registered (credentials are
	// resolved by the client library at call time)
	s.engines["google"] = NewGoogleClient(language)

	if openAIKey != "" {
		s.engines["openai"] = NewOpenAIClient(openAIKey)
		log.Printf("[recognize] registered OpenAI Whisper engine")
	}

	if whisperURL != "" {
		s.engines["whisper.cpp"] = NewWhisperCppClient(whisperURL)
		log.Printf("[recognize] registered whisper.cpp engine at %s", whisperURL)
	}

	return s
}

// RegisterEngine adds an engine
func (s *Service) RegisterEngine(name string, engine Recognizer) {
	s.engines[name] = engine
	log.Printf("[recognize] registered %s engine", name)
}

// Engine returns the named engine or an error listing what is available
func (s *Service) Engine(name string) (Recognizer, error) {
	engine, ok := s.engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown recognition engine: %s (available: %v)", name, s.engineNames())
	}
	return engine, nil
}

// Close shuts down engines that hold connections
func (s *Service) Close() {
	for name, engine := range s.engines {
		if closer, ok := engine.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Printf("[recognize] close %s engine: %v", name, err)
			}
		}
	}
}

func (s *Service) engineNames() []string {
	names := make([]string, 0, len(s.engines))
	for name := range s.engines {
		names = append(names, name)
	}
	return names
}
