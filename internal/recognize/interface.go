package recognize

import (
	"context"
	"errors"
)

// ErrNoSpeech is returned when the backend processed the audio but
// found nothing to transcribe.
var ErrNoSpeech = errors.New("no speech recognized")

// Recognizer is the common interface for all speech-recognition engines.
type Recognizer interface {
	// Recognize submits the WAV file at wavPath as a single recording
	// and returns the transcribed text.
	Recognize(ctx context.Context, wavPath string) (string, error)
	// Name returns the engine name
	Name() string
}
