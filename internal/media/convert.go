// Package media normalizes uploaded or downloaded media files into the
// canonical recognition format: 16kHz mono PCM WAV.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when the input extension is not on
// the allow-list. Callers treat it as an acquisition failure, not a bug.
var ErrUnsupportedFormat = errors.New("unsupported media format")

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".ogg": true, ".flac": true, ".aac": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
}

func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return audioExtensions[ext] || videoExtensions[ext]
}

// Converter transcodes supported media files to canonical WAV via ffmpeg.
type Converter struct{}

// ToWAV converts inputPath into <base>.wav inside outDir, decoding with
// ffmpeg to PCM 16-bit 16kHz mono. Returns the output path.
func (Converter) ToWAV(ctx context.Context, inputPath, outDir string) (string, error) {
	if !IsSupported(inputPath) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(inputPath))
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outPath := filepath.Join(outDir, base+".wav")

	// A .wav input normalizes onto its own name; write to a side file
	// first so ffmpeg never reads and writes the same path.
	target := outPath
	if target == inputPath {
		target = outPath + ".tmp"
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn", // no video
		"-acodec", "pcm_s16le",
		"-ar", "16000", // 16kHz
		"-ac", "1", // mono
		"-y", // overwrite
		target,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(target)
		return "", fmt.Errorf("ffmpeg: %s: %w", string(output), err)
	}

	if target != outPath {
		if err := os.Rename(target, outPath); err != nil {
			os.Remove(target)
			return "", fmt.Errorf("rename converted audio: %w", err)
		}
	}

	return outPath, nil
}
