// Package download acquires audio from remote video URLs via yt-dlp.
package download

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/transcribe-web/backend/internal/media"
)

// Normalizer converts a downloaded media file to canonical WAV. It is
// the fallback when yt-dlp's own WAV post-processing output cannot be
// located.
type Normalizer interface {
	ToWAV(ctx context.Context, inputPath, outDir string) (string, error)
}

// Downloader fetches the best audio stream of a video URL as WAV.
type Downloader struct {
	binary     string
	normalizer Normalizer
}

func NewDownloader(normalizer Normalizer) *Downloader {
	return &Downloader{binary: "yt-dlp", normalizer: normalizer}
}

// ytdlpInfo is the subset of yt-dlp's --print-json metadata we consume.
type ytdlpInfo struct {
	ID       string `json:"id"`
	Ext      string `json:"ext"`
	Filename string `json:"_filename"`
}

// AcquireAudio downloads the URL's audio into destDir and returns the
// path of the resulting WAV file. yt-dlp is asked to post-process to
// WAV directly; if that output cannot be found, the raw download is
// converted with the normalizer and then removed.
func (d *Downloader) AcquireAudio(ctx context.Context, rawURL, destDir string) (string, error) {
	outTmpl := filepath.Join(destDir, "%(id)s.%(ext)s")

	cmd := exec.CommandContext(ctx, d.binary,
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"--print-json",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "wav",
		"--audio-quality", "192K",
		"-o", outTmpl,
		rawURL,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp: %s: %w", strings.TrimSpace(stderr.String()), err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return "", fmt.Errorf("parse yt-dlp metadata: %w", err)
	}

	downloaded := info.Filename
	if downloaded == "" {
		downloaded = filepath.Join(destDir, info.ID+"."+info.Ext)
	}
	base := strings.TrimSuffix(filepath.Base(downloaded), filepath.Ext(downloaded))

	// The post-processor should have produced <base>.wav. Names
	// occasionally differ from the reported filename, so scan the
	// directory before falling back to converting the raw download.
	wavPath := filepath.Join(destDir, base+".wav")
	if _, err := os.Stat(wavPath); err != nil {
		if found := locateWAV(destDir, base); found != "" {
			wavPath = found
		} else {
			if _, err := os.Stat(downloaded); err != nil {
				return "", fmt.Errorf("downloaded file missing: %w", err)
			}
			log.Printf("[download] no WAV from yt-dlp, converting %s", downloaded)
			converted, err := d.normalizer.ToWAV(ctx, downloaded, destDir)
			if err != nil {
				return "", fmt.Errorf("convert downloaded audio: %w", err)
			}
			if converted != downloaded {
				os.Remove(downloaded)
			}
			wavPath = converted
		}
	}

	if err := verifyAudio(wavPath); err != nil {
		return "", fmt.Errorf("verify downloaded audio: %w", err)
	}
	return wavPath, nil
}

// verifyAudio checks that the acquired file holds a decodable,
// non-empty audio stream before it is handed to recognition.
func verifyAudio(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return fmt.Errorf("empty audio file")
	}
	dur, err := media.Duration(path)
	if err != nil {
		return fmt.Errorf("probe audio: %w", err)
	}
	if dur <= 0 {
		return fmt.Errorf("zero-length audio stream")
	}
	return nil
}

// locateWAV finds a .wav file in dir whose name starts with base.
func locateWAV(dir, base string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, base) && strings.HasSuffix(name, ".wav") {
			return filepath.Join(dir, name)
		}
	}
	return ""
}
