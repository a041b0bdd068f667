package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	mu       sync.Mutex
	resolved *BinaryPaths
	override BinaryPaths
)

// ErrNotFound is returned when neither configuration, environment nor PATH
// provides the binaries.
var ErrNotFound = errors.New("ffmpeg binaries not found")

// Configure pins explicit paths (from the config file). Empty values fall
// through to the environment and PATH lookup.
func Configure(paths BinaryPaths) {
	mu.Lock()
	defer mu.Unlock()
	override = paths
	resolved = nil
}

func Ensure() (BinaryPaths, error) {
	mu.Lock()
	defer mu.Unlock()
	if resolved != nil {
		return *resolved, nil
	}
	paths, err := resolve(override)
	if err != nil {
		return BinaryPaths{}, err
	}
	resolved = &paths
	return paths, nil
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func resolve(pinned BinaryPaths) (BinaryPaths, error) {
	ffmpegPath := firstNonEmpty(pinned.FFmpeg, os.Getenv("SUBDUB_FFMPEG_PATH"))
	ffprobePath := firstNonEmpty(pinned.FFprobe, os.Getenv("SUBDUB_FFPROBE_PATH"))

	if ffmpegPath == "" {
		if found, err := exec.LookPath("ffmpeg"); err == nil {
			ffmpegPath = found
		}
	}
	if ffprobePath == "" {
		if found, err := exec.LookPath("ffprobe"); err == nil {
			ffprobePath = found
		}
	}

	if ffmpegPath == "" || ffprobePath == "" {
		return BinaryPaths{}, fmt.Errorf(
			"%w: install ffmpeg or set SUBDUB_FFMPEG_PATH and SUBDUB_FFPROBE_PATH",
			ErrNotFound,
		)
	}
	if !fileExists(ffmpegPath) {
		return BinaryPaths{}, fmt.Errorf("%w: %s", ErrNotFound, ffmpegPath)
	}
	if !fileExists(ffprobePath) {
		return BinaryPaths{}, fmt.Errorf("%w: %s", ErrNotFound, ffprobePath)
	}

	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
