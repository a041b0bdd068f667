package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	ffmpegbin "github.com/mgpai22/subdub/internal/ffmpeg"
)

// Synthesized speech and every buffer built from it is raw signed 16-bit
// little-endian mono PCM at 16 kHz.
const (
	SampleRate     = 16000
	Channels       = 1
	BytesPerSample = 2
	BytesPerSecond = SampleRate * Channels * BytesPerSample
)

// Duration derives playback length from a PCM byte count
// (bytes / (16000*2) seconds). Exact: one byte is 31.25µs.
func Duration(pcm []byte) time.Duration {
	return DurationOfBytes(len(pcm))
}

func DurationOfBytes(n int) time.Duration {
	return time.Duration(n) * time.Second / BytesPerSecond
}

// SilenceSamples is ceil(d * SampleRate); zero for non-positive d.
func SilenceSamples(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	num := int64(d) * SampleRate
	return int((num + int64(time.Second) - 1) / int64(time.Second))
}

// Silence returns an all-zero buffer covering d.
func Silence(d time.Duration) []byte {
	return make([]byte, SilenceSamples(d)*BytesPerSample*Channels)
}

// PadTo appends trailing silence so pcm covers at least total.
func PadTo(pcm []byte, total time.Duration) []byte {
	missing := total - Duration(pcm)
	if missing <= 0 {
		return pcm
	}
	return append(pcm, Silence(missing)...)
}

// WriteWAV wraps pcm in a canonical 44-byte RIFF/WAVE header.
func WriteWAV(w io.Writer, pcm []byte) error {
	header := struct {
		ChunkID       [4]byte
		ChunkSize     uint32
		Format        [4]byte
		Subchunk1ID   [4]byte
		Subchunk1Size uint32
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Subchunk2ID   [4]byte
		Subchunk2Size uint32
	}{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(36 + len(pcm)),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   Channels,
		SampleRate:    SampleRate,
		ByteRate:      BytesPerSecond,
		BlockAlign:    Channels * BytesPerSample,
		BitsPerSample: BytesPerSample * 8,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(len(pcm)),
	}

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write wav header: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	return nil
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// duration of an audio/video file
func GetDuration(ctx context.Context, filePath string) (time.Duration, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// writes pcm to a temp file for ffmpeg's s16le demuxer; caller removes it
func writeTempPCM(pcm []byte) (string, error) {
	file, err := os.CreateTemp("", "subdub-*.pcm")
	if err != nil {
		return "", fmt.Errorf("failed to create temp pcm: %w", err)
	}
	path := file.Name()
	if _, err := file.Write(pcm); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write temp pcm: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close temp pcm: %w", err)
	}
	return path, nil
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
