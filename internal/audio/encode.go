package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/subdub/internal/ffmpeg"
)

// settings for encoding the composited track
type EncodeOptions struct {
	Format  string // wav, mp3, aac, flac
	Bitrate string // lossy formats only, e.g. "128k"
}

func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Format: "wav"}
}

// FormatFromPath picks the encode format from the output extension.
func FormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "mp3", "aac", "flac", "wav":
		return ext
	case "m4a":
		return "aac"
	default:
		return "wav"
	}
}

// Encode writes pcm to outputPath. WAV is written directly; other formats go
// through ffmpeg's s16le demuxer.
func Encode(
	ctx context.Context,
	pcm []byte,
	outputPath string,
	opts EncodeOptions,
) error {
	if err := ensureDir(outputPath); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if opts.Format == "" || opts.Format == "wav" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create wav file: %w", err)
		}
		if err := WriteWAV(file, pcm); err != nil {
			_ = file.Close()
			return err
		}
		return file.Close()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	inputPath, err := writeTempPCM(pcm)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(inputPath) }()

	kwargs := ffmpeg.KwArgs{
		"ar": SampleRate,
		"ac": Channels,
	}

	switch opts.Format {
	case "mp3":
		kwargs["acodec"] = "libmp3lame"
	case "aac":
		kwargs["acodec"] = "aac"
	case "flac":
		kwargs["acodec"] = "flac"
	default:
		return fmt.Errorf("unsupported audio format: %s", opts.Format)
	}
	if opts.Bitrate != "" && opts.Format != "flac" {
		kwargs["b:a"] = opts.Bitrate
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(inputPath, rawInputArgs()).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("encoding failed: %w", err)
	}

	return nil
}

func rawInputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":  "s16le",
		"ar": SampleRate,
		"ac": Channels,
	}
}
