package audio

import (
	"context"
	"fmt"
	"os"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/subdub/internal/ffmpeg"
)

// volumes applied before mixing; 1.0 is unchanged
type MixOptions struct {
	OriginalVolume float64
	DubVolume      float64
}

// original speech stays audible underneath the dub
func DefaultMixOptions() MixOptions {
	return MixOptions{
		OriginalVolume: 0.2,
		DubVolume:      1.0,
	}
}

// MixWithVideo writes a copy of the video whose audio is the original track
// turned down to OriginalVolume mixed with the dubbing pcm. The video stream
// is copied untouched and the output lasts as long as the video.
func MixWithVideo(
	ctx context.Context,
	videoPath string,
	pcm []byte,
	outputPath string,
	opts MixOptions,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if err := ensureDir(outputPath); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dubPath, err := writeTempPCM(pcm)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(dubPath) }()

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	video := ffmpeg.Input(videoPath)
	dub := ffmpeg.Input(dubPath, rawInputArgs())

	original := video.Audio().
		Filter("volume", ffmpeg.Args{formatVolume(opts.OriginalVolume)})
	dubbed := dub.Audio().
		Filter("volume", ffmpeg.Args{formatVolume(opts.DubVolume)})

	mixed := ffmpeg.Filter(
		[]*ffmpeg.Stream{original, dubbed},
		"amix",
		ffmpeg.Args{},
		ffmpeg.KwArgs{
			"inputs":    2,
			"duration":  "first",
			"normalize": 0,
		},
	)

	err = ffmpeg.Output(
		[]*ffmpeg.Stream{video.Video(), mixed},
		outputPath,
		ffmpeg.KwArgs{"c:v": "copy"},
	).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("mixing failed: %w", err)
	}

	return nil
}

func formatVolume(v float64) string {
	if v < 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
