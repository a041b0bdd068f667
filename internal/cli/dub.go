package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mgpai22/subdub/internal/audio"
	"github.com/mgpai22/subdub/internal/dubbing"
	"github.com/mgpai22/subdub/internal/editor"
	"github.com/mgpai22/subdub/internal/synth"
	"github.com/mgpai22/subdub/internal/timecode"
	"github.com/spf13/cobra"
)

var dubCmd = &cobra.Command{
	Use:   "dub [document_id]",
	Short: "Synthesize the dubbing track and compose its audio",
	Long: `Synthesize every dubbing segment that has no up-to-date audio, then
optionally compose the segments into one timeline-aligned track.

The dubbing track is derived from the translated cues on first use (or
with --reset). Segments whose audio overruns the slot by less than 20%
can be sped up with --auto-rate; larger mismatches are only reported.

Examples:
  subdub dub 3f2a... --report
  subdub dub 3f2a... --auto-rate -o dub.wav
  subdub dub 3f2a... -o dub.mp3 --mix lesson1.mp4 --mix-output lesson1.dubbed.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runDub,
}

func init() {
	rootCmd.AddCommand(dubCmd)
	mix := audio.DefaultMixOptions()

	dubCmd.Flags().
		Bool("reset", false, "Rebuild the dubbing track from the translated cues")
	dubCmd.Flags().
		Bool("force", false, "Re-synthesize segments even when their audio is current")
	dubCmd.Flags().
		Bool("auto-rate", false, "Apply every available speed-up hint and re-synthesize")
	dubCmd.Flags().
		Bool("report", false, "Print per-segment alignment")
	dubCmd.Flags().
		StringP("output", "o", "", "Write the composed audio (wav, mp3, aac, flac)")
	dubCmd.Flags().
		StringP("bitrate", "b", "", "Bitrate for lossy formats (e.g., 128k)")
	dubCmd.Flags().
		String("mix", "", "Video whose original audio is mixed under the dub")
	dubCmd.Flags().
		String("mix-output", "", "Output path for the mixed video (default: <video>.dubbed<ext>)")
	dubCmd.Flags().
		Float64("original-volume", mix.OriginalVolume, "Volume of the video's own audio in the mix")
	dubCmd.Flags().
		Float64("dub-volume", mix.DubVolume, "Volume of the dub in the mix")
}

func runDub(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reset, _ := cmd.Flags().GetBool("reset")
	force, _ := cmd.Flags().GetBool("force")
	autoRate, _ := cmd.Flags().GetBool("auto-rate")
	report, _ := cmd.Flags().GetBool("report")
	outputPath, _ := cmd.Flags().GetString("output")
	bitrate, _ := cmd.Flags().GetString("bitrate")
	mixVideo, _ := cmd.Flags().GetString("mix")
	mixOutput, _ := cmd.Flags().GetString("mix-output")
	originalVolume, _ := cmd.Flags().GetFloat64("original-volume")
	dubVolume, _ := cmd.Flags().GetFloat64("dub-volume")

	w, err := openWorkspace(ctx, cmd, args[0], true)
	if err != nil {
		return err
	}
	defer w.Close()
	s := w.session

	// edits are saved even when synthesis stops early
	defer func() {
		if err := saveIfDirty(context.Background(), s); err != nil {
			logger.Errorw("Failed to save document", "error", err)
		}
	}()

	if reset || len(s.Dubbing()) == 0 {
		s.ResetDubbing()
		logger.Infow("Dubbing track rebuilt", "segments", len(s.Dubbing()))
	}

	res, err := s.SynthesizeAll(ctx, dubbing.BatchOptions{
		Force: force,
		OnProgress: func(done, total int) {
			logger.Debugw("Synthesis progress", "done", done, "total", total)
		},
	})
	if err != nil {
		return fmt.Errorf("synthesis stopped: %w", err)
	}
	fmt.Printf("Synthesized %d segments (%d cached, %d empty, %d failed)\n",
		res.Synthesized, res.Cached, res.Skipped, len(res.Failed))
	for _, i := range res.Failed {
		fmt.Printf("  segment %d is not ready; rerun to retry\n", i)
	}

	if autoRate {
		changed, err := s.AutoCorrect(ctx)
		if err != nil {
			return fmt.Errorf("rate correction stopped: %w", err)
		}
		fmt.Printf("Rate adjusted on %d segments\n", len(changed))
	}

	if report {
		printReport(s)
	}

	if outputPath == "" && mixVideo == "" {
		return nil
	}

	tl, err := s.Timeline()
	if err != nil {
		return err
	}
	pcm := tl.PCM
	logger.Infow("Composed dubbing audio",
		"duration", tl.Duration(),
		"silence", tl.SilenceDuration(),
		"gaps", tl.GapDuration(),
	)

	if mixVideo != "" {
		videoDuration, err := audio.GetDuration(ctx, mixVideo)
		if err != nil {
			return fmt.Errorf("failed to probe video: %w", err)
		}
		pcm = audio.PadTo(pcm, videoDuration)
	}

	if outputPath != "" {
		opts := audio.DefaultEncodeOptions()
		opts.Format = audio.FormatFromPath(outputPath)
		opts.Bitrate = bitrate
		if err := audio.Encode(ctx, pcm, outputPath, opts); err != nil {
			return fmt.Errorf("failed to write audio: %w", err)
		}
		abs, _ := filepath.Abs(outputPath)
		fmt.Printf("Dubbing audio written: %s (%s)\n", abs, audio.Duration(pcm))
	}

	if mixVideo != "" {
		if mixOutput == "" {
			ext := filepath.Ext(mixVideo)
			mixOutput = mixVideo[:len(mixVideo)-len(ext)] + ".dubbed" + ext
		}
		err := audio.MixWithVideo(ctx, mixVideo, pcm, mixOutput, audio.MixOptions{
			OriginalVolume: originalVolume,
			DubVolume:      dubVolume,
		})
		if err != nil {
			return fmt.Errorf("failed to mix video: %w", err)
		}
		abs, _ := filepath.Abs(mixOutput)
		fmt.Printf("Dubbed video written: %s\n", abs)
	}

	return nil
}

func printReport(s *editor.Session) {
	segments := s.Dubbing()
	for _, a := range s.Report() {
		seg := segments[a.Index]
		status := "not rendered"
		switch {
		case !a.Rendered:
		case a.Good:
			status = "ok"
		case a.CanAutoCorrect:
			status = fmt.Sprintf("speed-up %.0f%% available", a.RateHint*100)
		default:
			status = a.Warning
		}
		fmt.Printf("%3d  %s  target %-8s audio %-8s rate %+.2f  %s\n",
			a.Index,
			timecode.Format(seg.From, true, ".", 3),
			a.Target,
			a.Audio,
			seg.Params.Rate,
			status,
		)
		if verbose {
			fmt.Printf("     %s\n", truncate(synth.StripBreaks(seg.Text), 60))
		}
	}
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
