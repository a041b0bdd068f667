package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mgpai22/subdub/internal/dubbing"
	"github.com/mgpai22/subdub/internal/timecode"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [document_id]",
	Short: "Show translation and dubbing statistics",
	Long: `Show cue counts, untranslated cues, OST warnings and the dubbing
timing totals of a document. With --synth the speech service is used
to measure audio durations (cached renders are reused).`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

var atCmd = &cobra.Command{
	Use:   "at [document_id] [position_ms]",
	Short: "Show the cue and overlays active at a playback position",
	Args:  cobra.ExactArgs(2),
	RunE:  runAt,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(atCmd)

	statsCmd.Flags().
		Bool("synth", false, "Synthesize segments to report audio durations")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	withSynth, _ := cmd.Flags().GetBool("synth")

	w, err := openWorkspace(ctx, cmd, args[0], withSynth)
	if err != nil {
		return err
	}
	defer w.Close()
	s := w.session

	if withSynth && len(s.Dubbing()) > 0 {
		if _, err := s.SynthesizeAll(ctx, dubbing.BatchOptions{}); err != nil {
			return err
		}
	}

	st := s.Stats()
	fmt.Printf("Document: %s (%s)\n", s.Title(), s.ID())
	fmt.Printf("  Saved: %s\n", s.SavedAt().Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Cues: %d (%d translated, %d untranslated)\n", st.Cues, st.Translated, st.Untranslated)
	fmt.Printf("  OST items: %d (%d warnings)\n", st.OSTItems, st.OSTWarnings)
	for _, warning := range s.OST().Warnings() {
		fmt.Printf("    %s\n", warning)
	}
	fmt.Printf("  Dubbing segments: %d (%d merged)\n", st.Dubbing.Segments, st.Dubbing.Merged)
	fmt.Printf("  Total break duration: %s\n", st.Dubbing.BreakDuration)
	if withSynth {
		fmt.Printf("  Total audio duration: %s\n", st.Dubbing.AudioDuration)
		fmt.Printf("  Alignment: %d ok, %d correctable, %d need edits\n",
			st.Dubbing.Good, st.Dubbing.Correctable, st.Dubbing.Warnings)
	}
	return nil
}

func runAt(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pos, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || pos < 0 {
		return fmt.Errorf("invalid position %q: expected milliseconds", args[1])
	}

	w, err := openWorkspace(ctx, cmd, args[0], false)
	if err != nil {
		return err
	}
	defer w.Close()
	s := w.session

	fmt.Printf("Position %s\n", timecode.Format(pos, true, ".", 3))
	if i := s.CueAt(pos); i >= 0 {
		fmt.Printf("  Cue %d: %s\n", i, s.Src().Cues[i].Text)
		fmt.Printf("  Translation: %s\n", s.Dst().TextAt(i))
	} else {
		fmt.Println("  No cue")
	}
	for _, i := range s.ActiveOST(pos) {
		fmt.Printf("  OST %d: %s\n", i, s.OST()[i].Text)
	}
	return nil
}
