package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mgpai22/subdub/internal/timecode"
	"github.com/spf13/cobra"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [document_id] [index]",
	Short: "Edit one dubbing segment",
	Long: `Apply one edit to a dubbing segment. Indexes start at 0.

Examples:
  subdub segment 3f2a... 4 --merge-down
  subdub segment 3f2a... 4 --unmerge
  subdub segment 3f2a... 2 --break-at 12
  subdub segment 3f2a... 2 --voice es-ES-AlvaroNeural
  subdub segment 3f2a... 2 --apply-rate
  subdub segment 3f2a... 2 --clear-rate`,
	Args: cobra.ExactArgs(2),
	RunE: runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)

	segmentCmd.Flags().
		Bool("merge-down", false, "Merge the segment with the next one")
	segmentCmd.Flags().
		Bool("unmerge", false, "Split a merged segment back into its cues")
	segmentCmd.Flags().
		Int("break-at", -1, "Insert a 100ms pause at this character offset")
	segmentCmd.Flags().
		String("text", "", "Replace the segment text")
	segmentCmd.Flags().
		String("voice", "", "Set the synthesis voice")
	segmentCmd.Flags().
		Bool("apply-rate", false, "Apply the segment's speed-up hint and re-synthesize")
	segmentCmd.Flags().
		Bool("clear-rate", false, "Reset the rate to 0 and re-synthesize")
}

func runSegment(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid segment index %q", args[1])
	}

	mergeDown, _ := cmd.Flags().GetBool("merge-down")
	unmerge, _ := cmd.Flags().GetBool("unmerge")
	breakAt, _ := cmd.Flags().GetInt("break-at")
	text, _ := cmd.Flags().GetString("text")
	voice, _ := cmd.Flags().GetString("voice")
	applyRate, _ := cmd.Flags().GetBool("apply-rate")
	clearRate, _ := cmd.Flags().GetBool("clear-rate")

	needsEngine := applyRate || clearRate
	w, err := openWorkspace(ctx, cmd, args[0], needsEngine)
	if err != nil {
		return err
	}
	defer w.Close()
	s := w.session

	if len(s.Dubbing()) == 0 {
		return fmt.Errorf("document has no dubbing track: run 'subdub dub' first")
	}

	applied := false
	switch {
	case mergeDown:
		applied = s.MergeDown(index)
	case unmerge:
		applied = s.UnmergeAll(index)
	case breakAt >= 0:
		applied = s.InsertBreak(index, breakAt)
	case text != "":
		applied = s.SetSegmentText(index, text)
	case voice != "":
		applied = s.SetVoice(index, voice)
	case applyRate:
		if _, err := s.Synthesize(ctx, index); err != nil {
			return err
		}
		if err := s.ApplyRateHint(ctx, index); err != nil {
			return err
		}
		applied = true
	case clearRate:
		if err := s.ClearRate(ctx, index); err != nil {
			return err
		}
		applied = true
	default:
		return fmt.Errorf("no edit given: see 'subdub segment --help'")
	}

	if !applied {
		fmt.Printf("Nothing to do for segment %d\n", index)
		return nil
	}
	if err := saveIfDirty(ctx, s); err != nil {
		return err
	}

	segments := s.Dubbing()
	if index < len(segments) {
		seg := segments[index]
		fmt.Printf("Segment %d: %s --> %s  rate %+.2f  %s\n",
			index,
			timecode.Format(seg.From, true, ".", 3),
			timecode.Format(seg.To, true, ".", 3),
			seg.Params.Rate,
			seg.Text,
		)
	}
	return nil
}
