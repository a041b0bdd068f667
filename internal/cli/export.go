package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mgpai22/subdub/internal/subtitle"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [document_id]",
	Short: "Write SRT, VTT and ASS exports of a document",
	Long: `Export the source and translated tracks of a document:

  <title>.src.vtt, <title>.src.srt
  <title>.translated.vtt, <title>.translated.srt, <title>.translated.ass

The ASS file carries the on-screen text overlay with its position,
size and colour directives.

Examples:
  subdub export 3f2a... -o exports/
  subdub export 3f2a... --title lesson1 --no-ost`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		StringP("output", "o", "", "Output directory (default: export.dir from config)")
	exportCmd.Flags().
		StringP("title", "t", "", "File name prefix (default: document title)")
	exportCmd.Flags().
		Bool("no-ost", false, "Leave on-screen text out of the ASS export")
	exportCmd.Flags().
		Bool("no-cues", false, "Leave subtitle cues out of the ASS export (overlay only)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	outputDir, _ := cmd.Flags().GetString("output")
	title, _ := cmd.Flags().GetString("title")
	noOST, _ := cmd.Flags().GetBool("no-ost")
	noCues, _ := cmd.Flags().GetBool("no-cues")

	if outputDir == "" {
		outputDir = cfg.Export.Dir
	}

	w, err := openWorkspace(ctx, cmd, args[0], false)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, warning := range w.session.OST().Warnings() {
		logger.Warnw("OST style warning", "item", warning.Index, "message", warning.Message)
	}

	opts := subtitle.DefaultASSOptions()
	opts.FontName = cfg.Export.FontName
	opts.FontSize = cfg.Export.FontSize
	opts.IncludeOST = !noOST
	opts.IncludeCues = !noCues

	paths, err := w.session.WriteExports(outputDir, title, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d files:\n", len(paths))
	for _, p := range paths {
		abs, _ := filepath.Abs(p)
		fmt.Printf("  %s\n", abs)
	}
	return nil
}
