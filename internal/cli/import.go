package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/subdub/internal/editor"
	"github.com/mgpai22/subdub/internal/subtitle"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [subtitle_file]",
	Short: "Create a document from a subtitle file",
	Long: `Import an SRT, VTT, ASS/SSA or TTML file as the source track of a new
document. The destination track starts empty.

Examples:
  subdub import lesson1.srt
  subdub import lesson1.vtt --title "Lesson 1" --video-url https://cdn.example.com/l1.mp4
  cat lesson1.vtt | subdub import - --format vtt --title "Lesson 1"`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)

	importCmd.Flags().
		StringP("title", "t", "", "Document title (default: file name)")
	importCmd.Flags().
		String("video-url", "", "URL of the video the subtitles belong to")
	importCmd.Flags().
		StringP("format", "f", "srt", "Format of stdin input (srt, vtt, ass)")
}

func runImport(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	title, _ := cmd.Flags().GetString("title")
	videoURL, _ := cmd.Flags().GetString("video-url")

	var (
		track subtitle.Track
		err   error
	)
	if subtitlePath == "-" {
		format, _ := cmd.Flags().GetString("format")
		if title == "" {
			title = "stdin"
		}
		logger.Infow("Importing subtitles", "input", "stdin", "format", format, "title", title)
		track, err = subtitle.ImportReader(os.Stdin, subtitle.GetFormatFromExtension("."+format))
	} else {
		track, err = importFile(subtitlePath, &title)
	}
	if err != nil {
		return fmt.Errorf("failed to import subtitles: %w", err)
	}
	if track.Len() == 0 {
		return fmt.Errorf("subtitle file contains no cues")
	}
	if videoURL != "" {
		track.VideoURL = videoURL
	}

	store, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	session, err := editor.Create(ctx, title, track, editor.Options{Store: store, Logger: logger})
	if err != nil {
		return err
	}

	fmt.Printf("Document created: %s\n", session.ID())
	fmt.Printf("  Title: %s\n", session.Title())
	fmt.Printf("  Cues: %d\n", track.Len())

	return nil
}

func importFile(path string, title *string) (subtitle.Track, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return subtitle.Track{}, fmt.Errorf("subtitle file not found: %s", path)
	}
	if !subtitle.IsSubtitleFile(path) {
		return subtitle.Track{}, fmt.Errorf(
			"unsupported subtitle format %q: use .srt, .vtt, .ass, .ssa or .ttml",
			filepath.Ext(path),
		)
	}
	if *title == "" {
		base := filepath.Base(path)
		*title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	logger.Infow("Importing subtitles", "input", path, "title", *title)
	return subtitle.Import(path)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No documents")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s  %s  %s\n", rec.ID, rec.SavedAt.Local().Format("2006-01-02 15:04"), rec.Title)
	}
	return nil
}
