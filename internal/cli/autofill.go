package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mgpai22/subdub/internal/subtitle"
	"github.com/mgpai22/subdub/internal/translate"
	"github.com/spf13/cobra"
)

var autofillCmd = &cobra.Command{
	Use:   "autofill [document_id]",
	Short: "Translate every empty destination cue with an LLM",
	Long: `Stream a translation into each destination cue that is still empty, one
cue at a time in document order.

Press Ctrl-C to stop: text already received is kept and saved, and a
later run picks up with the cues that are still empty.

Examples:
  subdub autofill 3f2a... --target-language spanish
  subdub autofill 3f2a... -t ja --provider anthropic --character "Lecturer"`,
	Args: cobra.ExactArgs(1),
	RunE: runAutofill,
}

func init() {
	rootCmd.AddCommand(autofillCmd)

	autofillCmd.Flags().
		StringP("target-language", "t", "", "Target language (default: translation.target_language)")
	autofillCmd.Flags().
		StringP("language", "l", "", "Source language")
	autofillCmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic)")
	autofillCmd.Flags().
		String("model", "", "Model to use (provider-specific, uses sensible defaults)")
	autofillCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	autofillCmd.Flags().
		String("character", "", "Who is speaking, for tone")
	autofillCmd.Flags().
		String("background", "", "Course background given to the translator")
	autofillCmd.Flags().
		String("syllabus", "", "Course syllabus given to the translator")
}

func runAutofill(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tc := cfg.Translation
	overrideString(cmd, "target-language", &tc.TargetLanguage)
	overrideString(cmd, "language", &tc.InputLanguage)
	overrideString(cmd, "provider", &tc.Provider)
	overrideString(cmd, "model", &tc.Model)
	overrideString(cmd, "api-key", &tc.APIKey)
	overrideString(cmd, "character", &tc.Character)
	overrideString(cmd, "background", &tc.Background)
	overrideString(cmd, "syllabus", &tc.Syllabus)
	cfg.Translation = tc

	if tc.TargetLanguage == "" {
		return fmt.Errorf("target language is required: use --target-language or translation.target_language")
	}
	if tc.InputLanguage != "" &&
		strings.EqualFold(strings.TrimSpace(tc.InputLanguage), strings.TrimSpace(tc.TargetLanguage)) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			tc.InputLanguage,
			tc.TargetLanguage,
		)
	}

	apiKey := cfg.TranslationAPIKey()
	if apiKey == "" {
		return fmt.Errorf("API key is required: use --api-key flag or set the %s provider's API key environment variable", tc.Provider)
	}

	streamer, err := translate.Factory(ctx, translate.Provider(tc.Provider), apiKey, translate.Options{
		InputLanguage:  tc.InputLanguage,
		TargetLanguage: tc.TargetLanguage,
		Model:          tc.Model,
		Prompt:         tc.Prompt,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	w, err := openWorkspace(ctx, cmd, args[0], false)
	if err != nil {
		return err
	}
	defer w.Close()

	pending := len(w.session.Dst().Untranslated(w.session.Src()))
	logger.Infow("Starting auto-fill",
		"document", w.session.ID(),
		"pending", pending,
		"provider", tc.Provider,
		"target_language", tc.TargetLanguage,
	)

	res, fillErr := w.session.AutoFill(ctx, streamer, translate.FillOptions{
		Character:  tc.Character,
		Background: tc.Background,
		Syllabus:   tc.Syllabus,
		BufferSize: tc.BufferSize,
		Logger:     logger,
		OnUpdate: func(dst subtitle.Track, index int) {
			logger.Debugw("Fragment", "cue", index, "text", dst.TextAt(index))
		},
	})

	// partial text is kept whether or not the run finished
	if err := saveIfDirty(context.Background(), w.session); err != nil {
		return err
	}

	if translate.IsAborted(fillErr) {
		fmt.Printf("Auto-fill aborted: %d of %d cues translated, progress saved\n", len(res.Filled), pending)
		return nil
	}
	if fillErr != nil {
		return fmt.Errorf("auto-fill failed after %d cues: %w", len(res.Filled), fillErr)
	}

	fmt.Printf("Auto-fill complete: %d cues translated, %d already filled\n", len(res.Filled), res.Skipped)
	return nil
}

func overrideString(cmd *cobra.Command, flag string, dst *string) {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		*dst = v
	}
}
