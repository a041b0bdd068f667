package cli

import (
	"github.com/mgpai22/subdub/internal/config"
	"github.com/mgpai22/subdub/internal/ffmpeg"
	"github.com/mgpai22/subdub/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	envFile    string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "subdub",
	Short: "Subtitle translation, dubbing and export toolkit",
	Long: `Subdub keeps a bilingual subtitle track, an on-screen text overlay and
a synthesized dubbing track in sync with a video, and exports them as
SRT, VTT and ASS.

Documents are stored as source/destination JSON payloads in a local
directory or in PostgreSQL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		if err := config.LoadEnv(envFile); err != nil {
			return err
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		loaded.ApplyEnv()
		cfg = loaded

		ffmpeg.Configure(ffmpeg.BinaryPaths{
			FFmpeg:  cfg.FFmpeg.FFmpegPath,
			FFprobe: cfg.FFmpeg.FFprobePath,
		})

		logger.Debugw("Configuration loaded",
			"config", configPath,
			"store", cfg.Store.Driver,
			"provider", cfg.Translation.Provider,
			"cache", cfg.Cache.Addr != "",
		)
		return nil
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil && logger != nil {
		logger.Errorw("Command failed", "error", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().
		StringVar(&envFile, "env-file", "", "Path to .env file (default: ./.env when present)")
	rootCmd.PersistentFlags().
		String("store", "", "Document store driver override (file, postgres)")
	rootCmd.PersistentFlags().
		String("store-dir", "", "Directory for the file store")
}

func storeFlags(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store.Driver = v
	}
	if v, _ := cmd.Flags().GetString("store-dir"); v != "" {
		cfg.Store.Dir = v
	}
}
