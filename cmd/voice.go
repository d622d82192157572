package cmd

import (
	"fmt"
	"os"

	"github.com/jaki95/video-factory/internal/audio"
	"github.com/spf13/cobra"
)

var (
	voiceLanguage string
	voiceOut      string
	voicePlay     bool
)

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Narrator voices",
}

var voicePreviewCmd = &cobra.Command{
	Use:   "preview <voiceId>",
	Short: "Speak the language greeting with a voice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.newStudio(ctx)
		if err != nil {
			return err
		}

		wav, err := st.PreviewVoice(ctx, args[0], voiceLanguage)
		if err != nil {
			return err
		}

		if voiceOut != "" {
			if err := os.WriteFile(voiceOut, wav, 0o644); err != nil {
				return fmt.Errorf("failed to write preview: %w", err)
			}
			fmt.Printf("Saved preview to %s\n", voiceOut)
		}

		if voicePlay || voiceOut == "" {
			player := audio.NewPlayer(audio.FFPlay)
			if _, err := player.PlayData(ctx, args[0], wav, ".wav"); err != nil {
				return err
			}
			return waitPlayback(ctx, player)
		}
		return nil
	},
}

func init() {
	voicePreviewCmd.Flags().StringVar(&voiceLanguage, "language", "", "language code of the greeting (defaults to generation.default_language)")
	voicePreviewCmd.Flags().StringVar(&voiceOut, "out", "", "write the preview to this WAV file")
	voicePreviewCmd.Flags().BoolVar(&voicePlay, "play", false, "play the preview even when --out is set")
	voiceCmd.AddCommand(voicePreviewCmd)
	rootCmd.AddCommand(voiceCmd)
}
