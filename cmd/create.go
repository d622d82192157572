package cmd

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/library"
	"github.com/jaki95/video-factory/internal/progress"
	"github.com/jaki95/video-factory/internal/studio"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type createOptions struct {
	prompt     string
	template   string
	aspect     string
	resolution string
	image      string
	voice      string
	language   string
	music      []string
	automix    bool
}

var createOpts createOptions

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a video and add it to the gallery",
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
		session := st.Session()

		if err := createOpts.apply(cmd, session); err != nil {
			return err
		}

		if createOpts.automix && session.Mixer().Len() > 0 {
			fmt.Println("Auto-mixing audio layers...")
			if err := <-session.AutoMix(ctx); err != nil {
				return err
			}
		}

		bar := progressbar.NewOptions(
			100,
			progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetDescription("[cyan][1/1][reset] Submitting..."),
		)

		tracker := progress.NewTracker()
		tracker.AddListener(func(e progress.Event) {
			bar.Set(int(e.Progress))
			if e.Message != "" {
				bar.Describe("[cyan][1/1][reset] " + e.Message)
			}
		})

		video, err := session.Submit(ctx, tracker)
		bar.Finish()
		fmt.Println()
		if errors.Is(err, studio.ErrEmptyPrompt) {
			return fmt.Errorf("%s Use --prompt or --template", studio.EmptyPromptMessage)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Video %s ready: %s\n", video.ID, video.URI)
		return nil
	},
}

// apply copies the flags into the session, going through the same selection
// path the library screens use.
func (o createOptions) apply(cmd *cobra.Command, session *studio.Session) error {
	if o.template != "" {
		tpl, err := library.FindTemplate(o.template)
		if err != nil {
			return err
		}
		if err := session.ApplySelection(domain.TemplateSelected{Prompt: tpl.BasePrompt}); err != nil {
			return err
		}
	}
	if o.prompt != "" {
		session.SetPrompt(o.prompt)
	}

	if err := session.SetAspectRatio(o.aspect); err != nil {
		return err
	}
	if err := session.SetResolution(o.resolution); err != nil {
		return err
	}
	if o.language != "" {
		if _, err := library.FindLanguage(o.language); err != nil {
			return err
		}
		if err := session.SetLanguage(o.language); err != nil {
			return err
		}
	}

	if o.image != "" {
		image, err := loadImage(o.image)
		if err != nil {
			return err
		}
		session.SetImage(image)
	}

	if o.voice != "" {
		voice, err := library.FindVoice(o.voice)
		if err != nil {
			return err
		}
		if err := session.ApplySelection(domain.VoiceSelected{VoiceID: voice.ID, VoiceName: voice.PrebuiltName}); err != nil {
			return err
		}
	}

	resolver := library.NewResolver()
	for _, m := range o.music {
		var track domain.MusicTrack
		var err error
		if strings.HasPrefix(m, "http://") || strings.HasPrefix(m, "https://") {
			track, err = resolver.Resolve(cmd.Context(), m)
		} else {
			track, err = library.FindMusic(m)
		}
		if err != nil {
			return err
		}
		if err := session.ApplySelection(domain.MusicSelected{Source: track.LayerSource()}); err != nil {
			return err
		}
	}
	return nil
}

// loadImage returns a local image file as a data URL; anything else is
// passed through as a URL or base64 payload.
func loadImage(ref string) (string, error) {
	info, err := os.Stat(ref)
	if err != nil || info.IsDir() {
		return ref, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(ref)))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func init() {
	f := createCmd.Flags()
	f.StringVar(&createOpts.prompt, "prompt", "", "scene description")
	f.StringVar(&createOpts.template, "template", "", "template id to seed the prompt")
	f.StringVar(&createOpts.aspect, "aspect", string(domain.AspectLandscape), "aspect ratio (16:9 or 9:16)")
	f.StringVar(&createOpts.resolution, "resolution", string(domain.Resolution1080p), "resolution (720p or 1080p)")
	f.StringVar(&createOpts.image, "image", "", "reference image: file path, URL or data URL")
	f.StringVar(&createOpts.voice, "voice", "", "narrator voice id")
	f.StringVar(&createOpts.language, "language", "", "narration language code")
	f.StringArrayVar(&createOpts.music, "music", nil, "music track id or link; repeat to layer tracks")
	f.BoolVar(&createOpts.automix, "automix", false, "apply the cinematic auto-mix before generating")
	rootCmd.AddCommand(createCmd)
}
