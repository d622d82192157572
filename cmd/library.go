package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jaki95/video-factory/internal/audio"
	"github.com/jaki95/video-factory/internal/library"
	"github.com/spf13/cobra"
)

var libraryCategory string

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse the asset library",
}

var libraryMusicCmd = &cobra.Command{
	Use:   "music",
	Short: "List music tracks",
	Run: func(cmd *cobra.Command, args []string) {
		w := newTable("ID\tTITLE\tARTIST\tCATEGORY\tDURATION")
		for _, t := range library.FilterMusic(libraryCategory) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d:%02d\n", t.ID, t.Title, t.Artist, t.Category, int(t.Duration)/60, int(t.Duration)%60)
		}
		w.Flush()
	},
}

var libraryImagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List reference images",
	Run: func(cmd *cobra.Command, args []string) {
		w := newTable("ID\tTITLE\tCATEGORY\tURL")
		for _, img := range library.FilterImages(libraryCategory) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", img.ID, img.Title, img.Category, img.URL)
		}
		w.Flush()
	},
}

var libraryTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List video templates",
	Run: func(cmd *cobra.Command, args []string) {
		w := newTable("ID\tTITLE\tCATEGORY\tDESCRIPTION")
		for _, t := range library.Templates() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Category, t.Description)
		}
		w.Flush()
	},
}

var libraryVoicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List narrator voices and languages",
	Run: func(cmd *cobra.Command, args []string) {
		w := newTable("ID\tNAME\tSTYLE\tGENDER")
		for _, v := range library.Voices() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, v.Name, v.Style, v.Gender)
		}
		w.Flush()

		fmt.Println()
		w = newTable("LANGUAGE\tNAME")
		for _, l := range library.Languages() {
			fmt.Fprintf(w, "%s\t%s\n", l.Code, l.Name)
		}
		w.Flush()
	},
}

var libraryPlayCmd = &cobra.Command{
	Use:   "play <trackId|link>",
	Short: "Preview a music track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		track, err := library.FindMusic(args[0])
		if err != nil {
			track, err = library.NewResolver().Resolve(ctx, args[0])
			if err != nil {
				return err
			}
		}

		fmt.Printf("Playing %s (ctrl-c to stop)\n", track.Title)
		player := audio.NewPlayer(audio.FFPlay)
		if _, err := player.Play(ctx, track.ID, track.URL); err != nil {
			return err
		}
		return waitPlayback(ctx, player)
	},
}

func newTable(header string) *tabwriter.Writer {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	return w
}

func init() {
	libraryCmd.PersistentFlags().StringVar(&libraryCategory, "category", library.AllCategories, "category filter")
	libraryCmd.AddCommand(libraryMusicCmd, libraryImagesCmd, libraryTemplatesCmd, libraryVoicesCmd, libraryPlayCmd)
	rootCmd.AddCommand(libraryCmd)
}
