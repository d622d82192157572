package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jaki95/video-factory/internal/domain"
	"github.com/jaki95/video-factory/internal/downloader"
	"github.com/spf13/cobra"
)

var (
	galleryRecent int
	galleryStored bool
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List generated videos, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		videos := a.history.List()
		if galleryRecent > 0 {
			videos = a.history.Recent(galleryRecent)
		}
		if galleryStored {
			ids, err := downloader.NewVideoDownloader(a.store).Stored(cmd.Context())
			if err != nil {
				return err
			}
			videos = filterStored(videos, ids)
		}
		if len(videos) == 0 {
			fmt.Println("No productions yet.")
			return nil
		}
		printVideos(videos)
		return nil
	},
}

// filterStored keeps the videos with a saved copy in storage.
func filterStored(videos []domain.GeneratedVideo, ids []string) []domain.GeneratedVideo {
	stored := make(map[string]bool, len(ids))
	for _, id := range ids {
		stored[id] = true
	}
	var out []domain.GeneratedVideo
	for _, v := range videos {
		if stored[v.ID] {
			out = append(out, v)
		}
	}
	return out
}

func printVideos(videos []domain.GeneratedVideo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tFORMAT\tPROMPT\tURI")
	for _, v := range videos {
		created := time.UnixMilli(v.Timestamp).Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", v.ID, created, v.AspectRatio, truncate(v.Prompt, 48), v.URI)
	}
	w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	galleryCmd.Flags().IntVar(&galleryRecent, "recent", 0, "show only the N most recent videos")
	galleryCmd.Flags().BoolVar(&galleryStored, "stored", false, "show only videos saved to storage")
	rootCmd.AddCommand(galleryCmd)
}
