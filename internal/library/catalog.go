// Package library holds the studio's built-in asset catalogs and resolves
// user-supplied music links into tracks.
package library

import (
	"errors"
	"fmt"

	"github.com/jaki95/video-factory/internal/domain"
)

var ErrNotFound = errors.New("asset not found")

// AllCategories disables category filtering.
const AllCategories = "All"

var imageCategories = []string{"All", "Humans", "Realistic", "Anime", "Cyberpunk", "Nature"}

var musicCategories = []string{"All", "Classical", "Arabic", "Cinematic", "Ambient"}

var musicLibrary = []domain.MusicTrack{
	{ID: "m1", Title: "Cinematic Inspiration", Artist: "Audio Studio", Category: "Cinematic", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3", Duration: 372},
	{ID: "m2", Title: "Midnight Piano", Artist: "Classical Masters", Category: "Classical", URL: "https://cdn.pixabay.com/audio/2022/10/25/audio_2434529f79.mp3", Duration: 180},
	{ID: "m3", Title: "Arabic Nights (Oud)", Artist: "Oriental Heritage", Category: "Arabic", URL: "https://cdn.pixabay.com/audio/2022/11/22/audio_1f81076b1e.mp3", Duration: 185},
	{ID: "m4", Title: "Desert Breeze", Artist: "Mystic Sounds", Category: "Arabic", URL: "https://cdn.pixabay.com/audio/2023/06/21/audio_5f27192628.mp3", Duration: 240},
	{ID: "m5", Title: "Deep Space Ambient", Artist: "Electronic Pulse", Category: "Ambient", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-8.mp3", Duration: 312},
}

var languages = []domain.Language{
	{Code: "ar", Name: "العربية", Greeting: "مرحباً بك في فيديو فاكتوري. أنا جاهز لتوليد صوتك الاحترافي."},
	{Code: "en", Name: "English", Greeting: "Welcome to Video Factory. I am ready to generate your professional voice."},
}

var videoTemplates = []domain.VideoTemplate{
	{
		ID:          "tpl-1",
		Title:       "Ocean Majesty",
		VideoURL:    "https://vjs.zencdn.net/v/oceans.mp4",
		Category:    "Cinematic",
		Description: "Breathtaking 4K ocean waves.",
		BasePrompt:  "Cinematic wide shot of blue ocean water, sunlight reflecting.",
	},
	{
		ID:          "tpl-2",
		Title:       "Floral Bloom",
		VideoURL:    "https://interactive-examples.mdn.mozilla.net/media/cc0-videos/flower.mp4",
		Category:    "Nature",
		Description: "Stunning macro time-lapse.",
		BasePrompt:  "Macro shot of a flower blooming, vibrant colors, bokeh background.",
	},
}

var voices = []domain.Voice{
	{ID: "f-1", Name: "Layla (Arabic)", Style: "Natural", PrebuiltName: "Kore", Gender: "female"},
	{ID: "m-1", Name: "Adam (Arabic)", Style: "Professional", PrebuiltName: "Charon", Gender: "male"},
}

var libraryImages = buildImages()

func buildImages() []domain.LibraryImage {
	humanIDs := []int{3771115, 3778603, 3785077, 3916433, 415829, 220453}

	images := make([]domain.LibraryImage, 40)
	for i := range images {
		id := humanIDs[i%len(humanIDs)]
		category := "Nature"
		if i < 20 {
			category = "Humans"
		}
		images[i] = domain.LibraryImage{
			ID:       fmt.Sprintf("img-%d", i),
			URL:      fmt.Sprintf("https://images.pexels.com/photos/%d/pexels-photo-%d.jpeg?auto=compress&cs=tinysrgb&w=800", id, id),
			Title:    fmt.Sprintf("Asset %d", i+1),
			Category: category,
			Prompt:   "Cinematic high-quality visual asset.",
		}
	}
	return images
}

func ImageCategories() []string { return append([]string(nil), imageCategories...) }
func MusicCategories() []string { return append([]string(nil), musicCategories...) }

func Music() []domain.MusicTrack { return append([]domain.MusicTrack(nil), musicLibrary...) }
func Images() []domain.LibraryImage { return append([]domain.LibraryImage(nil), libraryImages...) }
func Templates() []domain.VideoTemplate { return append([]domain.VideoTemplate(nil), videoTemplates...) }
func Voices() []domain.Voice { return append([]domain.Voice(nil), voices...) }
func Languages() []domain.Language { return append([]domain.Language(nil), languages...) }

// FilterMusic returns the tracks in category. "All" or empty returns everything.
func FilterMusic(category string) []domain.MusicTrack {
	if category == "" || category == AllCategories {
		return Music()
	}
	var out []domain.MusicTrack
	for _, m := range musicLibrary {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return out
}

// FilterImages returns the images in category. "All" or empty returns everything.
func FilterImages(category string) []domain.LibraryImage {
	if category == "" || category == AllCategories {
		return Images()
	}
	var out []domain.LibraryImage
	for _, img := range libraryImages {
		if img.Category == category {
			out = append(out, img)
		}
	}
	return out
}

func FindMusic(id string) (domain.MusicTrack, error) {
	for _, m := range musicLibrary {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.MusicTrack{}, fmt.Errorf("%w: music %s", ErrNotFound, id)
}

func FindImage(id string) (domain.LibraryImage, error) {
	for _, img := range libraryImages {
		if img.ID == id {
			return img, nil
		}
	}
	return domain.LibraryImage{}, fmt.Errorf("%w: image %s", ErrNotFound, id)
}

func FindTemplate(id string) (domain.VideoTemplate, error) {
	for _, tpl := range videoTemplates {
		if tpl.ID == id {
			return tpl, nil
		}
	}
	return domain.VideoTemplate{}, fmt.Errorf("%w: template %s", ErrNotFound, id)
}

func FindVoice(id string) (domain.Voice, error) {
	for _, v := range voices {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.Voice{}, fmt.Errorf("%w: voice %s", ErrNotFound, id)
}

// FindLanguage looks a language up by code.
func FindLanguage(code string) (domain.Language, error) {
	for _, l := range languages {
		if l.Code == code {
			return l, nil
		}
	}
	return domain.Language{}, fmt.Errorf("%w: language %s", ErrNotFound, code)
}
