package domain

// MusicTrack is a background music entry in the asset library.
type MusicTrack struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Category string  `json:"category"`
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

// LayerSource returns the reference a layer holds to this track.
func (m MusicTrack) LayerSource() LayerSource {
	return LayerSource{TrackID: m.ID, Name: m.Title, URL: m.URL, Duration: m.Duration}
}

// LibraryImage is a reference image in the asset library.
type LibraryImage struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Prompt   string `json:"prompt"`
}

// VideoTemplate is a starting prompt with a sample clip.
type VideoTemplate struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	VideoURL    string `json:"videoUrl"`
	Category    string `json:"category"`
	Description string `json:"description"`
	BasePrompt  string `json:"basePrompt"`
}

// Voice is a narrator profile backed by a prebuilt speech voice.
type Voice struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Style        string `json:"style"`
	PrebuiltName string `json:"prebuiltName"`
	Gender       string `json:"gender"`
}

// Language is a narration language with its preview greeting.
type Language struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Greeting string `json:"greeting"`
}
