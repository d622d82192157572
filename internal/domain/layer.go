package domain

// EQ holds per-band gain in decibels.
type EQ struct {
	Bass   int `json:"bass"`
	Mid    int `json:"mid"`
	Treble int `json:"treble"`
}

// AudioLayer is one audio clip placed on the production timeline.
type AudioLayer struct {
	ID             string  `json:"id"`
	TrackID        string  `json:"trackId"`
	Name           string  `json:"name"`
	URL            string  `json:"url"`
	ClipStart      float64 `json:"clipStart"`      // seconds from start of source file
	ClipEnd        float64 `json:"clipEnd"`        // seconds from start of source file
	TimelineOffset float64 `json:"timelineOffset"` // seconds from start of video
	Volume         float64 `json:"volume"`
	EQ             EQ      `json:"eq"`
}

// Layer field ranges.
const (
	MinVolume = 0.0
	MaxVolume = 1.0
	MinEQGain = -15
	MaxEQGain = 15
)

// ClipDuration returns the length of the clip window in seconds.
func (l AudioLayer) ClipDuration() float64 {
	return l.ClipEnd - l.ClipStart
}

// TimelineEnd returns the point on the output timeline where the clip stops.
func (l AudioLayer) TimelineEnd() float64 {
	return l.TimelineOffset + l.ClipDuration()
}

// LayerSource is the asset a layer references when it is added to a project.
type LayerSource struct {
	TrackID  string  `json:"trackId"`
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Duration float64 `json:"duration,omitempty"`
}

// EQPatch updates individual bands; nil bands are left alone.
type EQPatch struct {
	Bass   *int `json:"bass,omitempty"`
	Mid    *int `json:"mid,omitempty"`
	Treble *int `json:"treble,omitempty"`
}

// LayerPatch is a partial update of an AudioLayer. Only non-nil fields are merged.
type LayerPatch struct {
	ClipStart      *float64 `json:"clipStart,omitempty"`
	ClipEnd        *float64 `json:"clipEnd,omitempty"`
	TimelineOffset *float64 `json:"timelineOffset,omitempty"`
	Volume         *float64 `json:"volume,omitempty"`
	EQ             *EQPatch `json:"eq,omitempty"`
}

// Apply merges the patch into a copy of the layer and returns it.
func (p LayerPatch) Apply(l AudioLayer) AudioLayer {
	if p.ClipStart != nil {
		l.ClipStart = *p.ClipStart
	}
	if p.ClipEnd != nil {
		l.ClipEnd = *p.ClipEnd
	}
	if p.TimelineOffset != nil {
		l.TimelineOffset = *p.TimelineOffset
	}
	if p.Volume != nil {
		l.Volume = *p.Volume
	}
	if p.EQ != nil {
		if p.EQ.Bass != nil {
			l.EQ.Bass = *p.EQ.Bass
		}
		if p.EQ.Mid != nil {
			l.EQ.Mid = *p.EQ.Mid
		}
		if p.EQ.Treble != nil {
			l.EQ.Treble = *p.EQ.Treble
		}
	}
	return l
}

// Preset is a bundle of gain and EQ values applied uniformly across layers.
type Preset struct {
	Name   string  `json:"name"`
	EQ     EQ      `json:"eq"`
	Volume float64 `json:"volume"`
}

// CinematicPreset is the "Cinematic Mood" bundle used by the auto-mixer.
var CinematicPreset = Preset{
	Name:   "cinematic",
	EQ:     EQ{Bass: -4, Mid: -2, Treble: 4},
	Volume: 0.3,
}
