package mixer

import (
	"fmt"
	"math"

	"github.com/jaki95/video-factory/internal/domain"
)

// ValidationPolicy decides what happens to out-of-range layer edits.
type ValidationPolicy string

const (
	// PolicyPermissive stores values exactly as given.
	PolicyPermissive ValidationPolicy = "permissive"
	// PolicyClamp forces values into their valid range.
	PolicyClamp ValidationPolicy = "clamp"
	// PolicyStrict rejects the edit and leaves the layer untouched.
	PolicyStrict ValidationPolicy = "strict"
)

// ParseValidationPolicy maps a config value to a policy. Empty means permissive.
func ParseValidationPolicy(s string) (ValidationPolicy, error) {
	switch ValidationPolicy(s) {
	case "", PolicyPermissive:
		return PolicyPermissive, nil
	case PolicyClamp, PolicyStrict:
		return ValidationPolicy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownValidation, s)
}

// enforce applies the policy to prev edited into l. sourceDuration is zero
// when unknown.
func (p ValidationPolicy) enforce(prev, l domain.AudioLayer, sourceDuration float64) (domain.AudioLayer, error) {
	switch p {
	case PolicyClamp:
		return clampLayer(prev, l, sourceDuration), nil
	case PolicyStrict:
		if err := validateLayer(l, sourceDuration); err != nil {
			return l, err
		}
	}
	return l, nil
}

func clampLayer(prev, l domain.AudioLayer, sourceDuration float64) domain.AudioLayer {
	l.ClipStart = math.Max(0, l.ClipStart)
	if sourceDuration > 0 {
		l.ClipEnd = math.Min(l.ClipEnd, sourceDuration)
	}
	// an edit that would empty or invert the clip window keeps the previous one
	if l.ClipEnd <= l.ClipStart {
		l.ClipStart, l.ClipEnd = prev.ClipStart, prev.ClipEnd
	}
	l.TimelineOffset = math.Max(0, l.TimelineOffset)
	l.Volume = math.Min(domain.MaxVolume, math.Max(domain.MinVolume, l.Volume))
	l.EQ.Bass = clampGain(l.EQ.Bass)
	l.EQ.Mid = clampGain(l.EQ.Mid)
	l.EQ.Treble = clampGain(l.EQ.Treble)
	return l
}

func clampGain(v int) int {
	if v < domain.MinEQGain {
		return domain.MinEQGain
	}
	if v > domain.MaxEQGain {
		return domain.MaxEQGain
	}
	return v
}

func validateLayer(l domain.AudioLayer, sourceDuration float64) error {
	switch {
	case l.ClipStart < 0:
		return fmt.Errorf("%w: clipStart %.2f is negative", ErrInvalidLayer, l.ClipStart)
	case l.ClipEnd <= l.ClipStart:
		return fmt.Errorf("%w: clipEnd %.2f must be after clipStart %.2f", ErrInvalidLayer, l.ClipEnd, l.ClipStart)
	case sourceDuration > 0 && l.ClipEnd > sourceDuration:
		return fmt.Errorf("%w: clipEnd %.2f exceeds source duration %.2f", ErrInvalidLayer, l.ClipEnd, sourceDuration)
	case l.TimelineOffset < 0:
		return fmt.Errorf("%w: timelineOffset %.2f is negative", ErrInvalidLayer, l.TimelineOffset)
	case l.Volume < domain.MinVolume || l.Volume > domain.MaxVolume:
		return fmt.Errorf("%w: volume %.2f outside [0,1]", ErrInvalidLayer, l.Volume)
	}
	for band, gain := range map[string]int{"bass": l.EQ.Bass, "mid": l.EQ.Mid, "treble": l.EQ.Treble} {
		if gain < domain.MinEQGain || gain > domain.MaxEQGain {
			return fmt.Errorf("%w: %s gain %d outside [-15,15]", ErrInvalidLayer, band, gain)
		}
	}
	return nil
}
