// Package mixer holds the multi-track audio layer collection of a creation
// session. Layers are configuration only: trim, placement, gain and EQ are
// stored and forwarded with the generation request, never rendered.
package mixer

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jaki95/video-factory/internal/domain"
)

// Defaults for a newly added layer.
const (
	DefaultClipLength = 30.0
	DefaultVolume     = 0.5
)

// Mixer is the ordered layer collection of one creation session.
type Mixer struct {
	mu        sync.RWMutex
	layers    []domain.AudioLayer
	durations map[string]float64 // layer id -> source duration, when known
	policy    ValidationPolicy
	newID     func() string
}

// New creates an empty collection that edits layers under the given policy.
func New(policy ValidationPolicy) *Mixer {
	if policy == "" {
		policy = PolicyPermissive
	}
	return &Mixer{
		durations: make(map[string]float64),
		policy:    policy,
		newID:     uuid.NewString,
	}
}

// Add appends a layer for src with a 30 second clip window, shortened to the
// source when it is known to be shorter, placed right after the previous
// layer's offset.
func (m *Mixer) Add(src domain.LayerSource) domain.AudioLayer {
	m.mu.Lock()
	defer m.mu.Unlock()

	offset := 0.0
	if n := len(m.layers); n > 0 {
		offset = m.layers[n-1].TimelineOffset + DefaultClipLength
	}

	clipEnd := DefaultClipLength
	if src.Duration > 0 && src.Duration < clipEnd {
		clipEnd = src.Duration
	}

	layer := domain.AudioLayer{
		ID:             m.newID(),
		TrackID:        src.TrackID,
		Name:           src.Name,
		URL:            src.URL,
		ClipStart:      0,
		ClipEnd:        clipEnd,
		TimelineOffset: offset,
		Volume:         DefaultVolume,
	}

	m.layers = append(m.layers, layer)
	if src.Duration > 0 {
		m.durations[layer.ID] = src.Duration
	}
	return layer
}

// Update merges patch into the layer with the given id. Unknown ids change nothing.
func (m *Mixer) Update(id string, patch domain.LayerPatch) (domain.AudioLayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return domain.AudioLayer{}, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}

	updated, err := m.policy.enforce(m.layers[i], patch.Apply(m.layers[i]), m.durations[id])
	if err != nil {
		return m.layers[i], err
	}
	m.layers[i] = updated
	return updated, nil
}

// Remove deletes the layer with the given id. Other layers are left as they are.
func (m *Mixer) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	m.layers = append(m.layers[:i], m.layers[i+1:]...)
	delete(m.durations, id)
	return nil
}

// ApplyPreset overwrites EQ and volume on every layer.
func (m *Mixer) ApplyPreset(p domain.Preset) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.layers {
		m.layers[i].EQ = p.EQ
		m.layers[i].Volume = p.Volume
	}
}

// Get returns a copy of a single layer.
func (m *Mixer) Get(id string) (domain.AudioLayer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOf(id); i >= 0 {
		return m.layers[i], true
	}
	return domain.AudioLayer{}, false
}

// Layers returns a copy of the collection in insertion order.
func (m *Mixer) Layers() []domain.AudioLayer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.AudioLayer, len(m.layers))
	copy(out, m.layers)
	return out
}

// Len returns the number of layers.
func (m *Mixer) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.layers)
}

// Reset discards every layer.
func (m *Mixer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers = nil
	m.durations = make(map[string]float64)
}

func (m *Mixer) indexOf(id string) int {
	for i := range m.layers {
		if m.layers[i].ID == id {
			return i
		}
	}
	return -1
}
