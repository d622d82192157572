package mixer

import (
	"errors"
	"testing"

	"github.com/jaki95/video-factory/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outOfRangePatch() domain.LayerPatch {
	return domain.LayerPatch{
		ClipStart:      ptr(-5.0),
		TimelineOffset: ptr(-1.0),
		Volume:         ptr(1.7),
		EQ:             &domain.EQPatch{Bass: ptr(-40), Treble: ptr(22)},
	}
}

func TestPermissivePolicyStoresValuesAsGiven(t *testing.T) {
	m := New(PolicyPermissive)
	layer := m.Add(source("m1", "A"))

	updated, err := m.Update(layer.ID, outOfRangePatch())
	require.NoError(t, err)
	assert.Equal(t, -5.0, updated.ClipStart)
	assert.Equal(t, -1.0, updated.TimelineOffset)
	assert.Equal(t, 1.7, updated.Volume)
	assert.Equal(t, -40, updated.EQ.Bass)
	assert.Equal(t, 22, updated.EQ.Treble)
}

func TestClampPolicyForcesRanges(t *testing.T) {
	m := New(PolicyClamp)
	layer := m.Add(source("m1", "A"))

	updated, err := m.Update(layer.ID, outOfRangePatch())
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.ClipStart)
	assert.Equal(t, 0.0, updated.TimelineOffset)
	assert.Equal(t, 1.0, updated.Volume)
	assert.Equal(t, -15, updated.EQ.Bass)
	assert.Equal(t, 15, updated.EQ.Treble)
	assert.Equal(t, 0, updated.EQ.Mid)
}

func TestClampPolicyUsesSourceDuration(t *testing.T) {
	m := New(PolicyClamp)
	layer := m.Add(domain.LayerSource{TrackID: "m2", Name: "Midnight Piano", Duration: 180})

	updated, err := m.Update(layer.ID, domain.LayerPatch{ClipEnd: ptr(500.0)})
	require.NoError(t, err)
	assert.Equal(t, 180.0, updated.ClipEnd)

	updated, err = m.Update(layer.ID, domain.LayerPatch{ClipStart: ptr(100.0), ClipEnd: ptr(50.0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.ClipStart)
	assert.Equal(t, 180.0, updated.ClipEnd)
}

func TestClampPolicyNeverEmptiesClipWindow(t *testing.T) {
	tests := []struct {
		name  string
		patch domain.LayerPatch
	}{
		{"start past source end", domain.LayerPatch{ClipStart: ptr(300.0)}},
		{"end before start", domain.LayerPatch{ClipStart: ptr(10.0), ClipEnd: ptr(5.0)}},
		{"start equals end", domain.LayerPatch{ClipStart: ptr(30.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(PolicyClamp)
			layer := m.Add(domain.LayerSource{TrackID: "m4", Name: "Desert Breeze", Duration: 240})

			updated, err := m.Update(layer.ID, tt.patch)
			require.NoError(t, err)
			if updated.ClipEnd <= updated.ClipStart {
				t.Errorf("clip window is empty: start=%.2f end=%.2f", updated.ClipStart, updated.ClipEnd)
			}
			assert.Equal(t, layer.ClipStart, updated.ClipStart)
			assert.Equal(t, layer.ClipEnd, updated.ClipEnd)
		})
	}
}

func TestStrictPolicyAcceptsEditsOnShortSource(t *testing.T) {
	m := New(PolicyStrict)
	layer := m.Add(domain.LayerSource{TrackID: "sfx", Name: "Door Knock", Duration: 20})
	assert.Equal(t, 20.0, layer.ClipEnd)

	updated, err := m.Update(layer.ID, domain.LayerPatch{Volume: ptr(0.4)})
	require.NoError(t, err)
	assert.Equal(t, 0.4, updated.Volume)
	assert.Equal(t, 20.0, updated.ClipEnd)
}

func TestStrictPolicyRejectsAndKeepsLayer(t *testing.T) {
	tests := []struct {
		name  string
		patch domain.LayerPatch
	}{
		{"negative clip start", domain.LayerPatch{ClipStart: ptr(-1.0)}},
		{"clip end before start", domain.LayerPatch{ClipStart: ptr(20.0), ClipEnd: ptr(10.0)}},
		{"empty clip window", domain.LayerPatch{ClipEnd: ptr(0.0)}},
		{"clip past source end", domain.LayerPatch{ClipEnd: ptr(300.0)}},
		{"negative offset", domain.LayerPatch{TimelineOffset: ptr(-3.0)}},
		{"volume above one", domain.LayerPatch{Volume: ptr(1.01)}},
		{"mid gain below range", domain.LayerPatch{EQ: &domain.EQPatch{Mid: ptr(-16)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(PolicyStrict)
			layer := m.Add(domain.LayerSource{TrackID: "m4", Name: "Desert Breeze", Duration: 240})

			_, err := m.Update(layer.ID, tt.patch)
			assert.True(t, errors.Is(err, ErrInvalidLayer), "got %v", err)

			got, ok := m.Get(layer.ID)
			require.True(t, ok)
			assert.Equal(t, layer, got)
		})
	}
}

func TestStrictPolicyAcceptsValidEdit(t *testing.T) {
	m := New(PolicyStrict)
	layer := m.Add(source("m1", "A"))

	updated, err := m.Update(layer.ID, domain.LayerPatch{Volume: ptr(1.0), EQ: &domain.EQPatch{Bass: ptr(-15)}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.Volume)
	assert.Equal(t, -15, updated.EQ.Bass)
}

func TestParseValidationPolicy(t *testing.T) {
	p, err := ParseValidationPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyPermissive, p)

	p, err = ParseValidationPolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParseValidationPolicy("lenient")
	assert.True(t, errors.Is(err, ErrUnknownValidation))
}
