// Package audio turns speech previews into playable WAV data and plays
// previews through ffplay, one at a time.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const bitsPerSample = 16

var ErrInvalidPCM = errors.New("invalid PCM data")

// PCMToWAV wraps 16-bit little-endian PCM samples in a RIFF/WAVE header.
func PCMToWAV(pcm []byte, sampleRate, channels int) ([]byte, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d, channels %d", ErrInvalidPCM, sampleRate, channels)
	}
	blockAlign := channels * bitsPerSample / 8
	if len(pcm)%blockAlign != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of frames", ErrInvalidPCM, len(pcm))
	}

	out := make([]byte, 44+len(pcm))
	copy(out[0:], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+len(pcm)))
	copy(out[8:], "WAVE")

	copy(out[12:], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(out[20:], 1)  // PCM format
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], bitsPerSample)

	copy(out[36:], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(len(pcm)))
	copy(out[44:], pcm)
	return out, nil
}
