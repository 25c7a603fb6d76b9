package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// DecodeMono decodes an MP3 stream to 16-bit mono PCM. The decoder always
// yields interleaved stereo, so channels are averaged down to one.
func DecodeMono(r io.Reader) ([]int16, int, error) {
	decoder, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode mp3: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read mp3 samples: %w", err)
	}

	pcm := make([]int16, 0, len(raw)/4)
	for i := 0; i+3 < len(raw); i += 4 {
		left := int16(uint16(raw[i]) | uint16(raw[i+1])<<8)
		right := int16(uint16(raw[i+2]) | uint16(raw[i+3])<<8)
		pcm = append(pcm, int16((int32(left)+int32(right))/2))
	}
	return pcm, decoder.SampleRate(), nil
}
