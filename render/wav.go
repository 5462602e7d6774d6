package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV encodes left and right as a 16-bit stereo WAV stream.
func WriteWAV(w io.WriteSeeker, sampleRate int, left, right []float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("render: wav sample rate must be > 0: %d", sampleRate)
	}

	enc := wav.NewEncoder(w, sampleRate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  sampleRate,
		},
		Data:           PCM16(left, right),
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		return fmt.Errorf("render: write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("render: close wav: %w", err)
	}
	return nil
}

// ReadWAV decodes a PCM WAV stream into one mono buffer in [-1, 1].
// Multi-channel files are mixed down by averaging.
func ReadWAV(r io.ReadSeeker) (samples []float64, sampleRate int, err error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, errors.New("render: invalid wav stream")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("render: read wav: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	channels := buf.Format.NumChannels
	if bitDepth == 0 || channels <= 0 {
		return nil, 0, fmt.Errorf("render: unsupported wav format: %d bit, %d channels", bitDepth, channels)
	}

	scale := math.Pow(2, float64(bitDepth-1))
	frames := len(buf.Data) / channels
	samples = make([]float64, frames)
	for i := range samples {
		sum := 0
		for ch := range channels {
			sum += buf.Data[i*channels+ch]
		}
		samples[i] = float64(sum) / float64(channels) / scale
	}

	return samples, buf.Format.SampleRate, nil
}
