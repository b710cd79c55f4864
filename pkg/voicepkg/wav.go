package voicepkg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	// ErrUnsupportedAudio indicates audio that is not PCM WAVE.
	ErrUnsupportedAudio = errors.New("unsupported audio encoding")
	// ErrAudioTooShort indicates audio too short to analyse.
	ErrAudioTooShort = errors.New("audio sample too short")
)

const (
	waveFormatPCM = 1
	maxChannels   = 8
	readFrames    = 4_096
)

// PCM is decoded mono audio with samples in [-1, 1].
type PCM struct {
	SampleRate int
	Samples    []float64
}

// Duration returns the length of the audio.
func (p PCM) Duration() time.Duration {
	if p.SampleRate == 0 {
		return 0
	}

	return time.Duration(len(p.Samples)) * time.Second / time.Duration(p.SampleRate)
}

// ReadWAV decodes integer PCM WAVE audio and downmixes it to mono.
//
// At most maxDuration of audio is read when maxDuration is positive. Readers
// that cannot seek are buffered in memory first.
func ReadWAV(r io.Reader, maxDuration time.Duration) (PCM, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		raw, err := io.ReadAll(r)
		if err != nil {
			return PCM{}, fmt.Errorf("%w: %v", ErrUnsupportedAudio, err)
		}

		rs = bytes.NewReader(raw)
	}

	if !wav.NewDecoder(rs).IsValidFile() {
		return PCM{}, fmt.Errorf("%w: not a WAVE file", ErrUnsupportedAudio)
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return PCM{}, fmt.Errorf("%w: %v", ErrUnsupportedAudio, err)
	}

	d := wav.NewDecoder(rs)
	if err := d.FwdToPCM(); err != nil {
		return PCM{}, fmt.Errorf("%w: %v", ErrUnsupportedAudio, err)
	}

	if err := validate(d); err != nil {
		return PCM{}, err
	}

	return decode(d, maxDuration)
}

func validate(d *wav.Decoder) error {
	switch {
	case d.WavAudioFormat != waveFormatPCM:
		return fmt.Errorf("%w: audio format %d", ErrUnsupportedAudio, d.WavAudioFormat)
	case d.NumChans == 0 || d.NumChans > maxChannels:
		return fmt.Errorf("%w: %d channels", ErrUnsupportedAudio, d.NumChans)
	case d.SampleRate == 0:
		return fmt.Errorf("%w: zero sample rate", ErrUnsupportedAudio)
	case d.BitDepth != 8 && d.BitDepth != 16 && d.BitDepth != 24 && d.BitDepth != 32:
		return fmt.Errorf("%w: %d bits per sample", ErrUnsupportedAudio, d.BitDepth)
	}

	return nil
}

func decode(d *wav.Decoder, maxDuration time.Duration) (PCM, error) {
	channels := int(d.NumChans)

	maxFrames := -1
	if maxDuration > 0 {
		maxFrames = int(int64(d.SampleRate) * int64(maxDuration) / int64(time.Second))
	}

	// 8 bit WAVE is unsigned; wider depths are signed.
	offset, scale := 0.0, float64(int64(1)<<(d.BitDepth-1))
	if d.BitDepth == 8 {
		offset = 128
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: channels, SampleRate: int(d.SampleRate)},
		Data:   make([]int, readFrames*channels),
	}

	var samples []float64

	for maxFrames < 0 || len(samples) < maxFrames {
		n, err := d.PCMBuffer(buf)
		if err != nil {
			return PCM{}, fmt.Errorf("%w: %v", ErrUnsupportedAudio, err)
		}

		if n == 0 {
			break
		}

		for i := 0; i+channels <= n; i += channels {
			var sum float64
			for _, v := range buf.Data[i : i+channels] {
				sum += (float64(v) - offset) / scale
			}

			samples = append(samples, sum/float64(channels))
		}
	}

	if maxFrames >= 0 && len(samples) > maxFrames {
		samples = samples[:maxFrames]
	}

	return PCM{SampleRate: int(d.SampleRate), Samples: samples}, nil
}

// WriteWAV encodes mono 16 bit PCM samples as a WAVE stream.
//
// The header sizes are patched once all samples are written, so w must seek.
func WriteWAV(w io.WriteSeeker, samples []int16, sampleRate int) error {
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	enc := wav.NewEncoder(w, sampleRate, 16, 1, waveFormatPCM)

	err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	})
	if err != nil {
		return fmt.Errorf("encode wave: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode wave: %w", err)
	}

	return nil
}
