package voicepkg

import (
	"io"
	"math"
	"math/cmplx"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/stat"
)

// DefaultMaxDuration caps the amount of audio analysed per sample.
const DefaultMaxDuration = 5 * time.Second

const (
	bandCount  = 13
	frameSize  = 512
	hopSize    = 256
	logEpsilon = 1e-10
)

// Dimension is the length of the vectors produced by Extractor.
const Dimension = 2 * bandCount

// Extractor turns WAVE audio into feature vectors.
//
// The vector holds the mean and the standard deviation of mel-spaced log band
// energies over all analysis frames.
type Extractor struct {
	maxDuration time.Duration
}

// NewExtractor returns an Extractor analysing at most maxDuration of audio.
// A non-positive maxDuration selects DefaultMaxDuration.
func NewExtractor(maxDuration time.Duration) *Extractor {
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}

	return &Extractor{maxDuration: maxDuration}
}

// Extract decodes the audio and returns its feature vector.
func (e *Extractor) Extract(r io.Reader) (FeatureVector, error) {
	pcm, err := ReadWAV(r, e.maxDuration)
	if err != nil {
		return nil, err
	}

	return Features(pcm)
}

// Features computes the feature vector of decoded audio.
func Features(pcm PCM) (FeatureVector, error) {
	if len(pcm.Samples) < frameSize {
		return nil, ErrAudioTooShort
	}

	edges := bandEdges(pcm.SampleRate)
	fft := fourier.NewFFT(frameSize)
	frame := make([]float64, frameSize)
	spectrum := make([]complex128, frameSize/2+1)

	var bands [bandCount][]float64

	for start := 0; start+frameSize <= len(pcm.Samples); start += hopSize {
		copy(frame, pcm.Samples[start:start+frameSize])
		spectrum = fft.Coefficients(spectrum, window.Hann(frame))

		for b := 0; b < bandCount; b++ {
			var e float64
			for k := edges[b]; k < edges[b+1]; k++ {
				m := cmplx.Abs(spectrum[k])
				e += m * m
			}

			bands[b] = append(bands[b], math.Log(e+logEpsilon))
		}
	}

	v := make(FeatureVector, Dimension)

	for b, energies := range bands {
		v[b], v[bandCount+b] = stat.PopMeanStdDev(energies, nil)
	}

	return v, nil
}

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// bandEdges returns bandCount+1 FFT bin boundaries spaced evenly on the mel scale.
// Every band covers at least one bin.
func bandEdges(sampleRate int) [bandCount + 1]int {
	var edges [bandCount + 1]int

	bins := frameSize / 2
	maxMel := hzToMel(float64(sampleRate) / 2)

	edges[0] = 1

	for i := 1; i <= bandCount; i++ {
		hz := melToHz(maxMel * float64(i) / bandCount)
		k := int(math.Round(hz * frameSize / float64(sampleRate)))

		if k <= edges[i-1] {
			k = edges[i-1] + 1
		}

		edges[i] = k
	}

	// Pushed-up low bands may overflow the spectrum; fold the excess back.
	for i := bandCount; i >= 1; i-- {
		limit := bins + 1 - (bandCount - i)
		if edges[i] > limit {
			edges[i] = limit
		}
	}

	return edges
}
