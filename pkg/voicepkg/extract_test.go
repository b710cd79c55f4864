package voicepkg

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 16_000

func tone(t *testing.T, freqs []float64, d time.Duration) []int16 {
	t.Helper()

	n := int(d.Seconds() * testSampleRate)
	samples := make([]int16, n)

	for i := range samples {
		var v float64
		for _, f := range freqs {
			v += math.Sin(2 * math.Pi * f * float64(i) / testSampleRate)
		}

		samples[i] = int16(v / float64(len(freqs)) * 16_000)
	}

	return samples
}

func encode(t *testing.T, samples []int16) *bytes.Reader {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.wav")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, samples, testSampleRate))
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	return bytes.NewReader(raw)
}

func TestReadWAV(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 32767, -32768}

	pcm, err := ReadWAV(encode(t, samples), 0)
	require.NoError(t, err)
	require.Equal(t, testSampleRate, pcm.SampleRate)
	require.Len(t, pcm.Samples, len(samples))
	require.InDelta(t, 0.5, pcm.Samples[1], 1e-9)
	require.InDelta(t, -0.5, pcm.Samples[2], 1e-9)
	require.InDelta(t, -1, pcm.Samples[4], 1e-9)
}

func TestReadWAVMaxDuration(t *testing.T) {
	t.Parallel()

	samples := tone(t, []float64{440}, 3*time.Second)

	pcm, err := ReadWAV(encode(t, samples), time.Second)
	require.NoError(t, err)
	require.Len(t, pcm.Samples, testSampleRate)
	require.Equal(t, time.Second, pcm.Duration())
}

func TestReadWAVStereoDownmix(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stereo.wav")

	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, testSampleRate, 16, 2, waveFormatPCM)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: testSampleRate},
		Data:           []int{16384, 0, -16384, -16384, 8192, 24576},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// A plain reader is buffered before decoding.
	pcm, err := ReadWAV(io.LimitReader(bytes.NewReader(raw), int64(len(raw))), 0)
	require.NoError(t, err)
	require.Len(t, pcm.Samples, 3)
	require.InDelta(t, 0.25, pcm.Samples[0], 1e-9)
	require.InDelta(t, -0.5, pcm.Samples[1], 1e-9)
	require.InDelta(t, 0.5, pcm.Samples[2], 1e-9)
}

func TestReadWAVUnsupported(t *testing.T) {
	t.Parallel()

	floatWAV := encode(t, tone(t, []float64{440}, 100*time.Millisecond))

	floatRaw, err := io.ReadAll(floatWAV)
	require.NoError(t, err)

	// The audio format field of the canonical 44 byte header.
	floatRaw[20] = 3

	testCases := []struct {
		name  string
		input []byte
	}{
		{name: "Empty", input: nil},
		{name: "NotRIFF", input: []byte(strings.Repeat("ID3", 10))},
		{name: "NoDataChunk", input: append([]byte("RIFF\x04\x00\x00\x00WAVE"), []byte("LIST\x00\x00\x00\x00")...)},
		{name: "FloatSamples", input: floatRaw},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadWAV(bytes.NewReader(tc.input), 0)
			require.ErrorIs(t, err, ErrUnsupportedAudio)
		})
	}
}

func TestExtractor(t *testing.T) {
	t.Parallel()

	e := NewExtractor(0)

	low := tone(t, []float64{220, 440}, time.Second)
	high := tone(t, []float64{3_000, 5_500}, time.Second)

	lowA, err := e.Extract(encode(t, low))
	require.NoError(t, err)
	require.Len(t, lowA, Dimension)

	lowB, err := e.Extract(encode(t, low))
	require.NoError(t, err)

	same, err := Match(lowA, lowB)
	require.NoError(t, err)
	require.True(t, same.IsMatch)
	require.InDelta(t, 1, same.Score, 1e-9)

	highV, err := e.Extract(encode(t, high))
	require.NoError(t, err)

	lowMeans, highMeans := lowA[:bandCount], highV[:bandCount]
	require.Greater(t, lowMeans[1], highMeans[1])
	require.Less(t, lowMeans[bandCount-2], highMeans[bandCount-2])
}

func TestExtractorTooShort(t *testing.T) {
	t.Parallel()

	_, err := NewExtractor(0).Extract(encode(t, make([]int16, frameSize-1)))
	require.ErrorIs(t, err, ErrAudioTooShort)
}

func TestBandEdges(t *testing.T) {
	t.Parallel()

	for _, rate := range []int{8_000, 16_000, 22_050, 44_100} {
		edges := bandEdges(rate)

		require.Equal(t, 1, edges[0])
		require.LessOrEqual(t, edges[bandCount], frameSize/2+1)

		for i := 1; i <= bandCount; i++ {
			require.Greater(t, edges[i], edges[i-1], "rate %d band %d", rate, i)
		}
	}
}
