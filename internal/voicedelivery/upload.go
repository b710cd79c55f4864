package voicedelivery

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/voicepkg"
)

// AudioField is the multipart field holding the voice sample.
const AudioField = "audio"

// multipartOverhead leaves room for the other form fields of the request.
const multipartOverhead = 1 << 20

// AllowedExtensions lists the accepted audio file extensions.
var AllowedExtensions = []string{"wav", "mp3", "m4a", "aac"}

// FeatureExtractor turns an audio stream into a feature vector.
//
//go:generate mockgen -source upload.go -destination upload_mock.go -package voicedelivery
type FeatureExtractor interface {
	Extract(r io.Reader) (voicepkg.FeatureVector, error)
}

// SampleReader reads the uploaded voice sample of a request.
type SampleReader struct {
	extractor FeatureExtractor
	maxBytes  int64
}

// NewSampleReader returns a SampleReader accepting files up to maxBytes.
func NewSampleReader(e FeatureExtractor, maxBytes int64) *SampleReader {
	return &SampleReader{
		extractor: e,
		maxBytes:  maxBytes,
	}
}

// Features returns the feature vector of the uploaded audio file.
//
// The multipart form is parsed as a side effect, so the other form values of the
// request are available afterwards.
func (s *SampleReader) Features(gctx *gin.Context) ([]float64, error) {
	gctx.Request.Body = http.MaxBytesReader(gctx.Writer, gctx.Request.Body, s.maxBytes+multipartOverhead)

	header, err := gctx.FormFile(AudioField)
	if err != nil {
		var tooLarge *http.MaxBytesError

		switch {
		case errors.As(err, &tooLarge):
			return nil, domain.ErrAudioTooLarge
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, domain.ErrAudioRequired
		}

		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidVoiceSample, err)
	}

	if header.Size > s.maxBytes {
		return nil, domain.ErrAudioTooLarge
	}

	if !allowedFile(header.Filename) {
		return nil, domain.ErrAudioFormat
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	features, err := s.extractor.Extract(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidVoiceSample, err)
	}

	return features, nil
}

func allowedFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}

	return false
}
