package domain

import (
	"errors"
	"time"
)

var (
	// ErrVoiceProfileNotFound indicates that the user has no active voice profile.
	ErrVoiceProfileNotFound = errors.New("voice profile not found")
	// ErrVoiceNotEnrolled indicates that the user never enrolled a voice sample.
	ErrVoiceNotEnrolled = errors.New("voice not enrolled")
	// ErrVoiceMismatch indicates that the similarity is below the threshold.
	ErrVoiceMismatch = errors.New("voice authentication failed")
	// ErrInvalidVoiceSample indicates a voice sample that cannot be compared.
	ErrInvalidVoiceSample = errors.New("invalid voice sample")
	// ErrAudioRequired indicates a request without an audio file.
	ErrAudioRequired = errors.New("audio file is required")
	// ErrAudioFormat indicates an audio file extension that is not accepted.
	ErrAudioFormat = errors.New("unsupported audio file format")
	// ErrAudioTooLarge indicates an audio file above the upload limit.
	ErrAudioTooLarge = errors.New("audio file is too large")
)

// VoiceProfile holds the enrolled voice features of a user.
type VoiceProfile struct {
	UserID    int64     `json:"user_id"`
	Features  []float64 `json:"features"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VoiceMatch is the outcome of comparing a sample against a voice profile.
type VoiceMatch struct {
	Authenticated bool    `json:"authenticated"`
	Similarity    float64 `json:"similarity"`
}
