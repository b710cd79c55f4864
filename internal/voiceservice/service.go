// Package voiceservice enrolls voice profiles and authenticates voice samples against them.
package voiceservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/voicepkg"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by voice service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package voiceservice
type Repo interface {
	UpsertVoiceProfile(ctx context.Context, userID int64, features []float64) (domain.VoiceProfile, error)
	GetVoiceProfile(ctx context.Context, userID int64) (domain.VoiceProfile, error)
}

// Service facilitates voice service layer logic.
type Service struct {
	repo Repo
}

// New returns voice service.
func New(vr Repo) *Service {
	return &Service{repo: vr}
}

// Enroll stores the features as the voice profile of the user, replacing any previous one.
func (s *Service) Enroll(ctx context.Context, userID int64, features []float64) (domain.VoiceProfile, error) {
	l := zerolog.Ctx(ctx)

	if _, ok := voicepkg.CosineSimilarity(features, features); !ok {
		return domain.VoiceProfile{}, domain.ErrInvalidVoiceSample
	}

	p, err := s.repo.UpsertVoiceProfile(ctx, userID, features)
	if err != nil {
		return p, err
	}

	l.Info().Int64("user_id", userID).Int("dimension", len(features)).Msg("voice enrolled")

	return p, nil
}

// Authenticate compares the features against the enrolled profile of the user.
//
// A similarity below the threshold returns the match together with
// domain.ErrVoiceMismatch, so callers can still report the score.
func (s *Service) Authenticate(ctx context.Context, userID int64, features []float64) (domain.VoiceMatch, error) {
	l := zerolog.Ctx(ctx)

	profile, err := s.repo.GetVoiceProfile(ctx, userID)
	if errors.Is(err, domain.ErrVoiceProfileNotFound) {
		l.Warn().Int64("user_id", userID).Msg("voice auth: not enrolled")
		return domain.VoiceMatch{}, domain.ErrVoiceNotEnrolled
	}

	if err != nil {
		return domain.VoiceMatch{}, err
	}

	res, err := voicepkg.Match(profile.Features, features)
	switch {
	case errors.Is(err, voicepkg.ErrNotEnrolled):
		l.Warn().Int64("user_id", userID).Msg("voice auth: empty profile")
		return domain.VoiceMatch{}, domain.ErrVoiceNotEnrolled
	case err != nil:
		l.Warn().Err(err).Int64("user_id", userID).Msg("voice auth: bad sample")
		return domain.VoiceMatch{}, fmt.Errorf("%w: %w", domain.ErrInvalidVoiceSample, err)
	}

	match := domain.VoiceMatch{Authenticated: res.IsMatch, Similarity: res.Score}

	l.Info().
		Int64("user_id", userID).
		Bool("authenticated", match.Authenticated).
		Float64("similarity", match.Similarity).
		Msg("voice auth")

	if !match.Authenticated {
		return match, fmt.Errorf("%w (similarity: %.2f)", domain.ErrVoiceMismatch, match.Similarity)
	}

	return match, nil
}
