package pgsledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/pkg/dbpkg"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

const voiceProfileColumns = `user_id, features, is_active, created_at, updated_at`

func scanVoiceProfile(row scanner) (domain.VoiceProfile, error) {
	var (
		p        domain.VoiceProfile
		features pq.Float64Array
	)

	err := row.Scan(
		&p.UserID,
		&features,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	p.Features = []float64(features)

	return p, err
}

const upsertVoiceProfileQuery = `
INSERT INTO voice_profiles (user_id, features)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE
SET features = EXCLUDED.features, is_active = true, updated_at = now()
RETURNING ` + voiceProfileColumns

// UpsertVoiceProfile creates or replaces the voice profile of the user.
func (r *Ledger) UpsertVoiceProfile(ctx context.Context, userID int64, features []float64) (domain.VoiceProfile, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, upsertVoiceProfileQuery, userID, pq.Float64Array(features))

	p, err := scanVoiceProfile(row)
	if err != nil {
		if dbpkg.ConstraintName(err) == "voice_profiles_user_id_fkey" {
			return p, domain.ErrUserNotFound
		}

		l.Error().Err(err).Send()

		return p, errorspkg.ErrInternal
	}

	return p, nil
}

const getVoiceProfileQuery = `
SELECT ` + voiceProfileColumns + `
FROM voice_profiles
WHERE user_id = $1 AND is_active
`

// GetVoiceProfile returns the active voice profile of the user.
func (r *Ledger) GetVoiceProfile(ctx context.Context, userID int64) (domain.VoiceProfile, error) {
	l := zerolog.Ctx(ctx)

	p, err := scanVoiceProfile(r.db.QueryRowContext(ctx, getVoiceProfileQuery, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, domain.ErrVoiceProfileNotFound
		}

		l.Error().Err(err).Send()

		return p, errorspkg.ErrInternal
	}

	return p, nil
}
