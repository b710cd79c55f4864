// Package voicedelivery manages delivery layer of voice enrollment.
package voicedelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/internal/middleware"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/go-petr/voice-bank/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by voice delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package voicedelivery
type Service interface {
	Enroll(ctx context.Context, userID int64, features []float64) (domain.VoiceProfile, error)
}

// Handler facilitates voice delivery layer logic.
type Handler struct {
	service Service
	samples *SampleReader
}

// NewHandler returns voice handler.
func NewHandler(vs Service, samples *SampleReader) *Handler {
	return &Handler{
		service: vs,
		samples: samples,
	}
}

type enrollResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Enroll handles http request to register the voice profile of the caller.
func (h *Handler) Enroll(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	features, err := h.samples.Features(gctx)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(StatusCode(err), web.Error(err))

		return
	}

	payload := middleware.Payload(gctx)

	if _, err := h.service.Enroll(ctx, payload.UserID, features); err != nil {
		if errors.Is(err, domain.ErrInvalidVoiceSample) {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: enrollResponse{
		Success: true,
		Message: "voice profile enrolled",
	}})
}

// StatusCode maps the errors of SampleReader.Features to http status codes.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrAudioTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrAudioRequired),
		errors.Is(err, domain.ErrAudioFormat),
		errors.Is(err, domain.ErrInvalidVoiceSample):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
