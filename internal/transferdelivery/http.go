// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/internal/middleware"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/go-petr/voice-bank/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	VoiceTransfer(ctx context.Context, p domain.VoiceTransferParams) (domain.TransferResult, error)
	Transfer(ctx context.Context, p domain.TransferParams) (domain.TransferResult, error)
	AuthenticateAndExtract(ctx context.Context, userID int64, features []float64, transcript string) (domain.VoiceAuthResult, error)
	History(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
}

// SampleReader reads the voice sample uploaded with a request.
type SampleReader interface {
	Features(gctx *gin.Context) ([]float64, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
	samples SampleReader
}

// NewHandler returns transfer handler.
func NewHandler(ts Service, samples SampleReader) *Handler {
	return &Handler{
		service: ts,
		samples: samples,
	}
}

type transferResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID int64  `json:"transaction_id,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
	Fee           int64  `json:"fee,omitempty"`
}

type voiceRequest struct {
	Text        string `form:"text"`
	FromAccount string `form:"from_account"`
	Memo        string `form:"memo" binding:"max=200"`
}

// VoiceAuth handles http request to authenticate a voice sample and read the
// transfer instruction without moving money.
func (h *Handler) VoiceAuth(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	features, ok := h.features(gctx)
	if !ok {
		return
	}

	payload := middleware.Payload(gctx)

	result, err := h.service.AuthenticateAndExtract(ctx, payload.UserID, features, gctx.PostForm("text"))
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(statusCode(err), web.Error(publicError(err)))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: result})
}

// VoiceTransfer handles http request to transfer money as instructed by the transcript.
func (h *Handler) VoiceTransfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	features, ok := h.features(gctx)
	if !ok {
		return
	}

	var req voiceRequest
	if err := gctx.ShouldBind(&req); err != nil {
		l.Info().Err(err).Send()
		failed(gctx, http.StatusBadRequest, bindError(err))

		return
	}

	payload := middleware.Payload(gctx)

	result, err := h.service.VoiceTransfer(ctx, domain.VoiceTransferParams{
		UserID:      payload.UserID,
		Features:    features,
		Transcript:  req.Text,
		FromAccount: req.FromAccount,
		Memo:        req.Memo,
	})
	if err != nil {
		l.Info().Err(err).Send()
		failed(gctx, statusCode(err), publicError(err))

		return
	}

	succeeded(gctx, result)
}

type transferRequest struct {
	RecipientName string `form:"recipient_name" binding:"required"`
	Amount        int64  `form:"amount" binding:"required,gt=0"`
	FromAccount   string `form:"from_account"`
	Memo          string `form:"memo" binding:"max=200"`
}

// Transfer handles http request to transfer an explicit amount to a named recipient.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	features, ok := h.features(gctx)
	if !ok {
		return
	}

	var req transferRequest
	if err := gctx.ShouldBind(&req); err != nil {
		l.Info().Err(err).Send()
		failed(gctx, http.StatusBadRequest, bindError(err))

		return
	}

	payload := middleware.Payload(gctx)

	result, err := h.service.Transfer(ctx, domain.TransferParams{
		UserID:        payload.UserID,
		Features:      features,
		RecipientName: req.RecipientName,
		Amount:        req.Amount,
		FromAccount:   req.FromAccount,
		Memo:          req.Memo,
	})
	if err != nil {
		l.Info().Err(err).Send()
		failed(gctx, statusCode(err), publicError(err))

		return
	}

	succeeded(gctx, result)
}

type historyRequest struct {
	Limit int `form:"limit" binding:"min=0,max=100"`
}

type historyData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// History handles http request to list the transactions of the caller.
func (h *Handler) History(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req historyRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(bindError(err)))

		return
	}

	payload := middleware.Payload(gctx)

	txs, err := h.service.History(ctx, payload.UserID, req.Limit)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: historyData{Transactions: txs}})
}

func (h *Handler) features(gctx *gin.Context) ([]float64, bool) {
	features, err := h.samples.Features(gctx)
	if err != nil {
		zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
		failed(gctx, statusCode(err), publicError(err))

		return nil, false
	}

	return features, true
}

func succeeded(gctx *gin.Context, result domain.TransferResult) {
	gctx.JSON(http.StatusOK, web.Response{Data: transferResponse{
		Success:       true,
		Message:       result.Message,
		TransactionID: result.TransactionID,
		Amount:        result.Amount,
		Fee:           result.Fee,
	}})
}

func failed(gctx *gin.Context, status int, err error) {
	gctx.JSON(status, web.Response{
		Error: err.Error(),
		Data:  transferResponse{Message: err.Error()},
	})
}

func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return errors.New(web.GetErrorMsg(ve))
	}

	return err
}

// statusCode maps the transfer failure taxonomy to http status codes.
func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrAudioTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrAudioRequired),
		errors.Is(err, domain.ErrAudioFormat),
		errors.Is(err, domain.ErrInvalidVoiceSample),
		errors.Is(err, domain.ErrEmptyTranscript),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidRecipient),
		errors.Is(err, domain.ErrUnparsableInstruction),
		errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrVoiceNotEnrolled),
		errors.Is(err, domain.ErrVoiceMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrRecipientNotFound),
		errors.Is(err, domain.ErrSenderAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountOwnerMismatch):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// publicError hides the details of server side failures.
func publicError(err error) error {
	if statusCode(err) != http.StatusInternalServerError {
		return err
	}

	if errors.Is(err, domain.ErrCommitFailed) {
		return domain.ErrCommitFailed
	}

	return errorspkg.ErrInternal
}
