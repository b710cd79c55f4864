// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

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

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, userID int64, accountType domain.AccountType, balance int64) (domain.MaskedAccount, error)
	List(ctx context.Context, userID int64) ([]domain.MaskedAccount, error)
	Deactivate(ctx context.Context, userID, accountID int64) error
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type accountData struct {
	Account domain.MaskedAccount `json:"account"`
}

type accountsData struct {
	Accounts []domain.MaskedAccount `json:"accounts"`
}

type createRequest struct {
	AccountType    string `json:"account_type" binding:"required,accounttype"`
	InitialBalance int64  `json:"initial_balance" binding:"min=0"`
}

// Create handles http request to create account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	payload := middleware.Payload(gctx)

	account, err := h.service.Create(ctx, payload.UserID, domain.AccountType(req.AccountType), req.InitialBalance)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case errors.Is(err, domain.ErrInvalidAccountType), errors.Is(err, domain.ErrNegativeBalance):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: accountData{Account: account}})
}

// List handles http request to list the accounts of the caller.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	payload := middleware.Payload(gctx)

	accounts, err := h.service.List(ctx, payload.UserID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountsData{Accounts: accounts}})
}

type deleteRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Delete handles http request to close an account of the caller.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req deleteRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	payload := middleware.Payload(gctx)

	if err := h.service.Deactivate(ctx, payload.UserID, req.ID); err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case errors.Is(err, domain.ErrAccountOwnerMismatch):
			l.Warn().Err(err).Int64("account_id", req.ID).Send()
			gctx.JSON(http.StatusForbidden, web.Error(err))

			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.Status(http.StatusNoContent)
}
