package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/voice-bank/internal/domain"
	"github.com/go-petr/voice-bank/internal/ledger"
	"github.com/go-petr/voice-bank/pkg/errorspkg"
	"github.com/go-petr/voice-bank/pkg/web"
)

type healthHandler struct {
	ledger ledger.Ledger
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	domain.LedgerStats
}

// Get reports liveness together with ledger entity counts.
func (h healthHandler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	stats, err := h.ledger.Stats(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		gctx.JSON(http.StatusServiceUnavailable, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Version:     Version,
		LedgerStats: stats,
	})
}
