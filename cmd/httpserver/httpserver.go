// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/voice-bank/internal/accountdelivery"
	"github.com/go-petr/voice-bank/internal/accountservice"
	"github.com/go-petr/voice-bank/internal/ledger"
	"github.com/go-petr/voice-bank/internal/middleware"
	"github.com/go-petr/voice-bank/internal/transferdelivery"
	"github.com/go-petr/voice-bank/internal/transferservice"
	"github.com/go-petr/voice-bank/internal/userdelivery"
	"github.com/go-petr/voice-bank/internal/userservice"
	"github.com/go-petr/voice-bank/internal/voicedelivery"
	"github.com/go-petr/voice-bank/internal/voiceservice"
	"github.com/go-petr/voice-bank/pkg/configpkg"
	"github.com/go-petr/voice-bank/pkg/tokenpkg"
	"github.com/go-petr/voice-bank/pkg/voicepkg"
)

// Version is reported by the health endpoint.
var Version = "1.0.0"

// Server holds the ledger, handlers router and configuration.
type Server struct {
	Ledger ledger.Ledger
	Engine *gin.Engine
	Config configpkg.Config

	transfers *transferservice.Service
}

// Option customizes the server built by New.
type Option func(*options)

type options struct {
	publisher transferservice.Publisher
}

// WithPublisher announces completed transfers through p.
func WithPublisher(p transferservice.Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

// Wait blocks until pending transfer events are published.
func (s *Server) Wait() {
	s.transfers.Wait()
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(l ledger.Ledger, logger zerolog.Logger, config configpkg.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	tokenMaker, err := tokenpkg.NewMaker(config.TokenMaker, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	userService := userservice.New(l)
	accountService := accountservice.New(l)
	voiceService := voiceservice.New(l)
	transferService := transferservice.New(l, voiceService, o.publisher)

	samples := voicedelivery.NewSampleReader(voicepkg.NewExtractor(config.AudioMaxDuration), config.MaxUploadBytes)

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	accountHandler := accountdelivery.NewHandler(accountService)
	voiceHandler := voicedelivery.NewHandler(voiceService, samples)
	transferHandler := transferdelivery.NewHandler(transferService, samples)
	health := healthHandler{ledger: l}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.GET("/health", health.Get)
	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)
	engine.GET("/users", userHandler.List)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.DELETE("/accounts/:id", accountHandler.Delete)

	authRoutes.POST("/voice/enroll", voiceHandler.Enroll)

	authRoutes.POST("/transfers/voice/auth", transferHandler.VoiceAuth)
	authRoutes.POST("/transfers/voice", transferHandler.VoiceTransfer)
	authRoutes.POST("/transfers", transferHandler.Transfer)
	authRoutes.GET("/transactions", transferHandler.History)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("accounttype", accountdelivery.ValidAccountType)
		if err != nil {
			return nil, errors.New("cannot register account type validator")
		}
	}

	server := &Server{
		Ledger: l,
		Engine: engine,
		Config: config,

		transfers: transferService,
	}

	return server, nil
}
