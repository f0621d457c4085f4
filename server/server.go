// Package server assembles the HTTP surface: REST routes under /api/v1,
// the websocket chat gateway, and the health endpoint.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/usehealthifier/healthifier/internal/profile"
	"github.com/usehealthifier/healthifier/plugin/ai"
	"github.com/usehealthifier/healthifier/server/auth"
	"github.com/usehealthifier/healthifier/server/chat"
	"github.com/usehealthifier/healthifier/server/gateway"
	"github.com/usehealthifier/healthifier/server/middleware"
	apiv1 "github.com/usehealthifier/healthifier/server/router/api/v1"
	"github.com/usehealthifier/healthifier/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer  *echo.Echo
	chatService *chat.Service

	// sweeperCancel stops the idle-session sweeper on shutdown.
	sweeperCancel context.CancelFunc
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.Debug = profile.IsDev()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	if !profile.IsAIEnabled() {
		return nil, errors.New("AI credential is required, set HEALTHIFIER_AI_API_KEY")
	}
	llmService, err := ai.NewLLMService(ai.NewConfigFromProfile(profile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AI service")
	}

	signer := auth.NewSigner(profile)
	registry := chat.NewRegistry(profile.SessionIdleTimeout)
	chatService := chat.NewService(llmService, store, store, registry, profile.ChatHistoryWindow)

	s := &Server{
		Profile:     profile,
		Store:       store,
		echoServer:  e,
		chatService: chatService,
	}

	e.Use(middleware.NewAuthMiddleware(signer))

	e.GET("/healthz", func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "store is unreachable").SetInternal(err)
		}
		return c.String(http.StatusOK, "Service ready.")
	})

	apiV1Service := apiv1.NewAPIV1Service(profile, store, signer, chatService, llmService)
	apiV1Service.RegisterRoutes(e)

	chatGateway := gateway.New(signer, chatService, middleware.NewRateLimiter())
	e.GET("/api/v1/gateway", chatGateway.HandleConnection)

	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	sweeperCtx, cancel := context.WithCancel(ctx)
	s.sweeperCancel = cancel
	s.chatService.StartIdleSweeper(sweeperCtx, 5*time.Minute)

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	return s.echoServer.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if s.sweeperCancel != nil {
		s.sweeperCancel()
	}

	// Reconcile every live chat session before the process exits so the
	// durable summaries are not left behind the conversation.
	for _, uid := range s.chatService.Registry().LiveUsers() {
		s.chatService.EndSession(shutdownCtx, uid)
	}

	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.String("error", err.Error()))
	}
	slog.Info("server shutdown complete")
}
