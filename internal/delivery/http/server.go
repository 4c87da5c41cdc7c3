// Package http wires the echo server, its middleware chain and the router
// into a Delivery started by main.
package http

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"github.com/dabinj96/Peaberry-sub000/config"
	"github.com/dabinj96/Peaberry-sub000/internal/delivery"
	deliverymw "github.com/dabinj96/Peaberry-sub000/internal/delivery/http/middleware"
	"github.com/dabinj96/Peaberry-sub000/internal/delivery/http/router"
	"github.com/dabinj96/Peaberry-sub000/internal/delivery/http/validator"
	"github.com/dabinj96/Peaberry-sub000/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type HTTPParams struct {
	fx.In
	fx.Lifecycle

	Config       *config.Config
	Logger       *slog.Logger
	RouterParams router.RouterParams

	RequestID *deliverymw.RequestIDMiddleware
	ReqLogger *deliverymw.LoggerMiddleware
	RateLimit *deliverymw.RateLimitMiddleware
	ErrorMW   *deliverymw.ErrorMiddleware
}

type httpServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

func NewServer(params HTTPParams) (delivery.Delivery, error) {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.Validator = validator.New()
	echoServer.HTTPErrorHandler = params.ErrorMW.HandleHTTPError

	echoServer.Use(params.RequestID.Process)
	echoServer.Use(params.ReqLogger.Handle)
	echoServer.Use(params.RateLimit.Handle)
	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.CORS())
	if params.Config.HTTP.MaxRequestBodySize != "" {
		echoServer.Use(echomw.BodyLimit(params.Config.HTTP.MaxRequestBodySize))
	}

	timeouts := params.Config.HTTP.Timeouts
	echoServer.Server.ReadTimeout = timeouts.ReadTimeout
	echoServer.Server.ReadHeaderTimeout = timeouts.ReadHeaderTimeout
	echoServer.Server.WriteTimeout = timeouts.WriteTimeout
	echoServer.Server.IdleTimeout = timeouts.IdleTimeout

	router := router.NewRouter(params.RouterParams)
	router.RegisterRoutes(echoServer)

	delivery := &httpServer{
		cfg:    params.Config,
		logger: params.Logger,
		server: echoServer,
	}

	params.Append(fx.Hook{
		OnStop: delivery.stop,
	})

	return delivery, nil
}

func (s *httpServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting HTTP server", slog.String("hostPort", hostPort))
	if err := s.server.Start(hostPort); err != nil {
		return errors.Wrap(err, "failed to serve http")
	}

	return nil
}

func (s *httpServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
