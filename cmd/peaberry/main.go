package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dabinj96/Peaberry-sub000/config"
	"github.com/dabinj96/Peaberry-sub000/internal/delivery"
	deliveryhttp "github.com/dabinj96/Peaberry-sub000/internal/delivery/http"
	"github.com/dabinj96/Peaberry-sub000/internal/delivery/http/middleware"
	"github.com/dabinj96/Peaberry-sub000/internal/delivery/http/router/handler"
	"github.com/dabinj96/Peaberry-sub000/internal/infra/auth"
	"github.com/dabinj96/Peaberry-sub000/internal/infra/identity"
	logs "github.com/dabinj96/Peaberry-sub000/internal/infra/log"
	"github.com/dabinj96/Peaberry-sub000/internal/infra/mail"
	"github.com/dabinj96/Peaberry-sub000/internal/infra/persistence/postgres"
	"github.com/dabinj96/Peaberry-sub000/internal/infra/places"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewAccountRepository,
			postgres.NewCafeRepository,
			postgres.NewRatingRepository,
			postgres.NewFavoriteRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewResetTokenRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			identity.NewFirebaseIdentity,
			mail.NewSMTPSender,
			places.NewGooglePlaces,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
			impl.NewCafeService,
			impl.NewRatingService,
			impl.NewFavoriteService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewRequestIDMiddleware,
			middleware.NewLoggerMiddleware,
			middleware.NewRateLimitMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewCafeHandler,
			handler.NewRatingHandler,
			handler.NewFavoriteHandler,
			handler.NewAdminHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				deliveryhttp.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
