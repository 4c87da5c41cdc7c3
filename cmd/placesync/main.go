// Command placesync runs one bulk listing import for an area and exits.
// It shares the HTTP server's wiring so imports behave identically whether
// triggered from the back office or from a cron job.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/dabinj96/Peaberry-sub000/config"
	logs "github.com/dabinj96/Peaberry-sub000/internal/infra/log"
	"github.com/dabinj96/Peaberry-sub000/internal/infra/persistence/postgres"
	"github.com/dabinj96/Peaberry-sub000/internal/infra/places"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase"
	"github.com/dabinj96/Peaberry-sub000/internal/usecase/impl"

	"go.uber.org/fx"
)

type runImportParams struct {
	fx.In
	fx.Shutdowner

	Logger *slog.Logger
	Cafes  usecase.CafeUsecase
}

func main() {
	area := flag.String("area", "", "area label to import cafes for")
	flag.Parse()

	if *area == "" {
		slog.Error("missing required -area flag")
		os.Exit(2)
	}

	fx.New(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
			postgres.NewCafeRepository,
			postgres.NewRatingRepository,
			postgres.NewFavoriteRepository,
			postgres.NewTransactionManager,
			places.NewGooglePlaces,
			impl.NewCafeService,
		),
		fx.Invoke(func(ctx context.Context, params runImportParams) {
			go runImport(ctx, params, *area)
		}),
	).Run()
}

func runImport(ctx context.Context, params runImportParams, area string) {
	output, err := params.Cafes.ImportCafes(ctx, usecase.ImportCafesInput{Area: area})
	if err != nil {
		params.Logger.Error("Import failed", slog.String("area", area), slog.Any("error", err))
	} else {
		params.Logger.Info("Import finished",
			slog.String("area", area),
			slog.Int("imported", output.Imported),
			slog.Int("skipped", output.Skipped),
		)
	}

	if err := params.Shutdown(); err != nil {
		params.Logger.Error("Failed to shutdown", slog.Any("error", err))
		os.Exit(1)
	}
}
