package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/config"
	"github.com/HtWu123/databootcamp-final-project/internal/core"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/repository"
	"github.com/HtWu123/databootcamp-final-project/internal/infrastructure/objectsource"
	"log/slog"
)

// app bundles what every subcommand builds from the configuration.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *core.DatasetStore
	cleanup func() error
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	defer cancel()

	a := &app{cfg: cfg, logger: logger, cleanup: func() error { return nil }}

	opener := objectsource.NewRouter(objectsource.Config{
		HTTPTimeout: cfg.HTTPTimeout,
		S3Region:    cfg.S3Region,
		S3Endpoint:  cfg.S3Endpoint,
		S3PathStyle: cfg.S3PathStyle,
	})

	var sqlRepo *repository.SQLRepository
	if cfg.ObservationSource == config.SourceSQL || cfg.BoroughSource == config.SourceSQL || cfg.UHF42Source == config.SourceSQL {
		repo, err := repository.NewSQLRepository(ctx, cfg.SQLDriver, cfg.SQLDSN, cfg.SQLObservationTable, cfg.SQLBoundaryTable)
		if err != nil {
			return nil, err
		}
		sqlRepo = repo
		a.cleanup = repo.Close
	}

	var observations model.ObservationSource
	switch cfg.ObservationSource {
	case config.SourceSQL:
		observations = sqlRepo
	default:
		observations = repository.NewCSVRepository(opener, cfg.DataLocation, logger)
	}

	var boroughs model.BoundarySource
	switch cfg.BoroughSource {
	case config.SourceSQL:
		boroughs = sqlRepo.Boundaries("borough", "boroughs", model.BoroughKeyField)
	case config.SourceOverpass:
		boroughs = repository.NewOverpassRepository(cfg.OverpassURL, cfg.HTTPTimeout, cfg.OverpassArea, cfg.OverpassAdminLevel, logger)
	default:
		boroughs = repository.NewGeoJSONRepository(opener, cfg.BoroughLocation, "boroughs", model.BoroughKeyField, logger)
	}

	var uhf42 model.BoundarySource
	switch cfg.UHF42Source {
	case config.SourceSQL:
		uhf42 = sqlRepo.Boundaries("uhf42", "uhf42", model.UHF42KeyField)
	default:
		uhf42 = repository.NewGeoJSONRepository(opener, cfg.UHF42Location, "uhf42", model.UHF42KeyField, logger)
	}

	store, err := loadStore(ctx, observations, boroughs, uhf42)
	if err != nil {
		return nil, errors.Join(err, a.cleanup())
	}
	a.store = store
	logger.Info("dataset loaded",
		slog.Int("observations", store.Len()),
		slog.Int("metrics", len(store.Metrics())))
	return a, nil
}

func loadStore(ctx context.Context, observations model.ObservationSource, boroughs, uhf42 model.BoundarySource) (*core.DatasetStore, error) {
	obs, err := observations.LoadObservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}
	b, err := boroughs.LoadBoundaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load borough boundaries: %w", err)
	}
	u, err := uhf42.LoadBoundaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load uhf42 boundaries: %w", err)
	}
	return core.NewDatasetStore(obs, b, u)
}

func (a *app) service(opts ...core.ServiceOption) *core.DashboardService {
	selOpts := []core.SelectorOption{core.WithColorScale(a.cfg.ColorScale)}
	if a.cfg.BoroughRange == "observed" {
		selOpts = append(selOpts, core.WithBoroughRange(model.ObservedRange()))
	}
	opts = append([]core.ServiceOption{
		core.WithSelector(core.NewSelector(selOpts...)),
		core.WithLogger(a.logger),
	}, opts...)
	return core.NewDashboardService(a.store, opts...)
}

func (a *app) Close() error {
	return a.cleanup()
}
