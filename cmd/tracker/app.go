package main

import (
	"context"
	"fmt"
	"strconv"

	"jobmate/job-tracker/internal/clock"
	"jobmate/job-tracker/internal/config"
	"jobmate/job-tracker/internal/db"
	"jobmate/job-tracker/internal/tracker"
)

// app is what every command runs against.
type app struct {
	cfg   *config.Config
	conns *db.Conns
	svc   *tracker.Service
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	conns, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	st, err := conns.Store(ctx, cfg)
	if err != nil {
		conns.Close()
		return nil, fmt.Errorf("store: %w", err)
	}
	catalog, err := conns.Catalog(ctx, cfg)
	if err != nil {
		conns.Close()
		return nil, fmt.Errorf("listings: %w", err)
	}
	return &app{
		cfg:   cfg,
		conns: conns,
		svc:   tracker.NewService(catalog, st, clock.System{}, conns.Publisher()),
	}, nil
}

func (a *app) Close() { a.conns.Close() }

func parseJobID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid job id %q", s)
	}
	return id, nil
}
