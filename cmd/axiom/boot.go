package main

import (
	"context"
	"errors"
	"fmt"

	"axiom/internal/catalog"
	"axiom/internal/config"
	"axiom/internal/curator"
	"axiom/internal/ledger"
	"axiom/internal/logging"
	"axiom/internal/usage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// app bundles the collaborators every command shares.
type app struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
	tracker *usage.Tracker
	gen     curator.Generator
	log     *zap.Logger
}

// boot loads the catalog, opens the ledger and dials the curator concurrently.
func boot(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logging.Get(logging.CategoryBoot)
	a := &app{cfg: cfg, log: log}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		a.catalog = c
		log.Info("catalog loaded", zap.Int("products", len(c.Products())), zap.Int("articles", len(c.Articles())))
		return nil
	})

	g.Go(func() error {
		l, err := ledger.Open(gctx, cfg.Ledger.DSN, logging.Get(logging.CategoryLedger))
		if err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
		a.ledger = l
		return nil
	})

	g.Go(func() error {
		t, err := usage.NewTracker(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("usage: %w", err)
		}
		a.tracker = t
		return nil
	})

	g.Go(func() error {
		if !cfg.Curator.Enabled() {
			log.Info("curator offline: no API key configured")
			return nil
		}
		gen, err := curator.NewGenAIGenerator(gctx, cfg.Curator.APIKey, cfg.Curator.Model, cfg.Curator.Temperature)
		if err != nil {
			// The concierge is optional; the storefront opens without it.
			log.Warn("curator unavailable", zap.Error(err))
			return nil
		}
		a.gen = gen
		return nil
	})

	if err := g.Wait(); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// newCurator starts a conversation for the given audience.
func (a *app) newCurator(member bool) *curator.Curator {
	c := curator.New(a.gen, curator.Options{
		Model:         a.cfg.Curator.Model,
		Timeout:       a.cfg.Curator.GetTimeout(),
		RatePerMinute: a.cfg.Curator.RatePerMinute,
		Burst:         a.cfg.Curator.Burst,
		Tracker:       a.tracker,
		Logger:        logging.Get(logging.CategoryCurator),
	})
	if member {
		c.Reset(true)
	}
	return c
}

func (a *app) close() error {
	var errs []error
	if a.tracker != nil {
		errs = append(errs, a.tracker.Save())
	}
	if a.ledger != nil {
		errs = append(errs, a.ledger.Close())
	}
	return errors.Join(errs...)
}
