package main

import (
	"context"
	"fmt"
	"time"

	"axiom/cmd/axiom/ui"
	"axiom/internal/auth"
	"axiom/internal/checkout"
	"axiom/internal/config"
	"axiom/internal/logging"
	"axiom/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// storeConfig maps the file config onto the ritual timings.
func storeConfig(cfg *config.Config) store.Config {
	return store.Config{
		Gate: auth.Config{
			TickInterval: cfg.GetGateTickInterval(),
			Step:         cfg.Gate.Step,
			SettleDelay:  cfg.GetGateSettleDelay(),
		},
		Checkout: checkout.Config{
			TickInterval:    cfg.GetCheckoutTickInterval(),
			Step:            cfg.Checkout.Step,
			CloseDelay:      cfg.GetCheckoutCloseDelay(),
			ManifestMessage: cfg.Checkout.ManifestMessage,
		},
		NotificationVisible: cfg.GetNotificationVisible(),
	}
}

// newStore builds the application store with the ledger and curator hooked in.
func (a *app) newStore(ctx context.Context, onAuth func(bool)) *store.Store {
	ledgerLog := logging.Get(logging.CategoryLedger)
	return store.New(a.catalog, nil, storeConfig(a.cfg), store.Hooks{
		Settled: func(m checkout.Manifest) {
			rctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			if err := a.ledger.Record(rctx, m); err != nil {
				ledgerLog.Error("failed to record manifest", zap.String("id", m.ID), zap.Error(err))
			}
		},
		AuthChanged: onAuth,
		Now:         time.Now,
	}, logging.Get(logging.CategoryStore))
}

func runInteractive(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := boot(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	c := a.newCurator(false)
	st := a.newStore(ctx, c.SetMember)

	model := ui.New(ui.Options{
		Store:         st,
		Curator:       c,
		Theme:         cfg.UI.Theme,
		FrameInterval: cfg.UI.GetFrameInterval(),
		Context:       ctx,
		Logger:        logging.Get(logging.CategoryUI),
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("storefront: %w", err)
	}
	return nil
}
