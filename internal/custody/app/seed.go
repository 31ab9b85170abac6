package app

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/custody/internal/custody/service"
	"github.com/aussiebroadwan/custody/pkg/cryptox"
	"github.com/aussiebroadwan/custody/pkg/slogx"
)

// LoadRosterOrDefault reads the roster at path, or returns the built-in
// roster when path is empty.
func LoadRosterOrDefault(path string) (service.Roster, error) {
	if path == "" {
		return service.DefaultRoster(), nil
	}
	roster, err := service.LoadRoster(path)
	if err != nil {
		return service.Roster{}, fmt.Errorf("load roster: %w", err)
	}
	return roster, nil
}

// Seed opens the configured store, replaces its contents with roster and
// closes it again. The service must not be running against the same file.
func Seed(ctx context.Context, cfg Config, roster service.Roster) (service.SeedSummary, error) {
	logger := NewLogger(cfg)
	ctx = slogx.WithContext(ctx, logger)

	cryptox.SetPepperPath(cfg.PepperFile)

	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return service.SeedSummary{}, fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing store", "error", err)
		}
	}()

	prov := &service.ProvisionService{Store: db}
	return prov.Seed(ctx, roster)
}
