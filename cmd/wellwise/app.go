package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Simplici0/wellwise/internal/config"
	"github.com/Simplici0/wellwise/internal/db"
	"github.com/Simplici0/wellwise/internal/market"
	"github.com/Simplici0/wellwise/internal/migrations"
	"github.com/Simplici0/wellwise/internal/refdata"
	"github.com/Simplici0/wellwise/internal/scenario"
)

// loadTables reads the reference tables and overlays the market snapshot.
func loadTables(ctx context.Context) (*refdata.Tables, market.Snapshot, error) {
	tables, snap, _, err := loadMarket(ctx)
	return tables, snap, err
}

// loadMarket is loadTables that also returns the market client, for callers
// that keep refreshing rates.
func loadMarket(ctx context.Context) (*refdata.Tables, market.Snapshot, *market.Client, error) {
	tables, err := refdata.LoadFile(cfg.RefData.Path)
	if err != nil {
		return nil, market.Snapshot{}, nil, eris.Wrap(err, "load reference tables")
	}

	client := market.NewClient(market.Options{
		Live:            cfg.Market.Live,
		FXURL:           cfg.Market.FXURL,
		Timeout:         cfg.Market.Timeout(),
		MinRefresh:      cfg.Market.MinRefresh(),
		DefaultOilPrice: cfg.Market.DefaultOilPrice,
	})
	snap := market.Load(ctx, client)

	zap.L().Debug("market snapshot loaded",
		zap.String("fx_source", string(snap.ExchangeRates.Source)),
		zap.String("oil_source", string(snap.OilPrice.Source)),
		zap.Float64("oil_price", snap.OilPrice.Value),
	)

	return snap.Apply(tables), snap, client, nil
}

// openStore opens the configured scenario backend. The returned func
// releases it.
func openStore(ctx context.Context) (*scenario.Store, func() error, error) {
	kv, closeFn, err := openKV(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	return scenario.NewStore(kv, scenario.WithKey(cfg.Store.Key)), closeFn, nil
}

func openKV(ctx context.Context, sc config.StoreConfig) (scenario.KV, func() error, error) {
	switch sc.Driver {
	case config.StoreSQLite:
		database, err := db.Open(sc.SQLitePath)
		if err != nil {
			return nil, nil, eris.Wrap(err, "open sqlite store")
		}
		if err := migrations.Up(database); err != nil {
			_ = database.Close()
			return nil, nil, eris.Wrap(err, "migrate sqlite store")
		}
		return scenario.NewSQLiteKV(database), database.Close, nil
	case config.StoreRedis:
		kv := scenario.NewRedisKV(sc.RedisAddr)
		if err := kv.Ping(ctx); err != nil {
			_ = kv.Close()
			return nil, nil, err
		}
		return kv, kv.Close, nil
	case config.StoreMemory:
		return scenario.NewMemoryKV(), func() error { return nil }, nil
	default:
		return nil, nil, eris.Errorf("unsupported store driver: %s", sc.Driver)
	}
}
