package kv

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/storage/kv/file"
	"github.com/Aastha-hs1d/JyotiPortal/storage/kv/memory"
	"github.com/Aastha-hs1d/JyotiPortal/storage/kv/mongo"
	"github.com/Aastha-hs1d/JyotiPortal/storage/kv/postgres"
	"github.com/Aastha-hs1d/JyotiPortal/storage/kv/redis"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// Open opens the KV store selected by conf.Storage.Driver.
func Open(ctx context.Context, conf *core.Config) (core.KVStore, error) {
	var (
		store core.KVStore
		err   error
	)
	switch conf.Storage.Driver {
	case DriverMemory:
		store = memkv.Open()
	case DriverFile, "":
		var s *filekv.Store
		if s, err = filekv.Open(conf.Storage.Path); err == nil {
			store = s
		}
	case DriverPostgres:
		var s *pgkv.Store
		if s, err = pgkv.Open(conf.Postgres); err == nil {
			store = s
		}
	case DriverRedis:
		var s *rediskv.Store
		if s, err = rediskv.Open(ctx, conf.Redis); err == nil {
			store = s
		}
	case DriverMongo:
		var s *mongokv.Store
		if s, err = mongokv.Open(ctx, conf.Mongo); err == nil {
			store = s
		}
	default:
		return nil, errors.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s storage", conf.Storage.Driver)
	}
	return store, nil
}
