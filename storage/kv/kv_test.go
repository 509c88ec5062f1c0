package kv

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/storage/kv/file"
)

func testStore(t *testing.T, store core.KVStore) {
	ctx := context.Background()
	key := "students-" + strconv.FormatInt(core.NextID(), 10)
	defer func() { _ = store.Delete(ctx, key) }()

	_, err := store.Get(ctx, key)
	assert.Equal(t, core.ErrKeyNotFound, err)

	require.NoError(t, store.Set(ctx, key, []byte(`[{"id":1}]`)))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(got))

	require.NoError(t, store.Set(ctx, key, []byte(`[]`)))
	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(got))

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key), "deleting a missing key is fine")
	_, err = store.Get(ctx, key)
	assert.Equal(t, core.ErrKeyNotFound, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run(DriverMemory, func(t *testing.T) {
		conf := core.NewTestConfig()
		store, err := Open(ctx, conf)
		require.NoError(t, err)
		defer store.Close()
		testStore(t, store)
	})

	t.Run(DriverFile, func(t *testing.T) {
		conf := core.NewTestConfig()
		conf.Storage = core.StorageConfig{Driver: DriverFile, Path: filepath.Join(t.TempDir(), "data", "portal.json")}
		store, err := Open(ctx, conf)
		require.NoError(t, err)
		defer store.Close()
		testStore(t, store)
	})

	t.Run(DriverPostgres, func(t *testing.T) {
		host := os.Getenv("TEST_POSTGRES_HOST")
		if host == "" {
			t.Skip("TEST_POSTGRES_HOST not set")
		}
		conf := core.NewTestConfig()
		conf.Storage.Driver = DriverPostgres
		conf.Postgres = core.PostgresConfig{
			Host: host, Port: 5432, DisableTLS: true,
			User:     os.Getenv("TEST_POSTGRES_USER"),
			Password: os.Getenv("TEST_POSTGRES_PASSWORD"),
			Name:     os.Getenv("TEST_POSTGRES_DB"),
		}
		store, err := Open(ctx, conf)
		require.NoError(t, err)
		defer store.Close()
		testStore(t, store)
	})

	t.Run(DriverRedis, func(t *testing.T) {
		addr := os.Getenv("TEST_REDIS_ADDR")
		if addr == "" {
			t.Skip("TEST_REDIS_ADDR not set")
		}
		conf := core.NewTestConfig()
		conf.Storage.Driver = DriverRedis
		conf.Redis = core.RedisConfig{Address: addr, KeyPrefix: "jyoti-test:"}
		store, err := Open(ctx, conf)
		require.NoError(t, err)
		defer store.Close()
		testStore(t, store)
	})

	t.Run(DriverMongo, func(t *testing.T) {
		uri := os.Getenv("TEST_MONGO_URI")
		if uri == "" {
			t.Skip("TEST_MONGO_URI not set")
		}
		conf := core.NewTestConfig()
		conf.Storage.Driver = DriverMongo
		conf.Mongo = core.MongoConfig{URI: uri, Database: "jyoti_test", Collection: "storage"}
		store, err := Open(ctx, conf)
		require.NoError(t, err)
		defer store.Close()
		testStore(t, store)
	})

	t.Run("unknown", func(t *testing.T) {
		conf := core.NewTestConfig()
		conf.Storage.Driver = "sqlite"
		_, err := Open(ctx, conf)
		assert.Error(t, err)
	})
}

func TestFileStore_persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "portal.json")

	store, err := filekv.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, core.KeyTheme, []byte(`"teal"`)))
	assert.Error(t, store.Set(ctx, core.KeyFees, []byte(`{not json`)))

	reopened, err := filekv.Open(path)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, core.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, `"teal"`, string(got))
	_, err = reopened.Get(ctx, core.KeyFees)
	assert.Equal(t, core.ErrKeyNotFound, err)

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
	_, err = filekv.Open(path)
	assert.Error(t, err)
}
