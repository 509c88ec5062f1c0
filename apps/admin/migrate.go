package main

import (
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/storage/kv"
	pgkv "github.com/Aastha-hs1d/JyotiPortal/storage/kv/postgres"
)

var errNotPostgres = errors.New("migrations only apply to the postgres storage driver")

var migrateFunc = runMigrations // mockable

func runMigrations(conf core.PostgresConfig, command string, args ...string) error {
	if err := pgkv.CreateIfNotExist(conf); err != nil {
		return err
	}
	db, err := pgkv.OpenDB(conf)
	if err != nil {
		return err
	}
	defer db.Close()
	return pgkv.RunMigrations(db, command, args...)
}

func (cli *commandLine) migrate(args []string) error {
	if cli.conf.Storage.Driver != kv.DriverPostgres {
		return errNotPostgres
	}
	return migrateFunc(cli.conf.Postgres, args[0], args[1:]...)
}
