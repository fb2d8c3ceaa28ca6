package main

import (
	"github.com/trezcool/goose"

	appfs "github.com/trezcool/darasa/fs"
	"github.com/trezcool/darasa/storage/database"
)

var gooseRunFunc = goose.RunFS // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db.DB, appfs.FS, "migrations", arguments...)
}

func (cli *commandLine) initDB() error {
	if err := database.CreateIfNotExist(cli.conf); err != nil {
		return err
	}
	return database.Migrate(cli.db.DB)
}
