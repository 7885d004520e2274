package main

import (
	"log"
	"os"

	"github.com/mawere/uniport/core"
	"github.com/mawere/uniport/core/account"
	"github.com/mawere/uniport/core/catalog"
	"github.com/mawere/uniport/core/session"
	backendsvc "github.com/mawere/uniport/services/backend"
	logsvc "github.com/mawere/uniport/services/logger"
	sessionstore "github.com/mawere/uniport/storage/session"
)

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()

	std := log.New(os.Stdout, "PORTAL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!(conf.Debug || conf.TestMode))

	store := sessionstore.NewFileStore(conf.Session.File)
	api := backendsvc.NewClient(conf, store, logger)

	cli := commandLine{
		conf:     conf,
		out:      os.Stdout,
		store:    store,
		api:      api,
		accounts: account.NewService(api, store, logger),
		catalog:  catalog.WithFallback(api, logger),
		guard:    session.NewGuard(store, api, logger),
		log:      logger,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(err.Error(), err)
		}
		os.Exit(1)
	}
}
