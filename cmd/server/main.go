package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/corebank/ledger/cmd/httpserver"
	"github.com/corebank/ledger/internal/middleware"
	"github.com/corebank/ledger/pkg/configpkg"
	"github.com/corebank/ledger/pkg/dbpkg"
	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}

	server, err := httpserver.New(conn, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Str("address", config.ServerAddress).Msg("starting server")

	if err := http.ListenAndServe(config.ServerAddress, server); err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
