// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/corebank/ledger/internal/accountdelivery"
	"github.com/corebank/ledger/internal/accountservice"
	"github.com/corebank/ledger/internal/accountstore"
	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/entrydelivery"
	"github.com/corebank/ledger/internal/entryservice"
	"github.com/corebank/ledger/internal/middleware"
	"github.com/corebank/ledger/internal/pgstore"
	"github.com/corebank/ledger/internal/transferdelivery"
	"github.com/corebank/ledger/internal/transferservice"
	"github.com/corebank/ledger/pkg/configpkg"
	"github.com/corebank/ledger/pkg/currencypkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server backed by PostgreSQL.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	server, err := NewWithStore(pgstore.New(conn), logger, config)
	if err != nil {
		return nil, err
	}

	server.DB = conn

	return server, nil
}

// NewWithStore creates Server with instantiated domains and routes on top
// of any account store implementation.
func NewWithStore(store accountstore.Store, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountService := accountservice.New(store)
	transferService := transferservice.New(store)
	entryService := entryservice.New(store)

	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService)
	entryHandler := entrydelivery.NewHandler(entryService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	userRoutes := engine.Group("/").Use(middleware.RequireUser())

	userRoutes.POST("/accounts", accountHandler.Create)
	userRoutes.GET("/accounts/:id", accountHandler.Get)
	userRoutes.GET("/accounts", accountHandler.List)
	userRoutes.POST("/accounts/:id/deposits", accountHandler.Deposit)
	userRoutes.GET("/accounts/:id/entries", entryHandler.ListForAccount)
	userRoutes.GET("/entries", entryHandler.ListForUser)

	userRoutes.POST("/transfers", middleware.Timeout(config.TransferTimeout), transferHandler.Create)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("currency", currencypkg.ValidCurrency); err != nil {
			return nil, errors.New("cannot register currency validator")
		}

		if err := v.RegisterValidation("accounttype", validAccountType); err != nil {
			return nil, errors.New("cannot register account type validator")
		}
	}

	server := &Server{
		Engine: engine,
		Config: config,
	}

	return server, nil
}

// validAccountType validates whether the account type is supported.
var validAccountType validator.Func = func(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(string); ok {
		return domain.IsSupportedAccountType(t)
	}
	return false
}
