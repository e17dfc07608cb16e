package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tokenops/serialfind/internal/pkg/clock"
	"github.com/tokenops/serialfind/internal/pkg/config"
	"github.com/tokenops/serialfind/internal/pkg/eventbus"
	"github.com/tokenops/serialfind/internal/pkg/goroutine"
	"github.com/tokenops/serialfind/internal/pkg/hash"
	"github.com/tokenops/serialfind/internal/pkg/instrument"
	"github.com/tokenops/serialfind/internal/pkg/jwt"
	"github.com/tokenops/serialfind/internal/pkg/otpcode"
	"github.com/tokenops/serialfind/internal/pkg/replay"
	"github.com/tokenops/serialfind/internal/pkg/router"
	"github.com/tokenops/serialfind/internal/pkg/seedcrypt"
	"github.com/tokenops/serialfind/internal/pkg/storage"
	"github.com/tokenops/serialfind/internal/pkg/uid"
	"github.com/tokenops/serialfind/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine     *goroutine.Manager
	validator     validator.Validator
	clock         clock.Clocker
	hmac          hash.Hash
	uid           uid.NumberID
	uuid          uid.StringID
	jwt           jwt.JWT
	seedEncryptor seedcrypt.Encryptor
	deriver       otpcode.Deriver

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	replay    replay.Guard
	publisher eventbus.Publisher
	storage   storage.Storage

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initStorage()
	app.initEventbus()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
