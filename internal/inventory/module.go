package inventory

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokenops/serialfind/internal/inventory/inbound"
	"github.com/tokenops/serialfind/internal/inventory/outbound/db"
	"github.com/tokenops/serialfind/internal/inventory/outbound/mq"
	"github.com/tokenops/serialfind/internal/inventory/usecase"
	"github.com/tokenops/serialfind/internal/pkg/clock"
	"github.com/tokenops/serialfind/internal/pkg/config"
	"github.com/tokenops/serialfind/internal/pkg/eventbus"
	"github.com/tokenops/serialfind/internal/pkg/hash"
	"github.com/tokenops/serialfind/internal/pkg/instrument"
	"github.com/tokenops/serialfind/internal/pkg/otpcode"
	"github.com/tokenops/serialfind/internal/pkg/replay"
	"github.com/tokenops/serialfind/internal/pkg/router"
	"github.com/tokenops/serialfind/internal/pkg/seedcrypt"
	"github.com/tokenops/serialfind/internal/pkg/storage"
	"github.com/tokenops/serialfind/internal/pkg/uid"
	"github.com/tokenops/serialfind/internal/pkg/validator"
)

type Dependency struct {
	DBConn        *pgxpool.Pool              `validate:"required"`
	Router        *router.Router             `validate:"required"`
	Replay        replay.Guard               `validate:"required"`
	Publisher     eventbus.Publisher         `validate:"required"`
	Storage       storage.Storage            `validate:"required"`
	Config        config.Config              `validate:"required"`
	Instrument    instrument.Instrumentation `validate:"required"`
	UID           uid.NumberID               `validate:"required"`
	UUID          uid.StringID               `validate:"required"`
	HMAC          hash.Hash                  `validate:"required"`
	SeedEncryptor seedcrypt.Encryptor        `validate:"required"`
	Deriver       otpcode.Deriver            `validate:"required"`
	Clock         clock.Clocker              `validate:"required"`
	Validator     validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbInventory := db.NewDB(dep.DBConn, dep.Instrument)
	repoAudit := mq.NewMessaging(dep.Publisher, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbInventory,
		RepoAudit:     repoAudit,
		Replay:        dep.Replay,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Storage:       dep.Storage,
		HMAC:          dep.HMAC,
		SeedEncryptor: dep.SeedEncryptor,
		Deriver:       dep.Deriver,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
