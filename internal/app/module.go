package app

import (
	"log/slog"
	"os"

	"github.com/tokenops/serialfind/internal/inventory"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.inventory.enabled") {
		if err := inventory.New(inventory.Dependency{
			Config:        a.config,
			Instrument:    a.ins,
			UID:           a.uid,
			UUID:          a.uuid,
			HMAC:          a.hmac,
			SeedEncryptor: a.seedEncryptor,
			Deriver:       a.deriver,
			Clock:         a.clock,
			Validator:     a.validator,
			Router:        a.router,
			DBConn:        a.dbConn,
			Replay:        a.replay,
			Publisher:     a.publisher,
			Storage:       a.storage,
		}); err != nil {
			slog.Error("failed to init module inventory", "error", err)
			os.Exit(1)
		}
	}
}
