package usecase

import (
	"context"
	"time"

	"github.com/tokenops/serialfind/internal/inventory/entity"
	"github.com/tokenops/serialfind/internal/pkg/clock"
	"github.com/tokenops/serialfind/internal/pkg/config"
	"github.com/tokenops/serialfind/internal/pkg/hash"
	"github.com/tokenops/serialfind/internal/pkg/instrument"
	"github.com/tokenops/serialfind/internal/pkg/otpcode"
	"github.com/tokenops/serialfind/internal/pkg/replay"
	"github.com/tokenops/serialfind/internal/pkg/seedcrypt"
	"github.com/tokenops/serialfind/internal/pkg/storage"
	"github.com/tokenops/serialfind/internal/pkg/uid"
	"github.com/tokenops/serialfind/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// SerialSearchEvent is published after every search, successful or not.
// It carries outcome metadata only; the observed code and all seed material
// stay out of it.
type SerialSearchEvent struct {
	EventID    int64
	Outcome    string
	Serial     string
	Candidates int
	Skipped    int
	Window     int
	Filter     string
	OTPDigest  string
	At         time.Time
}

type repoAudit interface {
	PublishSerialSearch(ctx context.Context, msg SerialSearchEvent) error
}

type repoDB interface {
	GetTokenCandidates(ctx context.Context, filter entity.TokenFilter) ([]entity.Token, error)
	GetTokenList(ctx context.Context, filter entity.TokenListFilterData) ([]entity.Token, int64, error)
	GetTokenBySerial(ctx context.Context, serial string) (*entity.Token, error)
	AdvanceTokenCounter(ctx context.Context, serial string, newCounter int64) error
}

type Usecase struct {
	repoDB        repoDB
	repoAudit     repoAudit
	replay        replay.Guard
	validator     validator.Validator
	cfg           config.Config
	storage       storage.Storage
	hmac          hash.Hash
	seedEncryptor seedcrypt.Encryptor
	deriver       otpcode.Deriver
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoAudit     repoAudit
	Replay        replay.Guard
	Validator     validator.Validator
	Config        config.Config
	Storage       storage.Storage
	HMAC          hash.Hash
	SeedEncryptor seedcrypt.Encryptor
	Deriver       otpcode.Deriver
	UID           uid.NumberID
	UUID          uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoAudit:     dep.RepoAudit,
		replay:        dep.Replay,
		validator:     dep.Validator,
		cfg:           dep.Config,
		storage:       dep.Storage,
		hmac:          dep.HMAC,
		seedEncryptor: dep.SeedEncryptor,
		deriver:       dep.Deriver,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("inventory.usecase").Start(ctx, name)
}
