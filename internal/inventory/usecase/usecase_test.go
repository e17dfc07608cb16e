package usecase

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tokenops/serialfind/internal/inventory/entity"
	"github.com/tokenops/serialfind/internal/pkg/clock"
	"github.com/tokenops/serialfind/internal/pkg/config"
	"github.com/tokenops/serialfind/internal/pkg/goerror"
	"github.com/tokenops/serialfind/internal/pkg/hash"
	"github.com/tokenops/serialfind/internal/pkg/instrument"
	"github.com/tokenops/serialfind/internal/pkg/otpcode"
	"github.com/tokenops/serialfind/internal/pkg/replay"
	"github.com/tokenops/serialfind/internal/pkg/seedcrypt"
	"github.com/tokenops/serialfind/internal/pkg/storage"
	"github.com/tokenops/serialfind/internal/pkg/validator"
)

const (
	seedAlpha = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
	seedBravo = "JBSWY3DPEHPK3PXP"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// ---- fakes ---- //

type fakeRepoDB struct {
	mu      sync.Mutex
	tokens  []entity.Token
	failAll bool
}

func (f *fakeRepoDB) GetTokenCandidates(_ context.Context, filter entity.TokenFilter) ([]entity.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAll {
		return nil, io.ErrUnexpectedEOF
	}

	out := make([]entity.Token, 0, len(f.tokens))
	for _, tok := range f.tokens {
		if filter.Matches(tok) {
			out = append(out, tok)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serial < out[j].Serial })

	return out, nil
}

func (f *fakeRepoDB) GetTokenList(ctx context.Context, filter entity.TokenListFilterData) ([]entity.Token, int64, error) {
	all, err := f.GetTokenCandidates(ctx, filter.Filter)
	if err != nil {
		return nil, 0, err
	}

	start := int(filter.Page)
	if start > len(all) {
		return nil, int64(len(all)), nil
	}
	end := min(start+int(filter.Size), len(all))

	return all[start:end], int64(len(all)), nil
}

func (f *fakeRepoDB) GetTokenBySerial(_ context.Context, serial string) (*entity.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tokens {
		if f.tokens[i].Serial == serial {
			tok := f.tokens[i]
			return &tok, nil
		}
	}

	return nil, goerror.ErrNotFound
}

func (f *fakeRepoDB) AdvanceTokenCounter(_ context.Context, serial string, newCounter int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.tokens {
		if f.tokens[i].Serial == serial {
			if f.tokens[i].Counter >= newCounter {
				return goerror.ErrConflict
			}
			f.tokens[i].Counter = newCounter
			return nil
		}
	}

	return goerror.ErrNotFound
}

type fakeAudit struct {
	mu     sync.Mutex
	events []SerialSearchEvent
	err    error
}

func (f *fakeAudit) PublishSerialSearch(_ context.Context, msg SerialSearchEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, msg)

	return nil
}

func (f *fakeAudit) last() *SerialSearchEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.events) == 0 {
		return nil
	}
	evt := f.events[len(f.events)-1]

	return &evt
}

type fakeReplay struct {
	mu     sync.Mutex
	claims map[string]struct{}
}

func (f *fakeReplay) Once(_ context.Context, key string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.claims == nil {
		f.claims = make(map[string]struct{})
	}
	if _, ok := f.claims[key]; ok {
		return replay.ErrReplayed
	}
	f.claims[key] = struct{}{}

	return nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeStorage) PutObject(_ context.Context, bucket, key string, r io.Reader, _ storage.PutOptions) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[bucket+"/"+key] = data

	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (f *fakeStorage) GetObject(context.Context, string, string, storage.GetOptions) (io.ReadCloser, storage.ObjectInfo, error) {
	return nil, storage.ObjectInfo{}, storage.ErrMissingSigner
}

func (f *fakeStorage) StatObject(context.Context, string, string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, storage.ErrMissingSigner
}

func (f *fakeStorage) DeleteObject(context.Context, string, string) error { return nil }

func (f *fakeStorage) ListObjects(context.Context, string, string, storage.ListOptions) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (f *fakeStorage) PresignGet(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + bucket + "/" + key, nil
}

func (f *fakeStorage) PresignPut(context.Context, string, string, storage.PutOptions, time.Duration) (string, error) {
	return "", storage.ErrMissingSigner
}

func (f *fakeStorage) Close() error { return nil }

type seqNumberID struct {
	mu   sync.Mutex
	next int64
}

func (s *seqNumberID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	return s.next
}

type staticStringID struct{ v string }

func (s staticStringID) Generate() string { return s.v }

// ---- wiring ---- //

type testDeps struct {
	uc        *Usecase
	repo      *fakeRepoDB
	audit     *fakeAudit
	replay    *fakeReplay
	store     *fakeStorage
	encryptor seedcrypt.Encryptor
	deriver   otpcode.Deriver
}

const testConfigYAML = `
modules:
  inventory:
    max_window: 100
    search_workers: 4
    confirm_ttl_hours: 24
    export_bucket: inventory
    export_url_ttl_minutes: 15
`

func newTestDeps(t *testing.T, tokens []entity.Token) *testDeps {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("build validator: %v", err)
	}

	repo := &fakeRepoDB{tokens: tokens}
	audit := &fakeAudit{}
	guard := &fakeReplay{}
	store := &fakeStorage{}
	enc := testSeedEncryptor()
	deriver := otpcode.New()

	uc := New(Dependency{
		RepoDB:        repo,
		RepoAudit:     audit,
		Replay:        guard,
		Validator:     v10,
		Config:        cfg,
		Storage:       store,
		HMAC:          hash.NewHMACSHA256("test-audit-key"),
		SeedEncryptor: enc,
		Deriver:       deriver,
		UID:           &seqNumberID{},
		UUID:          staticStringID{v: "0197a000-0000-7000-8000-000000000000"},
		Clock:         clock.Fixed{T: testNow},
		Instrument:    instrument.NewNoop(),
	})

	return &testDeps{
		uc:        uc,
		repo:      repo,
		audit:     audit,
		replay:    guard,
		store:     store,
		encryptor: enc,
		deriver:   deriver,
	}
}

func testSeedEncryptor() seedcrypt.Encryptor {
	key := []byte(strings.Repeat("k", 32))
	return seedcrypt.NewAESGCMEncryptor(seedcrypt.StaticKeyProvider{KeyBytes: key})
}

func sealSeed(t *testing.T, enc seedcrypt.Encryptor, serial, seed string) []byte {
	t.Helper()

	sealed, err := enc.Encrypt([]byte(seed), seedcrypt.Scope{
		Serial:  serial,
		Purpose: seedcrypt.PurposeOTPSeed,
	})
	if err != nil {
		t.Fatalf("seal seed for %s: %v", serial, err)
	}

	return sealed
}

func hotpToken(t *testing.T, enc seedcrypt.Encryptor, serial, seed string, counter int64) entity.Token {
	t.Helper()

	return entity.Token{
		Serial:   serial,
		Type:     entity.TokenTypeHOTP,
		Active:   true,
		SeedEnc:  sealSeed(t, enc, serial, seed),
		Counter:  counter,
		Digits:   6,
		Assigned: true,
	}
}

func totpToken(t *testing.T, enc seedcrypt.Encryptor, serial, seed string, period int64) entity.Token {
	t.Helper()

	return entity.Token{
		Serial:        serial,
		Type:          entity.TokenTypeTOTP,
		Active:        true,
		SeedEnc:       sealSeed(t, enc, serial, seed),
		PeriodSeconds: period,
		Digits:        6,
	}
}

func codeAt(t *testing.T, d otpcode.Deriver, seed string, counter uint64) string {
	t.Helper()

	code, err := d.At(seed, counter, 6)
	if err != nil {
		t.Fatalf("derive code at %d: %v", counter, err)
	}

	return code
}
