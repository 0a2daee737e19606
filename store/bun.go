package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Credential is the single-row model backing the durable store.
type Credential struct {
	bun.BaseModel `bun:"table:credentials,alias:cred"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id,omitempty"`
	AccessToken   string    `bun:"access_token,notnull" json:"access_token,omitempty"`
	RefreshToken  string    `bun:"refresh_token,notnull" json:"refresh_token,omitempty"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at,omitempty"`
}

// BunStore persists the token pair in a sqlite table. Reads are served from
// a write-through cache so Access/Refresh stay synchronous; every Save runs
// in a transaction that replaces the whole row, which keeps the pair atomic.
type BunStore struct {
	mu      sync.RWMutex
	db      *bun.DB
	access  string
	refresh string
	now     func() time.Time
}

var _ CredentialStore = (*BunStore)(nil)

// OpenSQLite opens (or creates) the sqlite database at path and wraps it
// with bun. Use ":memory:" for throwaway stores.
func OpenSQLite(path string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open credential database")
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewBunStore ensures the credentials table exists and loads any previously
// persisted pair into the cache.
func NewBunStore(ctx context.Context, db *bun.DB) (*BunStore, error) {
	s := &BunStore{db: db, now: time.Now}

	if _, err := db.NewCreateTable().
		Model((*Credential)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create credentials table")
	}

	cred := new(Credential)
	err := db.NewSelect().
		Model(cred).
		Order("id DESC").
		Limit(1).
		Scan(ctx)
	if err == nil {
		s.access = cred.AccessToken
		s.refresh = cred.RefreshToken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load stored credentials")
	}

	return s, nil
}

func (s *BunStore) Save(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Credential)(nil)).
			Where("1 = 1").
			Exec(ctx); err != nil {
			return err
		}

		cred := &Credential{
			AccessToken:  access,
			RefreshToken: refresh,
			UpdatedAt:    s.now(),
		}
		_, err := tx.NewInsert().Model(cred).Exec(ctx)
		return err
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist credentials")
	}

	s.access = access
	s.refresh = refresh
	return nil
}

func (s *BunStore) Access() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.access != ""
}

func (s *BunStore) Refresh() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, s.refresh != ""
}

func (s *BunStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.NewDelete().
		Model((*Credential)(nil)).
		Where("1 = 1").
		Exec(context.Background()); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear credentials")
	}

	s.access = ""
	s.refresh = ""
	return nil
}
