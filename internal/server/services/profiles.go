// Package services contains server-side business logic. ProfileService is the
// configuration store for node connection profiles; NodeService talks to the
// node those profiles describe.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/nodekeeper/internal/common"
	"github.com/dmitrijs2005/nodekeeper/internal/dbx"
	"github.com/dmitrijs2005/nodekeeper/internal/server/models"
	"github.com/dmitrijs2005/nodekeeper/internal/server/repositories/repomanager"
)

// ProfileService owns node profiles and keeps at most one of them active.
//
// It holds no locks of its own. Every multi-statement operation runs in one
// transaction opened with the manager's TxOptions, and the storage engine
// serializes concurrent writers.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
}

func (s *ProfileService) newProfile(req models.NewProfileRequest, active bool) *models.NodeProfile {
	return &models.NodeProfile{
		ID:          s.newID(),
		Name:        req.Name,
		RPCURL:      req.RPCURL,
		RPCUser:     req.RPCUser,
		RPCPassword: req.RPCPassword,
		Network:     req.Network,
		IsActive:    active,
		CreatedAt:   s.now().Unix(),
	}
}

func notFoundByID(id string) error {
	return common.NotFound(fmt.Sprintf("Node configuration with id %s not found", id))
}

// validate rejects only what the storage engines cannot hold: PostgreSQL TEXT
// refuses NUL bytes and invalid UTF-8. Empty strings are stored as given.
func validate(req models.NewProfileRequest) error {
	fields := []struct{ name, value string }{
		{"name", req.Name},
		{"rpc_url", req.RPCURL},
		{"rpc_user", req.RPCUser},
		{"rpc_password", req.RPCPassword},
		{"network", req.Network},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return common.InvalidInput(f.name + " is not valid UTF-8")
		}
		if strings.ContainsRune(f.value, 0) {
			return common.InvalidInput(f.name + " must not contain NUL bytes")
		}
	}
	return nil
}

// Create stores a new profile. The first profile in an empty store becomes
// active; every later one starts inactive. Duplicate names and URLs are
// allowed.
func (s *ProfileService) Create(ctx context.Context, req models.NewProfileRequest) (*models.NodeProfile, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	p, err := dbx.InTx(ctx, s.db, s.repomanager.TxOptions(), func(ctx context.Context, tx dbx.DBTX) (*models.NodeProfile, error) {
		repo := s.repomanager.Profiles(tx)

		n, err := repo.Count(ctx)
		if err != nil {
			return nil, err
		}
		p := s.newProfile(req, n == 0)
		if err := repo.Insert(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return nil, common.Database(err)
	}
	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*models.NodeProfile, error) {
	p, err := s.repomanager.Profiles(s.db).GetByID(ctx, id)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return nil, notFoundByID(id)
		}
		return nil, common.Database(err)
	}
	return p, nil
}

func (s *ProfileService) GetActive(ctx context.Context) (*models.NodeProfile, error) {
	p, err := s.repomanager.Profiles(s.db).GetActive(ctx)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return nil, common.NotFound("No active node configuration found")
		}
		return nil, common.Database(err)
	}
	return p, nil
}

// List returns every profile, newest first. An empty store yields an empty,
// non-nil slice.
func (s *ProfileService) List(ctx context.Context) ([]models.NodeProfile, error) {
	list, err := s.repomanager.Profiles(s.db).List(ctx)
	if err != nil {
		return nil, common.Database(err)
	}
	if list == nil {
		list = []models.NodeProfile{}
	}
	return list, nil
}

// Activate makes id the only active profile. An unknown id fails with
// NotFound and nothing is written.
func (s *ProfileService) Activate(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.db, s.repomanager.TxOptions(), func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Profiles(tx)

		ok, err := repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundByID(id)
		}
		if err := repo.DeactivateAll(ctx); err != nil {
			return err
		}
		return repo.Activate(ctx, id)
	})
	return common.Database(err)
}

// Delete removes id. Deleting the active profile leaves the store with no
// active profile; no successor is promoted.
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.db, s.repomanager.TxOptions(), func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Profiles(tx)

		ok, err := repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundByID(id)
		}
		return repo.Delete(ctx, id)
	})
	return common.Database(err)
}

// Seed creates req as the active profile only when the store is empty. It
// reports whether a profile was created.
func (s *ProfileService) Seed(ctx context.Context, req models.NewProfileRequest) (*models.NodeProfile, bool, error) {
	var created *models.NodeProfile
	err := dbx.WithTx(ctx, s.db, s.repomanager.TxOptions(), func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Profiles(tx)

		n, err := repo.Count(ctx)
		if err != nil || n > 0 {
			return err
		}
		p := s.newProfile(req, true)
		if err := repo.Insert(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, false, common.Database(err)
	}
	return created, created != nil, nil
}

// Count reports how many profiles are stored.
func (s *ProfileService) Count(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Profiles(s.db).Count(ctx)
	if err != nil {
		return 0, common.Database(err)
	}
	return n, nil
}

// Ping checks that the store is reachable.
func (s *ProfileService) Ping(ctx context.Context) error {
	return common.Database(s.db.PingContext(ctx))
}
