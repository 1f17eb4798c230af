// Package profiles persists node connection profiles. Implementations are
// bound to a dbx.DBTX so the same code runs on a pool or inside a transaction;
// transaction boundaries belong to the caller.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nodekeeper/internal/common"
	"github.com/dmitrijs2005/nodekeeper/internal/server/models"
)

type Repository interface {
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, p *models.NodeProfile) error
	GetByID(ctx context.Context, id string) (*models.NodeProfile, error)
	GetActive(ctx context.Context) (*models.NodeProfile, error)
	// List returns every profile, newest first.
	List(ctx context.Context) ([]models.NodeProfile, error)
	Exists(ctx context.Context, id string) (bool, error)
	DeactivateAll(ctx context.Context) error
	// Activate marks id active without touching other rows.
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

const selectColumns = `id, name, rpc_url, rpc_user, rpc_password, network, is_active, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*models.NodeProfile, error) {
	p := &models.NodeProfile{}
	err := s.Scan(&p.ID, &p.Name, &p.RPCURL, &p.RPCUser, &p.RPCPassword, &p.Network, &p.IsActive, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func collect(rows *sql.Rows) ([]models.NodeProfile, error) {
	defer rows.Close()

	out := make([]models.NodeProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// expectOne turns a zero-row write into ErrorNotFound.
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
