package profiles

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/nodekeeper/internal/dbx"
	"github.com/dmitrijs2005/nodekeeper/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM node_profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, p *models.NodeProfile) error {
	query :=
		`INSERT INTO node_profiles (id, name, rpc_url, rpc_user, rpc_password, network, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.RPCURL, p.RPCUser, p.RPCPassword, p.Network, p.IsActive, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.NodeProfile, error) {
	query := `SELECT ` + selectColumns + ` FROM node_profiles WHERE id = ?`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) GetActive(ctx context.Context) (*models.NodeProfile, error) {
	query := `SELECT ` + selectColumns + ` FROM node_profiles WHERE is_active = 1 LIMIT 1`
	return scanProfile(r.db.QueryRowContext(ctx, query))
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.NodeProfile, error) {
	query := `SELECT ` + selectColumns + ` FROM node_profiles ORDER BY created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collect(rows)
}

func (r *SQLiteRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM node_profiles WHERE id = ?)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *SQLiteRepository) DeactivateAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE node_profiles SET is_active = 0 WHERE is_active = 1`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Activate(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE node_profiles SET is_active = 1 WHERE id = ?`, id))
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM node_profiles WHERE id = ?`, id))
}
