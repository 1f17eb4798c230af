package profiles

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/nodekeeper/internal/dbx"
	"github.com/dmitrijs2005/nodekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM node_profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, p *models.NodeProfile) error {
	query :=
		`INSERT INTO node_profiles (id, name, rpc_url, rpc_user, rpc_password, network, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.RPCURL, p.RPCUser, p.RPCPassword, p.Network, p.IsActive, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.NodeProfile, error) {
	query := `SELECT ` + selectColumns + ` FROM node_profiles WHERE id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetActive(ctx context.Context) (*models.NodeProfile, error) {
	query := `SELECT ` + selectColumns + ` FROM node_profiles WHERE is_active LIMIT 1`
	return scanProfile(r.db.QueryRowContext(ctx, query))
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.NodeProfile, error) {
	query := `SELECT ` + selectColumns + ` FROM node_profiles ORDER BY created_at DESC, seq DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collect(rows)
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM node_profiles WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) DeactivateAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE node_profiles SET is_active = FALSE WHERE is_active`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Activate(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE node_profiles SET is_active = TRUE WHERE id = $1`, id))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM node_profiles WHERE id = $1`, id))
}
