// Package costs stores the fixed and variable cost records consumed by the
// unit-economics derivation.
package costs

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type CostType string

const (
	Fixed    CostType = "fixed"
	Variable CostType = "variable"
)

func (t CostType) Valid() bool {
	return t == Fixed || t == Variable
}

// Cost is a cost line. ActualVolume only applies to variable costs: the
// total variable spend is amount * actualVolume, and a missing volume counts
// as zero.
type Cost struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Type         CostType         `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	ActualVolume *decimal.Decimal `json:"actualVolume,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	CreatedBy    string           `json:"createdBy"`
}

var ErrNotFound = errors.New("cost not found")

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

func (r *Repo) Create(ctx context.Context, cost *Cost) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO costs (name, type, amount, actual_volume, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		cost.Name, cost.Type, cost.Amount, cost.ActualVolume, cost.CreatedBy,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) List(ctx context.Context) ([]Cost, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id::text, name, type, amount, actual_volume, created_at, updated_at, created_by
		 FROM costs
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Cost, 0)
	for rows.Next() {
		var cost Cost
		if err := rows.Scan(
			&cost.ID, &cost.Name, &cost.Type, &cost.Amount, &cost.ActualVolume,
			&cost.CreatedAt, &cost.UpdatedAt, &cost.CreatedBy,
		); err != nil {
			return nil, err
		}
		out = append(out, cost)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id string) (Cost, error) {
	var cost Cost
	err := r.Pool.QueryRow(ctx,
		`SELECT id::text, name, type, amount, actual_volume, created_at, updated_at, created_by
		 FROM costs WHERE id = $1::uuid`, id,
	).Scan(
		&cost.ID, &cost.Name, &cost.Type, &cost.Amount, &cost.ActualVolume,
		&cost.CreatedAt, &cost.UpdatedAt, &cost.CreatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cost{}, ErrNotFound
	}
	return cost, err
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM costs WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
