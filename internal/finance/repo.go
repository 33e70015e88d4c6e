package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("transaction not found")

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

const transactionColumns = `id::text, type, category, custom_category, amount_net, gst_amount,
	amount_gross, payment_method, gst_applied, description, client_id::text, client_name,
	date, created_at, updated_at, created_by, created_by_name, updated_by, updated_by_name`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(
		&t.ID, &t.Type, &t.Category, &t.CustomCategory, &t.AmountNet, &t.GSTAmount,
		&t.AmountGross, &t.PaymentMethod, &t.GSTApplied, &t.Description, &t.ClientID, &t.ClientName,
		&t.Date, &t.CreatedAt, &t.UpdatedAt, &t.CreatedBy, &t.CreatedByName, &t.UpdatedBy, &t.UpdatedByName,
	)
	return t, err
}

func (r *Repo) Create(ctx context.Context, t *Transaction) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO transactions
			(type, category, custom_category, amount_net, gst_amount, amount_gross,
			 payment_method, gst_applied, description, client_id, client_name, date,
			 created_by, created_by_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::uuid, $11, $12, $13, $14)
		 RETURNING id`,
		t.Type, t.Category, t.CustomCategory, t.AmountNet, t.GSTAmount, t.AmountGross,
		t.PaymentMethod, t.GSTApplied, t.Description, t.ClientID, t.ClientName, t.Date,
		t.CreatedBy, t.CreatedByName,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (Transaction, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1::uuid`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	return t, err
}

// List returns transactions newest business date first. Date, type, category
// and payment-method filters run in SQL; the free-text search is matched in
// Go over description, client name and category, mirroring how listings are
// searched in the UI.
func (r *Repo) List(ctx context.Context, f Filters) ([]Transaction, error) {
	conds := make([]string, 0, 5)
	args := make([]any, 0, 5)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.StartDate != nil {
		add("date >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("date <= $%d", *f.EndDate)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.PaymentMethod != "" {
		add("payment_method = $%d", f.PaymentMethod)
	}

	q := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY date DESC"

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if f.Search != "" {
		out = filterSearch(out, f.Search)
	}
	return out, nil
}

// ListAll is the unfiltered record set, used for snapshot publishes.
func (r *Repo) ListAll(ctx context.Context) ([]Transaction, error) {
	return r.List(ctx, Filters{})
}

// Update writes the already-merged record back. GST recomputation happens in
// the handler before this point; the repo persists whatever it is handed and
// refreshes updated_at.
func (r *Repo) Update(ctx context.Context, t Transaction) error {
	ct, err := r.Pool.Exec(ctx,
		`UPDATE transactions SET
			type = $2, category = $3, custom_category = $4, amount_net = $5,
			gst_amount = $6, amount_gross = $7, payment_method = $8, gst_applied = $9,
			description = $10, client_id = $11::uuid, client_name = $12, date = $13,
			updated_at = NOW(), updated_by = $14, updated_by_name = $15
		 WHERE id = $1::uuid`,
		t.ID, t.Type, t.Category, t.CustomCategory, t.AmountNet,
		t.GSTAmount, t.AmountGross, t.PaymentMethod, t.GSTApplied,
		t.Description, t.ClientID, t.ClientName, t.Date,
		t.UpdatedBy, t.UpdatedByName,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record permanently. There is no soft delete.
func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func filterSearch(in []Transaction, search string) []Transaction {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return in
	}
	out := make([]Transaction, 0, len(in))
	for _, t := range in {
		if matchesSearch(t, q) {
			out = append(out, t)
		}
	}
	return out
}

func matchesSearch(t Transaction, q string) bool {
	if t.Description != nil && strings.Contains(strings.ToLower(*t.Description), q) {
		return true
	}
	if t.ClientName != nil && strings.Contains(strings.ToLower(*t.ClientName), q) {
		return true
	}
	return strings.Contains(strings.ToLower(string(t.Category)), q)
}
