package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("client not found")

type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

const clientColumns = `id::text, first_name, last_name, email, phone_number, suburb, post_code,
	state, services_purchased, created_at, updated_at, created_by, created_by_name,
	updated_by, updated_by_name`

func scanClient(row pgx.Row) (Client, error) {
	var cl Client
	var services []string
	err := row.Scan(
		&cl.ID, &cl.FirstName, &cl.LastName, &cl.Email, &cl.PhoneNumber, &cl.Suburb, &cl.PostCode,
		&cl.State, &services, &cl.CreatedAt, &cl.UpdatedAt, &cl.CreatedBy, &cl.CreatedByName,
		&cl.UpdatedBy, &cl.UpdatedByName,
	)
	cl.ServicesPurchased = ServiceList(services)
	return cl, err
}

func (r *Repo) Create(ctx context.Context, cl *Client) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO clients
			(first_name, last_name, email, phone_number, suburb, post_code, state,
			 services_purchased, created_by, created_by_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		cl.FirstName, cl.LastName, cl.Email, cl.PhoneNumber, cl.Suburb, cl.PostCode, cl.State,
		[]string(cl.ServicesPurchased), cl.CreatedBy, cl.CreatedByName,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (Client, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1::uuid`, id)
	cl, err := scanClient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	return cl, err
}

// List returns clients alphabetically. State and purchased-service filters
// run in SQL; the free-text search matches name, email, phone and suburb
// over the fetched rows.
func (r *Repo) List(ctx context.Context, f Filters) ([]Client, error) {
	conds := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if f.State != "" {
		args = append(args, f.State)
		conds = append(conds, fmt.Sprintf("state = $%d", len(args)))
	}
	if f.Service != "" {
		args = append(args, f.Service)
		conds = append(conds, fmt.Sprintf("$%d = ANY(services_purchased)", len(args)))
	}

	q := `SELECT ` + clientColumns + ` FROM clients`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY last_name, first_name"

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Client, 0)
	for rows.Next() {
		cl, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if f.Search != "" {
		out = filterSearch(out, f.Search)
	}
	return out, nil
}

// Count is used by unit economics as the customer total.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n)
	return n, err
}

func (r *Repo) Update(ctx context.Context, cl Client) error {
	ct, err := r.Pool.Exec(ctx,
		`UPDATE clients SET
			first_name = $2, last_name = $3, email = $4, phone_number = $5,
			suburb = $6, post_code = $7, state = $8, services_purchased = $9,
			updated_at = NOW(), updated_by = $10, updated_by_name = $11
		 WHERE id = $1::uuid`,
		cl.ID, cl.FirstName, cl.LastName, cl.Email, cl.PhoneNumber,
		cl.Suburb, cl.PostCode, cl.State, []string(cl.ServicesPurchased),
		cl.UpdatedBy, cl.UpdatedByName,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-deletes the client. Transactions referencing it keep their
// id/name snapshot; there is no cascade.
func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM clients WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func filterSearch(in []Client, search string) []Client {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return in
	}
	out := make([]Client, 0, len(in))
	for _, cl := range in {
		if matchesSearch(cl, q) {
			out = append(out, cl)
		}
	}
	return out
}

func matchesSearch(cl Client, q string) bool {
	for _, field := range []string{
		cl.FirstName + " " + cl.LastName,
		cl.Email,
		cl.PhoneNumber,
		cl.Suburb,
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
