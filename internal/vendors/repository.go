package vendors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/procureflow/procureflow/internal/platform/httpx"
)

// Repository defines vendor data access.
type Repository interface {
	List(ctx context.Context, search string) ([]Vendor, error)
	Get(ctx context.Context, id int64) (Vendor, error)
	Create(ctx context.Context, input CreateVendorInput) (Vendor, error)
	GetOpeningBalance(ctx context.Context, id int64) (decimal.Decimal, error)
	SetOpeningBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository wires vendor storage on the shared pool.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const uniqueViolation = "23505"

func (r *repository) List(ctx context.Context, search string) ([]Vendor, error) {
	query := `SELECT id, code, name, contact, email, opening_balance, created_at, updated_at FROM vendors`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE name ILIKE $1 OR code ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("vendors: list: %w", err)
	}
	defer rows.Close()

	var out []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Code, &v.Name, &v.Contact, &v.Email, &v.OpeningBalance, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("vendors: scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Vendor, error) {
	const query = `SELECT id, code, name, contact, email, opening_balance, created_at, updated_at FROM vendors WHERE id = $1`
	var v Vendor
	err := r.db.QueryRow(ctx, query, id).Scan(&v.ID, &v.Code, &v.Name, &v.Contact, &v.Email, &v.OpeningBalance, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vendor{}, fmt.Errorf("vendors: vendor %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return Vendor{}, fmt.Errorf("vendors: get: %w", err)
	}
	return v, nil
}

func (r *repository) Create(ctx context.Context, input CreateVendorInput) (Vendor, error) {
	const query = `INSERT INTO vendors (code, name, contact, email, opening_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $5)
		RETURNING id, opening_balance, created_at, updated_at`
	now := time.Now().UTC()
	v := Vendor{Code: input.Code, Name: input.Name, Contact: input.Contact, Email: input.Email}
	err := r.db.QueryRow(ctx, query, input.Code, input.Name, input.Contact, input.Email, now).
		Scan(&v.ID, &v.OpeningBalance, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Vendor{}, fmt.Errorf("vendors: code %s: %w", input.Code, httpx.ErrDuplicate)
		}
		return Vendor{}, fmt.Errorf("vendors: create: %w", err)
	}
	return v, nil
}

func (r *repository) GetOpeningBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(opening_balance, 0) FROM vendors WHERE id = $1`
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, query, id).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Decimal{}, fmt.Errorf("vendors: vendor %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("vendors: opening balance: %w", err)
	}
	return balance, nil
}

func (r *repository) SetOpeningBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	const query = `UPDATE vendors SET opening_balance = $1, updated_at = $2 WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, balance, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("vendors: set opening balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vendors: vendor %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
