package repository

import (
	"context"
	"database/sql"

	"github.com/julin-realestate/realestate-api/internal/model"
)

// LeadRepo stores enquiries submitted through the public contact form.
type LeadRepo struct {
	db *sql.DB
}

func NewLeadRepo(db *sql.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

// Create inserts a lead.  The property reference is enforced by a foreign key.
func (r *LeadRepo) Create(ctx context.Context, l *model.Lead) error {
	const q = `INSERT INTO leads (id, property_id, name, email, phone, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, l.ID, l.PropertyID, l.Name, l.Email, l.Phone, l.Message, l.CreatedAt.UTC())
	return err
}

// List returns leads newest first.
func (r *LeadRepo) List(ctx context.Context) ([]*model.Lead, error) {
	const q = `SELECT id, property_id, name, email, phone, message, created_at
		FROM leads ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Lead{}
	for rows.Next() {
		l := new(model.Lead)
		if err := rows.Scan(&l.ID, &l.PropertyID, &l.Name, &l.Email, &l.Phone, &l.Message, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LeadRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads").Scan(&n)
	return n, err
}
