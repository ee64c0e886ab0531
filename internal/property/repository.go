package property

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrPropertyNotFound = errors.New("property not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ownerID int, req PostRequest) (*Property, error) {
	p := &Property{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO properties (owner_id, title, description, address, pincode, monthly_rent)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, owner_id, title, description, address, pincode, monthly_rent, created_at`,
		ownerID, req.Title, req.Description, req.Address, req.Pincode, req.MonthlyRent,
	).StructScan(p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Property, error) {
	p := &Property{}
	err := r.db.GetContext(ctx, p,
		`SELECT id, owner_id, title, description, address, pincode, monthly_rent, created_at
		 FROM properties WHERE id = $1`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetOwnerContact(ctx context.Context, propertyID int) (*OwnerContact, error) {
	contact := &OwnerContact{}
	err := r.db.GetContext(ctx, contact, `
		SELECT
			u.name   AS owner_name,
			u.number AS contact_phone,
			u.email  AS contact_email
		FROM properties p
		JOIN users u ON p.owner_id = u.id
		WHERE p.id = $1
	`, propertyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return contact, nil
}
