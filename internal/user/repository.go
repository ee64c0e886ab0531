package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email, number, passwordHash, role string) (*User, error) {
	u := &User{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (name, email, number, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, email, number, password_hash, role, created_at`,
		name, email, number, passwordHash, role,
	).StructScan(u)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := r.db.GetContext(ctx, u,
		`SELECT id, name, email, number, password_hash, role, created_at FROM users WHERE email = $1`,
		email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	u := &User{}
	err := r.db.GetContext(ctx, u,
		`SELECT id, name, email, number, password_hash, role, created_at FROM users WHERE id = $1`,
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return exists, err
}
