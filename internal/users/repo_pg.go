package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, first_name, last_name, email, password, phone_number, phone_prefix, date_of_birth, rodo, created_at, updated_at`

// Create inserts a new user row.
func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, first_name, last_name, email, password, phone_number, phone_prefix, date_of_birth, rodo, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		nullableString(user.PhoneNumber),
		nullableString(user.PhonePrefix),
		nullableString(user.DateOfBirth),
		user.Consent,
	)
	return err
}

// GetByID fetches a user by id.
func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

// GetByEmail fetches a user by email.
func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

// EmailInUse reports whether the email belongs to a user other than excludeUserID.
func (r *PGRepo) EmailInUse(ctx context.Context, email, excludeUserID string) (bool, error) {
	const query = `
SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, email, excludeUserID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateProfile persists profile fields of an existing user.
func (r *PGRepo) UpdateProfile(ctx context.Context, user User) error {
	const query = `
UPDATE users
SET first_name = $1, last_name = $2, email = $3, phone_number = $4, phone_prefix = $5, date_of_birth = $6, updated_at = now()
WHERE id = $7`
	res, err := r.DB.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		nullableString(user.PhoneNumber),
		nullableString(user.PhonePrefix),
		nullableString(user.DateOfBirth),
		user.ID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *PGRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	const query = `
UPDATE users
SET password = $1, updated_at = now()
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user row.
func (r *PGRepo) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM users WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	var phoneNumber sql.NullString
	var phonePrefix sql.NullString
	var dateOfBirth sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&phoneNumber,
		&phonePrefix,
		&dateOfBirth,
		&user.Consent,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if phoneNumber.Valid {
		user.PhoneNumber = phoneNumber.String
	}
	if phonePrefix.Valid {
		user.PhonePrefix = phonePrefix.String
	}
	if dateOfBirth.Valid {
		user.DateOfBirth = dateOfBirth.String
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = time.Now().UTC()
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
