package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/bloggingapp/internal/common"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrEditConflict      = errors.New("edit conflict")
	ErrNotFound          = common.ErrRecordNotFound
)

const usernameUniqueConstraint = "users_username_key"

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, email, first_name, last_name, password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version`

	args := []any{
		u.Username,
		u.Email,
		u.FirstName,
		u.LastName,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.Version)
	if err != nil {
		switch {
		case common.UniqueViolation(err, usernameUniqueConstraint):
			return ErrDuplicateUsername
		default:
			return err
		}
	}
	return nil
}

func (m *DBModel) getUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, email, first_name, last_name, password, created_at, version
		FROM users
		WHERE username = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Password.hash, &u.CreatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) getUserByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, username, email, first_name, last_name, created_at, version
		FROM users
		WHERE id = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) listUsers(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, username, email, first_name, last_name, created_at, version
		FROM users
		ORDER BY id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt, &u.Version)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// updateUser writes the public fields, and the password hash when one is set, guarded by version.
func (m *DBModel) updateUser(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, first_name = $3, last_name = $4,
			password = COALESCE($5, password), version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version`

	var hash any
	if u.Password.hash != nil {
		hash = u.Password.hash
	}

	err := m.db.QueryRowContext(ctx, query, u.Username, u.Email, u.FirstName, u.LastName, hash, u.ID, u.Version).Scan(&u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		case common.UniqueViolation(err, usernameUniqueConstraint):
			return ErrDuplicateUsername
		default:
			return err
		}
	}

	return nil
}

// deleteUser removes the user; blogs, likes and comments go with it through ON DELETE CASCADE.
func (m *DBModel) deleteUser(ctx context.Context, id int64) error {
	query := `
		DELETE FROM users
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
