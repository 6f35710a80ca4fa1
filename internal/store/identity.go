package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pointsx/internal/ledger"
)

// CreateUser inserts a user row and returns it with the assigned id.
// Rows are never updated afterwards.
func (s *Store) CreateUser(ctx context.Context, name string) (ledger.User, error) {
	result, err := s.db.ExecContext(ctx, `INSERT INTO users (name) VALUES (?)`, name)
	if err != nil {
		return ledger.User{}, ledger.StorageFailure("create user", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return ledger.User{}, ledger.StorageFailure("create user: last insert id", err)
	}
	return ledger.User{ID: ledger.UserID(id), Name: name}, nil
}

// QueryUsers returns users with exactly this name, or all users when name
// is nil, ordered by id.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) QueryUsers(ctx context.Context, name *string) ([]ledger.User, error) {
	rows, err := s.queryIdentities(ctx, "users", name)
	if err != nil {
		return nil, ledger.StorageFailure("query users", err)
	}
	defer rows.Close()

	users := []ledger.User{}
	for rows.Next() {
		var u ledger.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, ledger.StorageFailure("query users: scan", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.StorageFailure("query users: iterate", err)
	}
	return users, nil
}

// CreateToken inserts a token row and returns it with the assigned id.
func (s *Store) CreateToken(ctx context.Context, name string) (ledger.Token, error) {
	result, err := s.db.ExecContext(ctx, `INSERT INTO tokens (name) VALUES (?)`, name)
	if err != nil {
		return ledger.Token{}, ledger.StorageFailure("create token", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return ledger.Token{}, ledger.StorageFailure("create token: last insert id", err)
	}
	return ledger.Token{ID: ledger.TokenID(id), Name: name}, nil
}

// QueryTokens returns tokens with exactly this name, or all tokens when
// name is nil, ordered by id.
func (s *Store) QueryTokens(ctx context.Context, name *string) ([]ledger.Token, error) {
	rows, err := s.queryIdentities(ctx, "tokens", name)
	if err != nil {
		return nil, ledger.StorageFailure("query tokens", err)
	}
	defer rows.Close()

	tokens := []ledger.Token{}
	for rows.Next() {
		var t ledger.Token
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, ledger.StorageFailure("query tokens: scan", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.StorageFailure("query tokens: iterate", err)
	}
	return tokens, nil
}

// queryIdentities selects (id, name) from table, optionally by name.
// table is one of two constants, never caller input.
func (s *Store) queryIdentities(ctx context.Context, table string, name *string) (*sql.Rows, error) {
	if name == nil {
		return s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id ASC`, table))
	}
	return s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, name FROM %s WHERE name = ? ORDER BY id ASC`, table), *name)
}
