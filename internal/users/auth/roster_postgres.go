// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/djembe-app/djembe/internal/platform/apperr"
	"github.com/djembe-app/djembe/internal/platform/database/schema"
	"github.com/djembe-app/djembe/internal/platform/dberr"
	"github.com/djembe-app/djembe/pkg/pagination"
)

// PostgresRoster implements [Roster] using pgx against the users.account table.
//
// # When is it used?
//
// Only when DATABASE_URL is configured. Development and tests run on
// [MemoryRoster]; the wire behavior of both implementations is identical.
type PostgresRoster struct {
	pool *pgxpool.Pool
}

// NewPostgresRoster creates a new Postgres-backed roster.
func NewPostgresRoster(pool *pgxpool.Pool) *PostgresRoster {
	return &PostgresRoster{pool: pool}
}

// accountColumns is the stable SELECT column list for scanning an Account.
func accountColumns() string {
	return strings.Join(schema.UserAccount.Columns(), ", ")
}

// scanAccount hydrates an Account from a pgx row.
func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.DisplayName,
		&account.Handle,
		&account.AvatarURL,
		&account.Role,
		&account.Status,
		&account.LastLoginAt,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

/*
FindByEmail retrieves an account by exact email match.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Hydrated member entity
  - error: apperr.NotFound or database execution failure
*/
func (roster *PostgresRoster) FindByEmail(context context.Context, email string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		accountColumns(), schema.UserAccount.Table, schema.UserAccount.Email,
	)

	account, err := scanAccount(roster.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_roster_find_by_email_failed: %w", err)
	}

	return account, nil
}

/*
FindByID retrieves an account by its numeric identifier.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Account: Hydrated member entity
  - error: apperr.NotFound or database execution failure
*/
func (roster *PostgresRoster) FindByID(context context.Context, id int64) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		accountColumns(), schema.UserAccount.Table, schema.UserAccount.ID,
	)

	account, err := scanAccount(roster.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_roster_find_by_id_failed: %w", err)
	}

	return account, nil
}

/*
List returns a page of accounts ordered by ascending ID, plus the total count.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Account: The requested page
  - int: Total number of accounts
  - error: Database execution failures
*/
func (roster *PostgresRoster) List(context context.Context, params pagination.Params) ([]*Account, int, error) {

	// Total count first so the pagination metadata is accurate.
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.UserAccount.Table)
	if err := roster.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_roster_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2`,
		accountColumns(), schema.UserAccount.Table, schema.UserAccount.ID,
	)

	rows, err := roster.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_roster_list_failed: %w", err)
	}
	defer rows.Close()

	accounts := make([]*Account, 0, params.Limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_roster_list_scan_failed: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_roster_list_rows_failed: %w", err)
	}

	return accounts, total, nil
}

/*
Create persists a new account with a sequentially allocated ID.

Description: ID allocation (max existing ID plus one) happens inside the
INSERT statement so concurrent creations are serialized by the database.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: Conflict on duplicate email, or execution failures
*/
func (roster *PostgresRoster) Create(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ((SELECT COALESCE(MAX(%s), 0) + 1 FROM %s), $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Password,
		schema.UserAccount.DisplayName, schema.UserAccount.Handle, schema.UserAccount.AvatarURL,
		schema.UserAccount.Role, schema.UserAccount.Status, schema.UserAccount.CreatedAt,
		schema.UserAccount.ID, schema.UserAccount.Table,
		schema.UserAccount.ID,
	)

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	err := roster.pool.QueryRow(context, query,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		account.Handle,
		account.AvatarURL,
		account.Role,
		account.Status,
		account.CreatedAt,
	).Scan(&account.ID)

	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	return nil
}

/*
Update overwrites the mutable fields of an existing account.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: apperr.NotFound, Conflict on duplicate email, or execution failures
*/
func (roster *PostgresRoster) Update(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $8`,
		schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Password, schema.UserAccount.DisplayName,
		schema.UserAccount.Handle, schema.UserAccount.AvatarURL, schema.UserAccount.Role,
		schema.UserAccount.Status,
		schema.UserAccount.ID,
	)

	tag, err := roster.pool.Exec(context, query,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		account.Handle,
		account.AvatarURL,
		account.Role,
		account.Status,
		account.ID,
	)

	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
Delete removes an account permanently.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: apperr.NotFound or execution failures
*/
func (roster *PostgresRoster) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.ID,
	)

	tag, err := roster.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_roster_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
SetLastLogin records a successful authentication timestamp.

Parameters:
  - context: context.Context
  - id: int64
  - at: time.Time

Returns:
  - error: Execution failures
*/
func (roster *PostgresRoster) SetLastLogin(context context.Context, id int64, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID,
	)

	if _, err := roster.pool.Exec(context, query, at, id); err != nil {
		return fmt.Errorf("postgres_roster_set_last_login_failed: %w", err)
	}

	return nil
}
