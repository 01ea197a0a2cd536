package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Account struct {
	ID           string
	PasswordHash string
	Role         string
	IsDisabled   bool
	CreatedAt    time.Time
}

type AccountStore interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id string) (int64, error)
	List(ctx context.Context) ([]Account, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) AccountStore {
	return &Store{db: db}
}

// 見つからない場合は (nil, nil)
func (s *Store) GetByID(ctx context.Context, id string) (*Account, error) {
	const q = `
SELECT id, password_hash, role, is_disabled, created_at
FROM admin_accounts
WHERE id = ?
LIMIT 1
`
	var a Account
	var isDisabledInt int
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID,
		&a.PasswordHash,
		&a.Role,
		&isDisabledInt,
		&a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.IsDisabled = isDisabledInt != 0
	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *Account) error {
	const q = `
INSERT INTO admin_accounts (id, password_hash, role, is_disabled, created_at)
VALUES (?, ?, ?, 0, UTC_TIMESTAMP())
`
	_, err := s.db.ExecContext(ctx, q, a.ID, a.PasswordHash, a.Role)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM admin_accounts WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// List はパスワードハッシュを含めずに返す。無効化済みも含む。
func (s *Store) List(ctx context.Context) ([]Account, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, role, is_disabled, created_at
FROM admin_accounts
ORDER BY created_at ASC, id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var (
			a        Account
			disabled int
		)
		if err := rows.Scan(&a.ID, &a.Role, &disabled, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.IsDisabled = disabled != 0
		out = append(out, a)
	}
	return out, rows.Err()
}
