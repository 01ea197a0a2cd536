package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"ADMS-backend/internal/platform/apierr"
	"ADMS-backend/internal/platform/db"
)

// ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

func (s *Store) WithTx(tx db.DBTX) *Store { return &Store{db: tx} }

func (s *Store) Insert(ctx context.Context, u *User) error {
	const q = `INSERT INTO users (pin, name, created_at) VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, u.PIN, u.Name, u.CreatedAt)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return apierr.ErrConflict("pin already exists")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = uint64(id)
	return nil
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, pin, name, created_at
	FROM users
	ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	res := make([]User, 0, 16)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.PIN, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}
