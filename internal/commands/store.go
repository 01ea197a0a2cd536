package commands

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ADMS-backend/internal/platform/apierr"
	"ADMS-backend/internal/platform/db"
)

const selectColumns = `
	SELECT id, command_ulid, device_sn, command, status, created_at, sent_at, completed_at
	FROM device_commands`

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

// WithTx は同じ操作をトランザクション上で行う Store を返す
func (s *Store) WithTx(tx db.DBTX) *Store { return &Store{db: tx} }

// Insert: pending で1件追加。m.ID に採番結果を入れる。
func (s *Store) Insert(ctx context.Context, m *Command) error {
	const q = `
	INSERT INTO device_commands (command_ulid, device_sn, command, status, created_at)
	VALUES (?, ?, ?, 'pending', ?)`
	res, err := s.db.ExecContext(ctx, q, m.CommandULID, m.DeviceSN, m.Payload, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert command: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert command: %w", err)
	}
	m.ID = uint64(id)
	m.Status = StatusPending
	return nil
}

// ClaimOldestPending: sn 宛ての最古の pending を1件だけ sent にする。
// 選択と状態遷移は1文の条件付き UPDATE で行い、LAST_INSERT_ID(id) で対象行の id を受け取る。
// 同じ端末から同時にポーリングされても status='pending' の条件で片方は0行になる。
// 読み戻しまでを1つの Tx で行い、読み戻しに失敗したら sent への遷移も取り消す。
// 対象が無ければ (nil, nil)。
func (s *Store) ClaimOldestPending(ctx context.Context, sn string, at time.Time) (*Command, error) {
	b, ok := s.db.(db.TxBeginner)
	if !ok {
		// 既に呼び出し側の Tx 上
		return s.claim(ctx, sn, at)
	}
	var out *Command
	err := db.RunInTx(ctx, b, nil, func(ctx context.Context, tx db.DBTX) error {
		m, err := s.WithTx(tx).claim(ctx, sn, at)
		out = m
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) claim(ctx context.Context, sn string, at time.Time) (*Command, error) {
	const q = `
	UPDATE device_commands
	SET status = 'sent', sent_at = ?, id = LAST_INSERT_ID(id)
	WHERE device_sn = ? AND status = 'pending'
	ORDER BY id ASC
	LIMIT 1`
	res, err := s.db.ExecContext(ctx, q, at, sn)
	if err != nil {
		return nil, fmt.Errorf("claim command for %q: %w", sn, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("claim command for %q: %w", sn, err)
	}
	if n == 0 {
		return nil, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("claim command for %q: %w", sn, err)
	}
	m, err := s.GetByID(ctx, uint64(id))
	if err != nil {
		return nil, fmt.Errorf("read claimed command %d: %w", id, err)
	}
	return m, nil
}

// CompleteSent: sn 宛ての sent をすべて completed にする。更新件数を返す。
func (s *Store) CompleteSent(ctx context.Context, sn string, at time.Time) (int64, error) {
	const q = `
	UPDATE device_commands
	SET status = 'completed', completed_at = ?
	WHERE device_sn = ? AND status = 'sent'`
	res, err := s.db.ExecContext(ctx, q, at, sn)
	if err != nil {
		return 0, fmt.Errorf("complete commands for %q: %w", sn, err)
	}
	return res.RowsAffected()
}

func (s *Store) GetByID(ctx context.Context, id uint64) (*Command, error) {
	m, err := scanCommand(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("command not found")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) GetByULID(ctx context.Context, ulid string) (*Command, error) {
	m, err := scanCommand(s.db.QueryRowContext(ctx, selectColumns+` WHERE command_ulid = ?`, ulid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("command not found")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) List(ctx context.Context, f Filter) ([]Command, int64, error) {
	var (
		args   []any
		wheres []string
	)
	if f.DeviceSN != nil {
		wheres = append(wheres, "device_sn = ?")
		args = append(args, *f.DeviceSN)
	}
	if f.Status != nil {
		wheres = append(wheres, "status = ?")
		args = append(args, string(*f.Status))
	}
	where := ""
	if len(wheres) > 0 {
		where = " WHERE " + strings.Join(wheres, " AND ")
	}

	var buf bytes.Buffer
	buf.WriteString(selectColumns)
	buf.WriteString(where)
	buf.WriteString(" ORDER BY id DESC")
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list commands: %w", err)
	}
	defer rows.Close()

	var out []Command
	for rows.Next() {
		m, err := scanCommand(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM device_commands"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count commands: %w", err)
	}
	return out, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCommand(r scanner) (*Command, error) {
	var (
		m      Command
		status string
	)
	if err := r.Scan(&m.ID, &m.CommandULID, &m.DeviceSN, &m.Payload, &status, &m.CreatedAt, &m.SentAt, &m.CompletedAt); err != nil {
		return nil, err
	}
	m.Status = Status(status)
	return &m, nil
}
