package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ADMS-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// Append: 1件を独立して INSERT する（バッチのトランザクションは張らない）
func (s *Store) Append(ctx context.Context, e *Event) error {
	const q = `
	INSERT INTO logs (pin, timestamp, workcode, device_sn, created_at)
	VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, e.PIN, e.Timestamp, e.WorkCode, snOrNil(e.DeviceSN), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	e.ID = uint64(id)
	return nil
}

// List: 条件に応じて動的WHERE + ORDER + LIMIT/OFFSET、COUNT は同じスナップショットで読む
func (s *Store) List(ctx context.Context, q ListQuery) ([]Event, int64, error) {
	var (
		args   []any
		wheres []string
	)
	if q.PIN != nil && *q.PIN != "" {
		wheres = append(wheres, "pin = ?")
		args = append(args, *q.PIN)
	}
	if q.Date != nil && *q.Date != "" {
		day, err := time.ParseInLocation(DateLayout, *q.Date, time.UTC)
		if err != nil {
			return nil, 0, err
		}
		// DATE(timestamp) だとインデックスが効かないので範囲で絞る
		wheres = append(wheres, "timestamp >= ?", "timestamp < ?")
		args = append(args, day, day.AddDate(0, 0, 1))
	}
	where := ""
	if len(wheres) > 0 {
		where = " WHERE " + strings.Join(wheres, " AND ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	var buf bytes.Buffer
	buf.WriteString(`
	SELECT id, pin, timestamp, workcode, device_sn, created_at
	FROM logs`)
	buf.WriteString(where)
	buf.WriteString(" ORDER BY timestamp DESC, id DESC")
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var (
		out   []Event
		total int64
	)
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		rows, err := tx.QueryContext(ctx, buf.String(), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r eventRow
			if err := rows.Scan(&r.ID, &r.PIN, &r.Timestamp, &r.WorkCode, &r.DeviceSN, &r.CreatedAt); err != nil {
				return err
			}
			out = append(out, r.toModel())
		}
		if err := rows.Err(); err != nil {
			return err
		}

		return tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM logs"+where, args...).Scan(&total)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list logs: %w", err)
	}
	return out, total, nil
}

// ===== helpers =====

func snOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
