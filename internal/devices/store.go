package devices

import (
	"context"
	"fmt"
	"time"

	"ADMS-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

// Touch: sn をキーに upsert し last_seen を at に更新する（巻き戻しはしない）
func (s *Store) Touch(ctx context.Context, sn string, at time.Time) error {
	const q = `
	INSERT INTO devices (sn, last_seen)
	VALUES (?, ?)
	ON DUPLICATE KEY UPDATE last_seen = GREATEST(last_seen, VALUES(last_seen))`
	if _, err := s.db.ExecContext(ctx, q, sn, at); err != nil {
		return fmt.Errorf("touch device %q: %w", sn, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]deviceRow, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, sn, last_seen
	FROM devices
	ORDER BY last_seen DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var out []deviceRow
	for rows.Next() {
		var r deviceRow
		if err := rows.Scan(&r.ID, &r.SN, &r.LastSeen); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
