package attendance

import (
	"database/sql"
	"time"
)

// logs テーブルの1行（スキャン用）
type eventRow struct {
	ID        uint64
	PIN       string
	Timestamp time.Time
	WorkCode  int
	DeviceSN  sql.NullString
	CreatedAt time.Time
}

// Event は端末から受信した打刻1件。追記のみで更新・重複排除はしない。
type Event struct {
	ID        uint64
	PIN       string
	Timestamp time.Time // 端末ローカルの壁時計
	WorkCode  int
	DeviceSN  *string // 不明なら nil
	CreatedAt time.Time
}

func (r eventRow) toModel() Event {
	e := Event{
		ID:        r.ID,
		PIN:       r.PIN,
		Timestamp: r.Timestamp,
		WorkCode:  r.WorkCode,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.DeviceSN.Valid {
		sn := r.DeviceSN.String
		e.DeviceSN = &sn
	}
	return e
}

func (e Event) toDTO() EventResponse {
	return EventResponse{
		ID:        e.ID,
		PIN:       e.PIN,
		Timestamp: e.Timestamp.Format(WallClockLayout),
		WorkCode:  e.WorkCode,
		DeviceSN:  e.DeviceSN,
		CreatedAt: e.CreatedAt,
	}
}
