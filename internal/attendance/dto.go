package attendance

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
	DateLayout       = "2006-01-02"
	// 端末時刻はタイムゾーン無しの壁時計として返す
	WallClockLayout = "2006-01-02 15:04:05"
)

type EventResponse struct {
	ID        uint64    `json:"id"`
	PIN       string    `json:"pin"`
	Timestamp string    `json:"timestamp"`
	WorkCode  int       `json:"workcode"`
	DeviceSN  *string   `json:"device_sn"`
	CreatedAt time.Time `json:"created_at"`
}

type ListLogsResponse struct {
	Logs  []EventResponse `json:"logs"`
	Total int64           `json:"total"`
}

type ListQuery struct {
	PIN    *string
	Date   *string // YYYY-MM-DD（端末の壁時計での日付）
	Limit  int
	Offset int
}
