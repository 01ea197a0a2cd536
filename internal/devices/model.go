package devices

import "time"

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// devices テーブルの1行
type deviceRow struct {
	ID       uint64
	SN       string
	LastSeen time.Time
}

// Device は状態（online/offline）を導出済みの端末。状態は保存しない。
type Device struct {
	ID       uint64
	SN       string
	LastSeen time.Time
	Status   string
}

// Liveness は「最終通信から window 以内なら online」という判定ポリシー
type Liveness struct {
	Window time.Duration
}

func (l Liveness) StatusAt(lastSeen, now time.Time) string {
	if now.Sub(lastSeen) <= l.Window {
		return StatusOnline
	}
	return StatusOffline
}

func (r deviceRow) toModel(l Liveness, now time.Time) Device {
	return Device{
		ID:       r.ID,
		SN:       r.SN,
		LastSeen: r.LastSeen.UTC(),
		Status:   l.StatusAt(r.LastSeen, now),
	}
}

func (d Device) toDTO() DeviceResponse {
	return DeviceResponse{
		ID:       d.ID,
		SN:       d.SN,
		LastSeen: d.LastSeen,
		Status:   d.Status,
	}
}
