package commands

import (
	"database/sql"
	"time"
)

type Status string

// pending → sent → completed の一方向のみ
const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSent, StatusCompleted:
		return true
	}
	return false
}

// Command は device_commands テーブルの1行
type Command struct {
	ID          uint64
	CommandULID string
	DeviceSN    string
	Payload     string
	Status      Status
	CreatedAt   time.Time
	SentAt      sql.NullTime
	CompletedAt sql.NullTime
}

// 一覧取得用の検索条件
type Filter struct {
	DeviceSN *string
	Status   *Status
	Limit    int
	Offset   int
}

func (m Command) toDTO() CommandResponse {
	resp := CommandResponse{
		ID:          m.ID,
		CommandULID: m.CommandULID,
		DeviceSN:    m.DeviceSN,
		Command:     m.Payload,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
	}
	if m.SentAt.Valid {
		v := m.SentAt.Time.UTC()
		resp.SentAt = &v
	}
	if m.CompletedAt.Valid {
		v := m.CompletedAt.Time.UTC()
		resp.CompletedAt = &v
	}
	return resp
}
