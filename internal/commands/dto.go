package commands

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// コマンド登録リクエスト（payload は端末向けの命令文字列をそのまま）
type EnqueueRequest struct {
	DeviceSN string `json:"device_sn" binding:"required"`
	Command  string `json:"command" binding:"required"`
}

type CommandResponse struct {
	ID          uint64     `json:"id"`
	CommandULID string     `json:"command_ulid"`
	DeviceSN    string     `json:"device_sn"`
	Command     string     `json:"command"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ListCommandsResponse struct {
	Commands []CommandResponse `json:"commands"`
	Total    int64             `json:"total"`
}
