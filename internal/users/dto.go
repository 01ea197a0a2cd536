package users

import "time"

// ユーザー登録リクエスト。device_sn があればその端末へ USERINFO を積む
type CreateUserRequest struct {
	PIN      string  `json:"pin" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	DeviceSN *string `json:"device_sn,omitempty"`
}

type UserResponse struct {
	ID        uint64    `json:"id"`
	PIN       string    `json:"pin"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateUserResponse struct {
	User        UserResponse `json:"user"`
	CommandSent bool         `json:"command_sent"`
	CommandULID *string      `json:"command_ulid,omitempty"`
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}
