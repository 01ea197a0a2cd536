package users

import (
	"fmt"
	"strings"
	"time"
)

// User は users テーブルの1行
type User struct {
	ID        uint64
	PIN       string
	Name      string
	CreatedAt time.Time
}

func (u User) toDTO() UserResponse {
	return UserResponse{ID: u.ID, PIN: u.PIN, Name: u.Name, CreatedAt: u.CreatedAt.UTC()}
}

// UserInfoCommand は端末にユーザーを登録させる命令文字列。
// 区切りはタブなので値に含まれるタブ・改行は空白に置き換える。
func UserInfoCommand(pin, name string) string {
	return fmt.Sprintf("DATA QUERY USERINFO PIN=%s\tName=%s\tPri=0\tPasswd=\tCard=\tGrp=1\tTZ=0000000100000000",
		sanitize(pin), sanitize(name))
}

var fieldReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

func sanitize(v string) string { return fieldReplacer.Replace(v) }
