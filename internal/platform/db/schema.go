package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// 端末から来る値の列幅（schema.sql と一致させること。文字数単位）
const (
	MaxSNLength   = 128 // devices.sn, logs.device_sn, device_commands.device_sn
	MaxPINLength  = 64  // logs.pin, users.pin
	MaxNameLength = 128 // users.name
)

// Statements は schema.sql を文単位に分割したもの（multiStatements 不要）
func Statements() []string {
	var out []string
	for _, s := range strings.Split(schemaSQL, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Bootstrap はテーブルが無ければ作る。既存テーブルは変更しない。
func Bootstrap(ctx context.Context, db DBTX) error {
	for _, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}
