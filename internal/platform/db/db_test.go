package db

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
mode: release
database:
  host: db
  user: adms
  password: secret
  dbname: adms
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, DefaultLivenessWindow, time.Duration(cfg.Protocol.LivenessWindow))
	assert.Equal(t, DefaultCharset, cfg.Protocol.PayloadCharset)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "adms:secret@tcp(db:3306)/adms?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC", DSN(cfg.DB))
}

func TestParseConfigLivenessWindow(t *testing.T) {
	cfg, err := ParseConfig([]byte("protocol:\n  liveness_window: 90s\n"))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, time.Duration(cfg.Protocol.LivenessWindow))
	assert.Equal(t, "dev", cfg.Mode)
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	for _, in := range []string{
		"mode: staging\n",
		"protocol:\n  liveness_window: soon\n",
		"protocol:\n  payload_charset: gbk\n",
		"server:\n  tls: true\n",
	} {
		_, err := ParseConfig([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestBootstrapRunsEveryStatement(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	stmts := Statements()
	require.Len(t, stmts, 5)
	for range stmts {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, Bootstrap(context.Background(), conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	boom := assert.AnError
	err = RunInTx(context.Background(), conn, nil, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO users VALUES (1)"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnWidthsMatchSchema(t *testing.T) {
	cases := []struct {
		column string
		width  int
	}{
		{`sn`, MaxSNLength},
		{`device_sn`, MaxSNLength},
		{`pin`, MaxPINLength},
		{`name`, MaxNameLength},
	}
	for _, tc := range cases {
		re := regexp.MustCompile(`(?m)^\s+` + tc.column + `\s+VARCHAR\((\d+)\)`)
		matches := re.FindAllStringSubmatch(schemaSQL, -1)
		require.NotEmpty(t, matches, tc.column)
		for _, m := range matches {
			assert.Equal(t, fmt.Sprint(tc.width), m[1], tc.column)
		}
	}
}
