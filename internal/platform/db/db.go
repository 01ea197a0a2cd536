package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

const (
	driverName = "mysql"

	DefaultConfigPath     = "config/config.yaml"
	DefaultAddr           = ":8080"
	DefaultLivenessWindow = 5 * time.Minute
	DefaultCharset        = "utf-8"
)

type DatabaseConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"user"`
	Password  string `yaml:"password"`
	DBName    string `yaml:"dbname"`
	Bootstrap bool   `yaml:"bootstrap"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	TLS  bool   `yaml:"tls"`
}

// ProtocolConfig は端末プロトコルのポリシー値
type ProtocolConfig struct {
	// LivenessWindow: 最終通信からこの時間以内なら online
	LivenessWindow Duration `yaml:"liveness_window"`
	// PayloadCharset: cdata 本文の文字コード (utf-8 / utf-16le / shift_jis / euc-jp)
	PayloadCharset string `yaml:"payload_charset"`
}

type AuthConfig struct {
	// 空なら /api は認証なし（開発用）
	JWTSecret string `yaml:"jwt_secret"`
	// 起動時に無ければ作る admin アカウント
	InitialAdmin InitialAdmin `yaml:"initial_admin"`
}

type InitialAdmin struct {
	ID       string `yaml:"id"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Version     string         `yaml:"version"`
	Mode        string         `yaml:"mode"`
	Server      ServerConfig   `yaml:"server"`
	DB          DatabaseConfig `yaml:"database"`
	Certificate Certs          `yaml:"certificate"`
	Protocol    ProtocolConfig `yaml:"protocol"`
	Auth        AuthConfig     `yaml:"auth"`
	Log         LogConfig      `yaml:"log"`
}

// Duration は "5m" のような文字列を受け付ける time.Duration
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.Protocol.LivenessWindow <= 0 {
		c.Protocol.LivenessWindow = Duration(DefaultLivenessWindow)
	}
	if c.Protocol.PayloadCharset == "" {
		c.Protocol.PayloadCharset = DefaultCharset
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Mode != "dev" && c.Mode != "release" {
		return fmt.Errorf("mode must be dev or release: %q", c.Mode)
	}
	switch c.Protocol.PayloadCharset {
	case "utf-8", "utf-16le", "shift_jis", "euc-jp":
	default:
		return fmt.Errorf("unsupported payload_charset: %q", c.Protocol.PayloadCharset)
	}
	if c.Server.TLS && (c.Certificate.Cert == "" || c.Certificate.Key == "") {
		return fmt.Errorf("server.tls requires certificate.cert and certificate.key")
	}
	return nil
}

func DSN(c DatabaseConfig) string {
	// loc=UTC: 端末の壁時計をそのまま保存するため変換させない
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC",
		c.Username, c.Password, c.Host, c.Port, c.DBName)
}

func Connect(c DatabaseConfig) (*sql.DB, error) {
	return Open(DSN(c))
}

func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("接続準備に失敗: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB接続に失敗: %w", err)
	}

	db.SetMaxOpenConns(40)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
