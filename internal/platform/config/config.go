package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultTokenTTL       = 24 * time.Hour
	defaultJWTIssuer      = "engineer-admin"
	defaultTokenFile      = ".engineer-admin/token"
	minJWTSecretBytes     = 16
)

// サーバーが使うストアの種類です。
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Drive    DriveConfig    `yaml:"drive"`
	Logging  LoggingConfig  `yaml:"logging"`
	Client   ClientConfig   `yaml:"client"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr        string        `yaml:"listen_addr"`
	RequestTimeout    time.Duration `yaml:"-"`
	RequestTimeoutRaw string        `yaml:"request_timeout"`
	// Store は postgres または memory です。memory の場合 database は使いません。
	Store string `yaml:"store"`
	// TransferAtomic が false の場合、異動の 2 つの書き込みはトランザクションを共有しません。
	TransferAtomic       *bool `yaml:"transfer_atomic"`
	TransferCompensation bool  `yaml:"transfer_compensation"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// AuthConfig はサインインとトークン発行に関する設定です。
type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	JWTIssuer   string        `yaml:"jwt_issuer"`
	TokenTTL    time.Duration `yaml:"-"`
	TokenTTLRaw string        `yaml:"token_ttl"`
	BcryptCost  int           `yaml:"bcrypt_cost"`
}

// DriveConfig は共有ドライブへのリンク生成に関する設定です。
type DriveConfig struct {
	SharedFolderID string `yaml:"shared_folder_id"`
}

// LoggingConfig はロガーの設定です。
type LoggingConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
}

// ClientConfig は CLI クライアントの設定です。
type ClientConfig struct {
	ServerAddr        string        `yaml:"server_addr"`
	RequestTimeout    time.Duration `yaml:"-"`
	RequestTimeoutRaw string        `yaml:"request_timeout"`
	// TokenFile はサインイン中のトークンを保存するファイルです。相対パスはホームディレクトリ基準です。
	TokenFile string `yaml:"token_file"`
}

// Load は指定されたパスからサーバー用の設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadClient は CLI クライアント用に設定ファイルを読み込みます。database と auth は検証しません。
func LoadClient(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Client.validateAndNormalize(); err != nil {
		return nil, err
	}
	cfg.Logging.normalize()

	return cfg, nil
}

func read(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	timeout, err := parseDurationAllowEmpty(c.Server.RequestTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: server.request_timeout: %w", err)
	}
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}
	c.Server.RequestTimeout = timeout

	c.Server.Store = strings.ToLower(strings.TrimSpace(c.Server.Store))
	switch c.Server.Store {
	case "":
		c.Server.Store = StorePostgres
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("config: server.store must be %q or %q", StorePostgres, StoreMemory)
	}

	if c.Server.Store == StorePostgres {
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	}

	if err := c.Auth.validateAndNormalize(); err != nil {
		return err
	}

	c.Logging.normalize()

	return nil
}

// Atomic は異動の 2 つの書き込みを同一トランザクションで行うかを返します。既定は true です。
func (s ServerConfig) Atomic() bool {
	return s.TransferAtomic == nil || *s.TransferAtomic
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (a *AuthConfig) validateAndNormalize() error {
	if len(a.JWTSecret) < minJWTSecretBytes {
		return fmt.Errorf("config: auth.jwt_secret must be at least %d bytes", minJWTSecretBytes)
	}
	if a.JWTIssuer == "" {
		a.JWTIssuer = defaultJWTIssuer
	}

	ttl, err := parseDurationAllowEmpty(a.TokenTTLRaw)
	if err != nil {
		return fmt.Errorf("config: auth.token_ttl: %w", err)
	}
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	a.TokenTTL = ttl

	if a.BcryptCost != 0 && (a.BcryptCost < 4 || a.BcryptCost > 31) {
		return fmt.Errorf("config: auth.bcrypt_cost must be between 4 and 31")
	}

	return nil
}

func (c *ClientConfig) validateAndNormalize() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("config: client.server_addr must be set")
	}

	timeout, err := parseDurationAllowEmpty(c.RequestTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: client.request_timeout: %w", err)
	}
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}
	c.RequestTimeout = timeout

	if c.TokenFile == "" {
		c.TokenFile = defaultTokenFile
	}
	if !filepath.IsAbs(c.TokenFile) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("config: client.token_file: %w", err)
		}
		c.TokenFile = filepath.Join(home, c.TokenFile)
	}

	return nil
}

func (l *LoggingConfig) normalize() {
	l.Env = strings.ToLower(strings.TrimSpace(l.Env))
	if l.Env == "" {
		l.Env = "development"
	}
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = "info"
	}
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
