package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/earsip/internal/flagx"
	"github.com/dmitrijs2005/earsip/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig mirrors Config for decoding configuration files. Zero values
// leave the corresponding setting untouched.
type FileConfig struct {
	Environment string `json:"environment" yaml:"environment"`
	HTTPAddr    string `json:"http_addr" yaml:"http_addr"`
	GRPCAddr    string `json:"grpc_addr" yaml:"grpc_addr"`

	DatabaseDSN       string         `json:"database_dsn" yaml:"database_dsn"`
	DBMaxOpenConns    int            `json:"db_max_open_conns" yaml:"db_max_open_conns"`
	DBMaxIdleConns    int            `json:"db_max_idle_conns" yaml:"db_max_idle_conns"`
	DBConnMaxLifetime timex.Duration `json:"db_conn_max_lifetime" yaml:"db_conn_max_lifetime"`
	DBConnectTimeout  timex.Duration `json:"db_connect_timeout" yaml:"db_connect_timeout"`

	SecretKey  string         `json:"secret_key" yaml:"secret_key"`
	SessionTTL timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	BcryptCost int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`

	LogBackend string `json:"log_backend" yaml:"log_backend"`
	LogLevel   string `json:"log_level" yaml:"log_level"`

	MaxUploadSize  int64  `json:"max_upload_size" yaml:"max_upload_size"`
	StorageBackend string `json:"storage_backend" yaml:"storage_backend"`
	S3RootUser     string `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`

	LoginRateLimit     int            `json:"login_rate_limit" yaml:"login_rate_limit"`
	RateLimitWindow    timex.Duration `json:"rate_limit_window" yaml:"rate_limit_window"`
	RateLimitRedisAddr string         `json:"rate_limit_redis_addr" yaml:"rate_limit_redis_addr"`
	RateLimitRedisPass string         `json:"rate_limit_redis_password" yaml:"rate_limit_redis_password"`
	RateLimitRedisDB   int            `json:"rate_limit_redis_db" yaml:"rate_limit_redis_db"`

	MetricsEnabled *bool `json:"metrics_enabled" yaml:"metrics_enabled"`
}

// parseFile overlays the file named by -c/-config onto config. The format
// is chosen by extension: .yaml/.yml use YAML, anything else JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.Environment, fc.Environment)
	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.GRPCAddr, fc.GRPCAddr)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setInt(&c.DBMaxOpenConns, fc.DBMaxOpenConns)
	setInt(&c.DBMaxIdleConns, fc.DBMaxIdleConns)
	setDuration(&c.DBConnMaxLifetime, fc.DBConnMaxLifetime)
	setDuration(&c.DBConnectTimeout, fc.DBConnectTimeout)
	setString(&c.SecretKey, fc.SecretKey)
	setDuration(&c.SessionTTL, fc.SessionTTL)
	setInt(&c.BcryptCost, fc.BcryptCost)
	setString(&c.LogBackend, fc.LogBackend)
	setString(&c.LogLevel, fc.LogLevel)
	if fc.MaxUploadSize > 0 {
		c.MaxUploadSize = fc.MaxUploadSize
	}
	setString(&c.StorageBackend, fc.StorageBackend)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setInt(&c.LoginRateLimit, fc.LoginRateLimit)
	setDuration(&c.RateLimitWindow, fc.RateLimitWindow)
	setString(&c.RateLimitRedisAddr, fc.RateLimitRedisAddr)
	setString(&c.RateLimitRedisPass, fc.RateLimitRedisPass)
	setInt(&c.RateLimitRedisDB, fc.RateLimitRedisDB)
	if fc.MetricsEnabled != nil {
		c.MetricsEnabled = *fc.MetricsEnabled
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
