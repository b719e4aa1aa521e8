package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays environment variables onto config.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}

	strs := map[string]*string{
		"APP_ENV":                   &config.Environment,
		"HTTP_ADDR":                 &config.HTTPAddr,
		"GRPC_ADDR":                 &config.GRPCAddr,
		"DATABASE_URL":              &config.DatabaseDSN,
		"JWT_SECRET":                &config.SecretKey,
		"LOG_BACKEND":               &config.LogBackend,
		"LOG_LEVEL":                 &config.LogLevel,
		"STORAGE_BACKEND":           &config.StorageBackend,
		"S3_ROOT_USER":              &config.S3RootUser,
		"S3_ROOT_PASSWORD":          &config.S3RootPassword,
		"S3_BUCKET":                 &config.S3Bucket,
		"S3_REGION":                 &config.S3Region,
		"S3_BASE_ENDPOINT":          &config.S3BaseEndpoint,
		"RATE_LIMIT_REDIS_ADDR":     &config.RateLimitRedisAddr,
		"RATE_LIMIT_REDIS_PASSWORD": &config.RateLimitRedisPass,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"DB_MAX_OPEN_CONNS":   &config.DBMaxOpenConns,
		"DB_MAX_IDLE_CONNS":   &config.DBMaxIdleConns,
		"BCRYPT_COST":         &config.BcryptCost,
		"LOGIN_RATE_LIMIT":    &config.LoginRateLimit,
		"RATE_LIMIT_REDIS_DB": &config.RateLimitRedisDB,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
		*dst = n
	}

	durs := map[string]*time.Duration{
		"SESSION_TTL":       &config.SessionTTL,
		"RATE_LIMIT_WINDOW": &config.RateLimitWindow,
	}
	for key, dst := range durs {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
		*dst = d
	}

	if v, ok := lookup("METRICS_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("env METRICS_ENABLED: %w", err)
		}
		config.MetricsEnabled = b
	}

	return nil
}
