package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type Redis struct {
	URL         string
	MaxRetries  int
	PoolSize    int
	PoolTimeout time.Duration
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	URLExpiry  time.Duration
}

type Admin struct {
	Username string
	Password string
	UID      string
}

// Staging controls the pending post pipeline.
type Staging struct {
	SweepInterval time.Duration
	PromoteAfter  time.Duration
	LockTTL       time.Duration
	ScanCount     int64
}

type FCM struct {
	ProjectID       string
	CredentialsFile string
}

type Log struct {
	Level  zerolog.Level
	Format string
}

type Config struct {
	ServerPort           int
	DB                   DB
	Redis                Redis
	MinIO                MinIO
	JWTSecretKey         string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	MaxUploadSize        int64
	EncryptionKey        string
	Admin                Admin
	Staging              Staging
	FCM                  FCM
	Log                  Log
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "community"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadRedis() Redis {
	return Redis{
		URL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		MaxRetries:  getEnvAsInt("REDIS_MAX_RETRIES", 3),
		PoolSize:    getEnvAsInt("REDIS_POOL_SIZE", 10),
		PoolTimeout: getEnvDuration("REDIS_POOL_TIMEOUT", 30*time.Second),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "community"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		URLExpiry:  getEnvDuration("MINIO_URL_EXPIRY", time.Hour),
	}
}

func LoadStaging() Staging {
	return Staging{
		SweepInterval: getEnvDuration("STAGING_SWEEP_INTERVAL", time.Minute),
		PromoteAfter:  getEnvDuration("STAGING_PROMOTE_AFTER", 15*time.Minute),
		LockTTL:       getEnvDuration("STAGING_LOCK_TTL", 10*time.Second),
		ScanCount:     int64(getEnvAsInt("STAGING_SCAN_COUNT", 300)),
	}
}

func LoadLog() Log {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return Log{
		Level:  level,
		Format: getEnv("LOG_FORMAT", "pretty"),
	}
}

// LoadConfig reads .env if present and then the process environment.
func LoadConfig() *Config {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	return &Config{
		ServerPort:           getEnvAsInt("SERVER_PORT", 8080),
		DB:                   LoadDB(),
		Redis:                LoadRedis(),
		MinIO:                LoadMinIO(),
		JWTSecretKey:         getEnv("JWT_SECRET_KEY", ""),
		AccessTokenDuration:  getEnvDuration("ACCESS_TOKEN_DURATION", 2*time.Hour),
		RefreshTokenDuration: getEnvDuration("REFRESH_TOKEN_DURATION", 14*24*time.Hour),
		MaxUploadSize:        parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
		EncryptionKey:        getEnv("ENCRYPTION_KEY", ""),
		Admin: Admin{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
			UID:      getEnv("ADMIN_UID", "admin"),
		},
		Staging: LoadStaging(),
		FCM: FCM{
			ProjectID:       getEnv("FCM_PROJECT_ID", ""),
			CredentialsFile: getEnv("FCM_CREDENTIALS_FILE", ""),
		},
		Log: LoadLog(),
	}
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}
