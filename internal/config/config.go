package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Groups    GroupsConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	MinIO     MinIOConfig
	CORS      CORSConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StorageConfig selects where uploaded font files live.
type StorageConfig struct {
	Backend        string // local | minio
	UploadDir      string
	MaxUploadBytes int64
	DeletePolicy   string // restrict | dangle
	// Lock serializes stored-name reservation; redis is needed when several
	// replicas write to one upload dir or bucket.
	Lock string // local | redis
}

// GroupsConfig selects the font group store.
type GroupsConfig struct {
	Backend  string // file | memory | mongo
	DataFile string
	Lock     string // local | redis
	LockTTL  time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type CORSConfig struct {
	AllowedOrigin string
}

// AuthConfig enables write protection when either a JWT secret or an OIDC issuer is set.
type AuthConfig struct {
	JWTSecret    string
	OIDCIssuer   string
	OIDCClientID string
}

func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || (a.OIDCIssuer != "" && a.OIDCClientID != "")
}

const (
	StorageLocal = "local"
	StorageMinIO = "minio"

	GroupsFile   = "file"
	GroupsMemory = "memory"
	GroupsMongo  = "mongo"

	LockLocal = "local"
	LockRedis = "redis"

	DeleteRestrict = "restrict"
	DeleteDangle   = "dangle"
)

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FONT_STORAGE", StorageLocal)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 10*1024*1024)
	v.SetDefault("FONT_DELETE_POLICY", DeleteRestrict)
	v.SetDefault("FONT_LOCK", LockLocal)
	v.SetDefault("GROUP_STORE", GroupsFile)
	v.SetDefault("GROUP_DATA_FILE", "data/font_groups.json")
	v.SetDefault("GROUP_LOCK", LockLocal)
	v.SetDefault("GROUP_LOCK_TTL_SECONDS", 10)
	v.SetDefault("MONGODB_DATABASE", "typeshelf")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_RPS", 5.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("MINIO_BUCKET", "typeshelf-fonts")
	v.SetDefault("CORS_ALLOWED_ORIGIN", "*")

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			LogLevel:     v.GetString("LOG_LEVEL"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Backend:        strings.ToLower(v.GetString("FONT_STORAGE")),
			UploadDir:      v.GetString("UPLOAD_DIR"),
			MaxUploadBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
			DeletePolicy:   strings.ToLower(v.GetString("FONT_DELETE_POLICY")),
			Lock:           strings.ToLower(v.GetString("FONT_LOCK")),
		},
		Groups: GroupsConfig{
			Backend:  strings.ToLower(v.GetString("GROUP_STORE")),
			DataFile: v.GetString("GROUP_DATA_FILE"),
			Lock:     strings.ToLower(v.GetString("GROUP_LOCK")),
			LockTTL:  time.Duration(v.GetInt("GROUP_LOCK_TTL_SECONDS")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		CORS: CORSConfig{
			AllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		Auth: AuthConfig{
			JWTSecret:    os.Getenv("AUTH_JWT_SECRET"),
			OIDCIssuer:   v.GetString("OIDC_ISSUER"),
			OIDCClientID: v.GetString("OIDC_CLIENT_ID"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.Backend == StorageMinIO && cfg.MinIO.SecretKey == "" {
		logger.Warn("MINIO_SECRET_KEY is not set; MinIO requests will be anonymous")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageLocal, StorageMinIO:
	default:
		return fmt.Errorf("FONT_STORAGE: unknown backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == StorageMinIO && c.MinIO.Endpoint == "" {
		return fmt.Errorf("FONT_STORAGE=minio requires MINIO_ENDPOINT")
	}
	switch c.Storage.DeletePolicy {
	case DeleteRestrict, DeleteDangle:
	default:
		return fmt.Errorf("FONT_DELETE_POLICY: unknown policy %q", c.Storage.DeletePolicy)
	}
	switch c.Storage.Lock {
	case LockLocal:
	case LockRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("FONT_LOCK=redis requires REDIS_HOST")
		}
	default:
		return fmt.Errorf("FONT_LOCK: unknown lock %q", c.Storage.Lock)
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	switch c.Groups.Backend {
	case GroupsFile, GroupsMemory:
	case GroupsMongo:
		if c.MongoDB.URI == "" {
			return fmt.Errorf("GROUP_STORE=mongo requires MONGODB_URI")
		}
	default:
		return fmt.Errorf("GROUP_STORE: unknown backend %q", c.Groups.Backend)
	}
	switch c.Groups.Lock {
	case LockLocal:
	case LockRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("GROUP_LOCK=redis requires REDIS_HOST")
		}
	default:
		return fmt.Errorf("GROUP_LOCK: unknown lock %q", c.Groups.Lock)
	}
	return nil
}
