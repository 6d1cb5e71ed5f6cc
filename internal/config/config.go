package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wb-go/wbf/zlog"
)

// Config holds the main configuration for the application.
type Config struct {
	Server  Server  `mapstructure:"server"`
	Storage Storage `mapstructure:"storage"`
	FFmpeg  FFmpeg  `mapstructure:"ffmpeg"`
	Preview Preview `mapstructure:"preview"`
	Mirror  Mirror  `mapstructure:"mirror"`
	Events  Events  `mapstructure:"events"`
	Retry   Retry   `mapstructure:"retry"`
}

// Server holds HTTP server-related configuration.
type Server struct {
	HTTPPort     string        `mapstructure:"http_port"`     // HTTP address to listen on
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`  // 0 disables the timeout; uploads may be large and slow
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // 0 disables the timeout; conversions run inside the request
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"` // Upper bound on the request body
}

// Storage holds the local staging directories.
type Storage struct {
	UploadsDir string `mapstructure:"uploads_dir"`
	ResultsDir string `mapstructure:"results_dir"`
}

// FFmpeg holds the external tool configuration.
type FFmpeg struct {
	FFmpegPath      string `mapstructure:"ffmpeg_path"`      // name or path of the ffmpeg binary
	FFprobePath     string `mapstructure:"ffprobe_path"`     // name or path of the ffprobe binary
	MaxConcurrent   int64  `mapstructure:"max_concurrent"`   // ffmpeg processes allowed at once
	DiagnosticLimit int    `mapstructure:"diagnostic_limit"` // characters of diagnostic output kept on failure
}

// Preview holds poster frame settings.
type Preview struct {
	Offset   time.Duration `mapstructure:"offset"` // position of the extracted frame
	Width    int           `mapstructure:"width"`
	Height   int           `mapstructure:"height"`
	Badge    string        `mapstructure:"badge"`     // text drawn in the bottom-right corner, empty disables it
	FontPath string        `mapstructure:"font_path"` // TTF used for the badge; built-in face if empty
	Quality  int           `mapstructure:"quality"`   // JPEG quality
}

// Mirror holds the optional S3-compatible bucket results are copied to.
type Mirror struct {
	Enabled    bool   `mapstructure:"enabled"`
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	Prefix     string `mapstructure:"prefix"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// Events holds configuration for the Kafka topic conversion events are published to.
type Events struct {
	Enabled bool     `mapstructure:"enabled"`
	Topic   string   `mapstructure:"topic"`   // Kafka topic name
	Brokers []string `mapstructure:"brokers"` // List of Kafka broker addresses
}

// Retry defines retry policy configuration.
type Retry struct {
	Attempts int           `mapstructure:"attempts"` // Number of retry attempts
	Delay    time.Duration `mapstructure:"delay"`    // Initial delay between retries
	Backoff  float64       `mapstructure:"backoff"`  // Backoff multiplier for delays
}

// MaxUploadBytes returns the body limit in bytes.
func (s Server) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", ":8000")
	v.SetDefault("server.read_timeout", 0)
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.max_upload_mb", 1024)

	v.SetDefault("storage.uploads_dir", "./uploads")
	v.SetDefault("storage.results_dir", "./results")

	v.SetDefault("ffmpeg.ffmpeg_path", "ffmpeg")
	v.SetDefault("ffmpeg.ffprobe_path", "ffprobe")
	v.SetDefault("ffmpeg.max_concurrent", 2)
	v.SetDefault("ffmpeg.diagnostic_limit", 2000)

	v.SetDefault("preview.offset", time.Second)
	v.SetDefault("preview.width", 640)
	v.SetDefault("preview.height", 320)
	v.SetDefault("preview.badge", "VR180")
	v.SetDefault("preview.quality", 85)

	v.SetDefault("mirror.enabled", false)
	v.SetDefault("mirror.prefix", "results")

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.topic", "vr180.conversions")

	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delay", 100*time.Millisecond)
	v.SetDefault("retry.backoff", 2.0)
}

// bindEnv binds environment variables to Viper keys.
func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"server.http_port":    "VR180_HTTP_PORT",
		"storage.uploads_dir": "VR180_UPLOADS_DIR",
		"storage.results_dir": "VR180_RESULTS_DIR",
		"ffmpeg.ffmpeg_path":  "FFMPEG_PATH",
		"ffmpeg.ffprobe_path": "FFPROBE_PATH",
		"mirror.endpoint":     "MINIO_ENDPOINT",
		"mirror.access_key":   "MINIO_ACCESS_KEY",
		"mirror.secret_key":   "MINIO_SECRET_KEY",
		"mirror.bucket_name":  "MINIO_BUCKET",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	return nil
}

// Load reads the configuration from the YAML file at path, applies
// environment overrides and defaults, and validates the result.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("VR180")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad loads the configuration from the specified file path.
// It panics if the configuration file cannot be loaded or is invalid.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to load config")
	}

	return cfg
}

func (c *Config) validate() error {
	switch {
	case c.Storage.UploadsDir == "" || c.Storage.ResultsDir == "":
		return fmt.Errorf("config: storage.uploads_dir and storage.results_dir are required")
	case c.FFmpeg.FFmpegPath == "" || c.FFmpeg.FFprobePath == "":
		return fmt.Errorf("config: ffmpeg.ffmpeg_path and ffmpeg.ffprobe_path are required")
	case c.FFmpeg.MaxConcurrent < 1:
		return fmt.Errorf("config: ffmpeg.max_concurrent must be at least 1, got %d", c.FFmpeg.MaxConcurrent)
	case c.FFmpeg.DiagnosticLimit < 0:
		return fmt.Errorf("config: ffmpeg.diagnostic_limit must not be negative")
	case c.Server.MaxUploadMB < 1:
		return fmt.Errorf("config: server.max_upload_mb must be positive")
	case c.Mirror.Enabled && (c.Mirror.Endpoint == "" || c.Mirror.BucketName == ""):
		return fmt.Errorf("config: mirror.endpoint and mirror.bucket_name are required when the mirror is enabled")
	case c.Events.Enabled && (len(c.Events.Brokers) == 0 || c.Events.Topic == ""):
		return fmt.Errorf("config: events.brokers and events.topic are required when events are enabled")
	}

	return nil
}
