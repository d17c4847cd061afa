package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Cloud   CloudConfig   `toml:"cloud"`
	Backend BackendConfig `toml:"backend"`
	Refresh RefreshConfig `toml:"refresh"`
	Browser BrowserConfig `toml:"browser"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig configures the HTTP trigger endpoint
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
}

// CloudConfig holds the identity and target application settings for the
// login flow. Email and password are required; the process refuses to start
// without them.
type CloudConfig struct {
	Email          string   `toml:"email" validate:"required"`
	Password       string   `toml:"password" validate:"required"`
	LoginURL       string   `toml:"login_url" validate:"required,url"`
	IngressPattern string   `toml:"ingress_pattern" validate:"required"`
	FallbackRoutes []string `toml:"fallback_routes"`
}

// BackendConfig configures the token submission endpoint
type BackendConfig struct {
	URL          string   `toml:"url" validate:"required,url"`
	SubmitSecret string   `toml:"submit_secret"`
	Timeout      Duration `toml:"timeout"`
}

// RefreshConfig controls the supervisor's sleep intervals. Schedule is an
// optional cron expression that arms the manual trigger in addition to the
// interval loop.
type RefreshConfig struct {
	SuccessInterval Duration `toml:"success_interval" validate:"gt=0"`
	RetryInterval   Duration `toml:"retry_interval" validate:"gt=0"`
	Schedule        string        `toml:"schedule"`
}

// BrowserConfig configures the headless Chrome instance and the wait/settle
// timings of the login flow
type BrowserConfig struct {
	Headless      bool          `toml:"headless"`
	NoSandbox     bool          `toml:"no_sandbox"`
	DisableGPU    bool          `toml:"disable_gpu"`
	UserAgent     string        `toml:"user_agent"`
	NavTimeout    Duration `toml:"nav_timeout"`
	SettleDelay   Duration `toml:"settle_delay"`
	BootstrapWait Duration `toml:"bootstrap_wait"`
	RouteTimeout  Duration `toml:"route_timeout"`
	ScreenshotDir string        `toml:"screenshot_dir"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`
	InMemory       bool   `toml:"in_memory"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// LoadFromFiles loads configuration from defaults, then the given TOML files
// in order (later files override earlier ones), then environment variables.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if email := os.Getenv("CAPTO_CLOUD_EMAIL"); email != "" {
		config.Cloud.Email = email
	}
	if password := os.Getenv("CAPTO_CLOUD_PASSWORD"); password != "" {
		config.Cloud.Password = password
	}
	if loginURL := os.Getenv("CAPTO_LOGIN_URL"); loginURL != "" {
		config.Cloud.LoginURL = loginURL
	}
	if pattern := os.Getenv("CAPTO_INGRESS_PATTERN"); pattern != "" {
		config.Cloud.IngressPattern = pattern
	}

	if backendURL := os.Getenv("CAPTO_BACKEND_URL"); backendURL != "" {
		config.Backend.URL = backendURL
	}
	if secret := os.Getenv("CAPTO_TOKEN_SECRET"); secret != "" {
		config.Backend.SubmitSecret = secret
	}

	if interval := os.Getenv("CAPTO_SUCCESS_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			config.Refresh.SuccessInterval = Duration(d)
		}
	}
	if interval := os.Getenv("CAPTO_RETRY_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			config.Refresh.RetryInterval = Duration(d)
		}
	}
	if schedule := os.Getenv("CAPTO_REFRESH_SCHEDULE"); schedule != "" {
		config.Refresh.Schedule = schedule
	}

	if port := os.Getenv("CAPTO_TRIGGER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("CAPTO_TRIGGER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("CAPTO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("CAPTO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration for fatal problems. A missing identity
// or secret, or a retry interval that is not strictly shorter than the
// success interval, refuses startup.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("invalid configuration: field %s failed %s validation", e.Namespace(), e.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Refresh.RetryInterval >= c.Refresh.SuccessInterval {
		return fmt.Errorf("retry_interval (%s) must be shorter than success_interval (%s)",
			c.Refresh.RetryInterval, c.Refresh.SuccessInterval)
	}

	if c.Refresh.Schedule != "" {
		if _, err := cron.ParseStandard(c.Refresh.Schedule); err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", c.Refresh.Schedule, err)
		}
	}

	return nil
}
