// Package common provides shared configuration, logging, and version
// utilities.
package common

import "time"

// DefaultConfig returns the configuration defaults applied before any
// config file or environment override.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Cloud: CloudConfig{
			LoginURL:       "https://us.cloud.avigilon.com/unity/",
			IngressPattern: "ingress.cluster",
			FallbackRoutes: []string{"#/healthMonitor", "#/servers"},
		},
		Backend: BackendConfig{
			URL:     "http://backend:3001",
			Timeout: Duration(30 * time.Second),
		},
		Refresh: RefreshConfig{
			SuccessInterval: Duration(24 * time.Hour),
			RetryInterval:   Duration(5 * time.Minute),
		},
		Browser: BrowserConfig{
			Headless:      true,
			NoSandbox:     true,
			DisableGPU:    true,
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			NavTimeout:    Duration(60 * time.Second),
			SettleDelay:   Duration(3 * time.Second),
			BootstrapWait: Duration(15 * time.Second),
			RouteTimeout:  Duration(30 * time.Second),
			ScreenshotDir: "./screenshots",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/capto",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}
